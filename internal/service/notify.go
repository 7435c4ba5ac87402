package service

import (
	"context"

	"github.com/luna/taskmanager/internal/events"
	"github.com/luna/taskmanager/internal/logging"
	"github.com/luna/taskmanager/internal/models"
	"github.com/luna/taskmanager/internal/search"
)

// notifier fans successful mutations out to the event stream and the search
// index. Neither can fail the request; errors are only logged.
type notifier struct {
	events events.Publisher
	index  search.Indexer
}

func newNotifier(pub events.Publisher, ix search.Indexer) notifier {
	if pub == nil {
		pub = events.Discard{}
	}
	if ix == nil {
		ix = search.Nop{}
	}
	return notifier{events: pub, index: ix}
}

func (n notifier) publish(ctx context.Context, ev events.Event) {
	if err := n.events.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "type", ev.Type, "error", err)
	}
}

func taskDocument(t *models.Task) search.Document {
	return search.Document{
		UUID:         t.UUID.String(),
		Name:         t.Name,
		Description:  t.Description,
		Status:       string(t.Status),
		TaskListUUID: t.TaskListUUID.String(),
		UserID:       t.UserID,
	}
}

func (n notifier) indexTask(ctx context.Context, t *models.Task) {
	doc := taskDocument(t)
	if err := n.index.IndexTask(ctx, doc); err != nil {
		logging.FromContext(ctx).Warn("index_task_failed", "task_uuid", doc.UUID, "error", err)
	}
}

func (n notifier) unindexTask(ctx context.Context, id string) {
	if err := n.index.DeleteTask(ctx, id); err != nil {
		logging.FromContext(ctx).Warn("unindex_task_failed", "task_uuid", id, "error", err)
	}
}
