package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luna/taskmanager/internal/apperr"
	"github.com/luna/taskmanager/internal/events"
	"github.com/luna/taskmanager/internal/identity"
	"github.com/luna/taskmanager/internal/models"
	"github.com/luna/taskmanager/internal/repo"
	"github.com/luna/taskmanager/internal/search"
	"github.com/luna/taskmanager/internal/transport"
)

type Searcher interface {
	Search(ctx context.Context, userID uint, q string, from, size int) (int64, []search.Document, error)
}

type TaskService struct {
	Repo     *repo.GormRepo
	Searcher Searcher
	notifier
}

func NewTaskService(r *repo.GormRepo, pub events.Publisher, ix search.Indexer) *TaskService {
	return &TaskService{Repo: r, notifier: newNotifier(pub, ix)}
}

func taskNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(apperr.ErrResourceNotFound, apperr.TaskNotFoundMessage, err)
	}
	return err
}

func (s *TaskService) Create(ctx context.Context, owner identity.Identity, req transport.CreateTaskRequest) (*models.Task, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	if err := requireDescription(req.Description); err != nil {
		return nil, err
	}
	listID, err := parseUUID(req.TaskListUUID)
	if err != nil {
		return nil, err
	}

	t := &models.Task{
		Name:         *req.Name,
		Description:  *req.Description,
		Status:       models.StatusPending,
		TaskListUUID: listID,
		UserID:       owner.UserID,
	}
	if err := s.Repo.CreateTask(ctx, t); err != nil {
		// the list is missing, deleted or belongs to someone else
		return nil, listNotFound(err)
	}

	s.publish(ctx, events.Event{Type: events.TaskCreated, UserID: owner.UserID, TaskListUUID: listID.String(), TaskUUID: t.UUID.String()})
	s.indexTask(ctx, t)
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, owner identity.Identity, req transport.UpdateTaskRequest) (*models.Task, error) {
	id, err := parseUUID(req.UUID)
	if err != nil {
		return nil, err
	}
	if req.Description == nil && req.Status == nil {
		return nil, invalid(apperr.MissingFieldForUpdate)
	}
	if err := validateDescription(req.Description); err != nil {
		return nil, err
	}
	status, err := parseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	t, err := s.Repo.UpdateTask(ctx, owner.UserID, id, repo.TaskPatch{Description: req.Description, Status: status})
	if err != nil {
		return nil, taskNotFound(err)
	}

	s.publish(ctx, events.Event{Type: events.TaskUpdated, UserID: owner.UserID, TaskListUUID: t.TaskListUUID.String(), TaskUUID: t.UUID.String()})
	s.indexTask(ctx, t)
	return t, nil
}

func (s *TaskService) Get(ctx context.Context, owner identity.Identity, rawID string) (*models.Task, error) {
	id, err := parseUUID(&rawID)
	if err != nil {
		return nil, err
	}
	t, err := s.Repo.GetTask(ctx, owner.UserID, id)
	if err != nil {
		return nil, taskNotFound(err)
	}
	return t, nil
}

func (s *TaskService) ListByTaskList(ctx context.Context, owner identity.Identity, rawListID string) ([]models.Task, error) {
	listID, err := parseUUID(&rawListID)
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.ListTasks(ctx, owner.UserID, listID)
	if err != nil {
		return nil, listNotFound(err)
	}
	return items, nil
}

func (s *TaskService) Delete(ctx context.Context, owner identity.Identity, rawID string) error {
	id, err := parseUUID(&rawID)
	if err != nil {
		return err
	}
	if err := s.Repo.SoftDeleteTask(ctx, owner.UserID, id); err != nil {
		return taskNotFound(err)
	}

	s.publish(ctx, events.Event{Type: events.TaskDeleted, UserID: owner.UserID, TaskUUID: id.String()})
	s.unindexTask(ctx, id.String())
	return nil
}

var ErrSearchDisabled = errors.New("search is not configured")

func (s *TaskService) Search(ctx context.Context, owner identity.Identity, q string, from, size int) (int64, []search.Document, error) {
	if s.Searcher == nil {
		return 0, nil, ErrSearchDisabled
	}
	total, hits, err := s.Searcher.Search(ctx, owner.UserID, q, from, size)
	if err != nil {
		return 0, nil, fmt.Errorf("search tasks: %w", err)
	}
	docs, err := s.activeHits(ctx, owner.UserID, hits)
	if err != nil {
		return 0, nil, err
	}
	total -= int64(len(hits) - len(docs))
	if total < int64(len(docs)) {
		total = int64(len(docs))
	}
	return total, docs, nil
}

// activeHits keeps the hits that are still active in storage, in hit order,
// and refreshes them from the stored rows. Removal from the index is best
// effort, so the index may still hold deleted or stale tasks.
func (s *TaskService) activeHits(ctx context.Context, userID uint, hits []search.Document) ([]search.Document, error) {
	ids := make([]uuid.UUID, 0, len(hits))
	for _, h := range hits {
		if id, err := uuid.Parse(h.UUID); err == nil {
			ids = append(ids, id)
		}
	}
	rows, err := s.Repo.ActiveTasks(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("filter search hits: %w", err)
	}
	byID := make(map[uuid.UUID]*models.Task, len(rows))
	for i := range rows {
		byID[rows[i].UUID] = &rows[i]
	}

	docs := make([]search.Document, 0, len(byID))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			continue
		}
		docs = append(docs, taskDocument(t))
		delete(byID, id)
	}
	return docs, nil
}
