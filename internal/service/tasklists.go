package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/luna/taskmanager/internal/apperr"
	"github.com/luna/taskmanager/internal/events"
	"github.com/luna/taskmanager/internal/identity"
	"github.com/luna/taskmanager/internal/models"
	"github.com/luna/taskmanager/internal/repo"
	"github.com/luna/taskmanager/internal/search"
	"github.com/luna/taskmanager/internal/transport"
	"github.com/luna/taskmanager/internal/util"
)

type TaskListService struct {
	Repo *repo.GormRepo
	notifier
}

func NewTaskListService(r *repo.GormRepo, pub events.Publisher, ix search.Indexer) *TaskListService {
	return &TaskListService{Repo: r, notifier: newNotifier(pub, ix)}
}

func listNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(apperr.ErrResourceNotFound, apperr.TaskListNotFoundMessage, err)
	}
	return err
}

func (s *TaskListService) Create(ctx context.Context, owner identity.Identity, req transport.CreateTaskListRequest) (*models.TaskList, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	if err := validateDescription(req.Description); err != nil {
		return nil, err
	}

	exists, err := s.Repo.ActiveTaskListNameExists(ctx, owner.UserID, *req.Name)
	if err != nil {
		return nil, fmt.Errorf("check task list name: %w", err)
	}
	if exists {
		return nil, apperr.New(apperr.ErrDuplicate, apperr.DuplicateEntryMessage+*req.Name)
	}

	tl := &models.TaskList{Name: *req.Name, Description: req.Description, UserID: owner.UserID}
	if err := s.Repo.CreateTaskList(ctx, tl); err != nil {
		// lost a race with a concurrent create; the index caught it
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperr.Wrap(apperr.ErrDuplicate, apperr.DuplicateEntryMessage+*req.Name, err)
		}
		return nil, fmt.Errorf("create task list: %w", err)
	}

	s.publish(ctx, events.Event{Type: events.TaskListCreated, UserID: owner.UserID, TaskListUUID: tl.UUID.String()})
	return tl, nil
}

func (s *TaskListService) Update(ctx context.Context, owner identity.Identity, req transport.UpdateTaskListRequest) (*models.TaskList, error) {
	id, err := parseUUID(req.UUID)
	if err != nil {
		return nil, err
	}
	if err := requireDescription(req.Description); err != nil {
		return nil, err
	}

	tl, err := s.Repo.UpdateTaskListDescription(ctx, owner.UserID, id, *req.Description)
	if err != nil {
		return nil, listNotFound(err)
	}

	s.publish(ctx, events.Event{Type: events.TaskListUpdated, UserID: owner.UserID, TaskListUUID: tl.UUID.String()})
	return tl, nil
}

func (s *TaskListService) Get(ctx context.Context, owner identity.Identity, rawID string) (*models.TaskList, error) {
	id, err := parseUUID(&rawID)
	if err != nil {
		return nil, err
	}
	tl, err := s.Repo.GetTaskList(ctx, owner.UserID, id)
	if err != nil {
		return nil, listNotFound(err)
	}
	return tl, nil
}

type TaskListPage struct {
	Page  int
	Size  int
	Total int64
	Items []models.TaskList
}

func (s *TaskListService) List(ctx context.Context, owner identity.Identity, page, size int) (*TaskListPage, error) {
	page, offset, limit := util.Calculate(page, size)
	total, items, err := s.Repo.ListTaskLists(ctx, owner.UserID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list task lists: %w", err)
	}
	return &TaskListPage{Page: page, Size: limit, Total: total, Items: items}, nil
}

// Delete soft-deletes the list together with its active tasks.
func (s *TaskListService) Delete(ctx context.Context, owner identity.Identity, rawID string) error {
	id, err := parseUUID(&rawID)
	if err != nil {
		return err
	}
	taskIDs, err := s.Repo.SoftDeleteTaskList(ctx, owner.UserID, id)
	if err != nil {
		return listNotFound(err)
	}

	s.publish(ctx, events.Event{Type: events.TaskListDeleted, UserID: owner.UserID, TaskListUUID: id.String()})
	for _, tid := range taskIDs {
		s.unindexTask(ctx, tid.String())
	}
	return nil
}
