package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luna/taskmanager/internal/models"
)

func ownedTask(db *gorm.DB, userID uint, id uuid.UUID) *gorm.DB {
	return db.Model(&models.Task{}).
		Where("uuid = ? AND user_id = ? AND is_deleted = ?", id, userID, false)
}

func requireList(tx *gorm.DB, userID uint, listID uuid.UUID) error {
	var count int64
	if err := ownedList(tx, userID, listID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateTask inserts t into its list. The list has to be active and owned by
// t.UserID, otherwise gorm.ErrRecordNotFound is returned.
func (r *GormRepo) CreateTask(ctx context.Context, t *models.Task) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireList(tx, t.UserID, t.TaskListUUID); err != nil {
			return err
		}
		return tx.Create(t).Error
	})
}

func (r *GormRepo) GetTask(ctx context.Context, userID uint, id uuid.UUID) (*models.Task, error) {
	var t models.Task
	if err := ownedTask(r.DB.WithContext(ctx), userID, id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormRepo) ListTasks(ctx context.Context, userID uint, listID uuid.UUID) ([]models.Task, error) {
	var items []models.Task
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireList(tx, userID, listID); err != nil {
			return err
		}
		return tx.Model(&models.Task{}).
			Where("task_list_uuid = ? AND user_id = ? AND is_deleted = ?", listID, userID, false).
			Order("created_at ASC, uuid ASC").
			Find(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ActiveTasks returns the tasks among ids that belong to userID and are not
// soft-deleted. Rows come back in no particular order.
func (r *GormRepo) ActiveTasks(ctx context.Context, userID uint, ids []uuid.UUID) ([]models.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.Task
	err := r.DB.WithContext(ctx).Model(&models.Task{}).
		Where("uuid IN ? AND user_id = ? AND is_deleted = ?", ids, userID, false).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

type TaskPatch struct {
	Description *string
	Status      *models.TaskStatus
}

func (r *GormRepo) UpdateTask(ctx context.Context, userID uint, id uuid.UUID, patch TaskPatch) (*models.Task, error) {
	fields := map[string]any{"updated_at": time.Now().UTC()}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Status != nil {
		fields["status"] = *patch.Status
	}

	var t models.Task
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := ownedTask(tx, userID, id).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return ownedTask(tx, userID, id).First(&t).Error
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormRepo) SoftDeleteTask(ctx context.Context, userID uint, id uuid.UUID) error {
	res := ownedTask(r.DB.WithContext(ctx), userID, id).Updates(map[string]any{
		"is_deleted": true,
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
