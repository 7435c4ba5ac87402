package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luna/taskmanager/internal/models"
)

// ownedList narrows a query to one active list of one owner. Every task list
// read and write goes through it.
func ownedList(db *gorm.DB, userID uint, id uuid.UUID) *gorm.DB {
	return db.Model(&models.TaskList{}).
		Where("uuid = ? AND user_id = ? AND is_deleted = ?", id, userID, false)
}

func (r *GormRepo) ActiveTaskListNameExists(ctx context.Context, userID uint, name string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.TaskList{}).
		Where("user_id = ? AND name = ? AND is_deleted = ?", userID, name, false).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) CreateTaskList(ctx context.Context, tl *models.TaskList) error {
	return translate(r.DB.WithContext(ctx).Create(tl).Error)
}

func (r *GormRepo) GetTaskList(ctx context.Context, userID uint, id uuid.UUID) (*models.TaskList, error) {
	var tl models.TaskList
	if err := ownedList(r.DB.WithContext(ctx), userID, id).First(&tl).Error; err != nil {
		return nil, err
	}
	return &tl, nil
}

func (r *GormRepo) ListTaskLists(ctx context.Context, userID uint, offset, limit int) (int64, []models.TaskList, error) {
	base := r.DB.WithContext(ctx).Model(&models.TaskList{}).
		Where("user_id = ? AND is_deleted = ?", userID, false)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.TaskList, 0, limit)
	if err := base.Session(&gorm.Session{}).
		Order("created_at ASC, uuid ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) UpdateTaskListDescription(ctx context.Context, userID uint, id uuid.UUID, description string) (*models.TaskList, error) {
	var tl models.TaskList
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := ownedList(tx, userID, id).Updates(map[string]any{
			"description": description,
			"updated_at":  time.Now().UTC(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return ownedList(tx, userID, id).First(&tl).Error
	})
	if err != nil {
		return nil, err
	}
	return &tl, nil
}

// SoftDeleteTaskList marks the list and its active tasks deleted in one
// transaction and returns the uuids of the tasks it retired.
func (r *GormRepo) SoftDeleteTaskList(ctx context.Context, userID uint, id uuid.UUID) ([]uuid.UUID, error) {
	var taskIDs []uuid.UUID
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		res := ownedList(tx, userID, id).Updates(map[string]any{
			"is_deleted": true,
			"updated_at": now,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		tasks := tx.Model(&models.Task{}).
			Where("task_list_uuid = ? AND user_id = ? AND is_deleted = ?", id, userID, false)
		if err := tasks.Session(&gorm.Session{}).Pluck("uuid", &taskIDs).Error; err != nil {
			return err
		}
		return tasks.Session(&gorm.Session{}).Updates(map[string]any{
			"is_deleted": true,
			"updated_at": now,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return taskIDs, nil
}
