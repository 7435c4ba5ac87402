package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
)

// ParseTaskStatus matches the enum name exactly; "pending" is not PENDING.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch st := TaskStatus(s); st {
	case StatusPending, StatusInProgress, StatusCompleted:
		return st, true
	}
	return "", false
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"   json:"id"`
	Username     string    `gorm:"unique;not null;size:50"    json:"username"`
	Email        string    `gorm:"unique;not null;size:100"   json:"email"`
	PasswordHash string    `gorm:"not null"                   json:"-"`
	CreatedAt    time.Time `gorm:"not null"                   json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

type TaskList struct {
	UUID        uuid.UUID `gorm:"column:uuid;primaryKey"           json:"uuid"`
	Name        string    `gorm:"column:name;not null;size:64"     json:"name"`
	Description *string   `gorm:"column:description;size:256"      json:"description"`
	IsDeleted   bool      `gorm:"column:is_deleted;not null"       json:"-"`
	CreatedAt   time.Time `gorm:"column:created_at"                json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"                json:"updated_at"`
	UserID      uint      `gorm:"column:user_id;not null;index"    json:"-"`
}

func (t *TaskList) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == uuid.Nil {
		t.UUID = uuid.New()
	}
	return nil
}

func (TaskList) TableName() string {
	return "task_lists"
}

type Task struct {
	UUID         uuid.UUID  `gorm:"column:uuid;primaryKey"             json:"uuid"`
	Name         string     `gorm:"column:name;not null;size:64"       json:"name"`
	Description  string     `gorm:"column:description;not null"        json:"description"`
	Status       TaskStatus `gorm:"column:status;not null"             json:"status"`
	IsDeleted    bool       `gorm:"column:is_deleted;not null"         json:"-"`
	CreatedAt    time.Time  `gorm:"column:created_at"                  json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"                  json:"updated_at"`
	TaskListUUID uuid.UUID  `gorm:"column:task_list_uuid;not null"     json:"tasklist_uuid"`
	UserID       uint       `gorm:"column:user_id;not null;index"      json:"-"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == uuid.Nil {
		t.UUID = uuid.New()
	}
	if t.Status == "" {
		t.Status = StatusPending
	}
	return nil
}

func (Task) TableName() string {
	return "tasks"
}
