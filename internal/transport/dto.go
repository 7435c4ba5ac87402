package transport

import (
	"github.com/google/uuid"

	"github.com/luna/taskmanager/internal/models"
)

type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type RegisterResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type AuthenticationRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthenticationResponse struct {
	JWT string `json:"jwt"`
}

type CreateTaskListRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type UpdateTaskListRequest struct {
	UUID        *string `json:"uuid"`
	Description *string `json:"description"`
}

type CreateTaskRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	TaskListUUID *string `json:"tasklist_uuid"`
}

type UpdateTaskRequest struct {
	UUID        *string `json:"uuid"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

type TaskListResponse struct {
	UUID        uuid.UUID `json:"uuid"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
}

func NewTaskListResponse(tl *models.TaskList) TaskListResponse {
	return TaskListResponse{UUID: tl.UUID, Name: tl.Name, Description: tl.Description}
}

type TaskResponse struct {
	UUID         uuid.UUID         `json:"uuid"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Status       models.TaskStatus `json:"status"`
	TaskListUUID uuid.UUID         `json:"tasklist_uuid"`
}

func NewTaskResponse(t *models.Task) TaskResponse {
	return TaskResponse{
		UUID:         t.UUID,
		Name:         t.Name,
		Description:  t.Description,
		Status:       t.Status,
		TaskListUUID: t.TaskListUUID,
	}
}

type PageMeta struct {
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Total int64 `json:"total"`
}

type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

type ProfileResponse struct {
	ID          uint     `json:"id"`
	Username    string   `json:"username"`
	Authorities []string `json:"authorities"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
