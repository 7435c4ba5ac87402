package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/luna/taskmanager/internal/logging"
	"github.com/luna/taskmanager/internal/middleware/auth"
	"github.com/luna/taskmanager/internal/service"
	"github.com/luna/taskmanager/internal/transport"
	"github.com/luna/taskmanager/internal/util"
)

type TaskListHTTP struct {
	Svc *service.TaskListService
}

func (h *TaskListHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tasklists.create")

	owner, err := auth.Current(c)
	if err != nil {
		return fail(l, "create_task_list_failed", err)
	}

	var req transport.CreateTaskListRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "create_task_list_failed", err)
	}

	tl, err := h.Svc.Create(ctx, owner, req)
	if err != nil {
		return fail(l, "create_task_list_failed", err)
	}

	l.Info("create_task_list_success", "tasklist_uuid", tl.UUID)
	return c.JSON(http.StatusOK, transport.NewTaskListResponse(tl))
}

func (h *TaskListHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tasklists.update")

	owner, err := auth.Current(c)
	if err != nil {
		return fail(l, "update_task_list_failed", err)
	}

	var req transport.UpdateTaskListRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "update_task_list_failed", err)
	}

	tl, err := h.Svc.Update(ctx, owner, req)
	if err != nil {
		return fail(l, "update_task_list_failed", err)
	}

	return c.JSON(http.StatusOK, transport.NewTaskListResponse(tl))
}

func (h *TaskListHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tasklists.get")

	owner, err := auth.Current(c)
	if err != nil {
		return fail(l, "get_task_list_failed", err)
	}

	tl, err := h.Svc.Get(ctx, owner, c.Param("uuid"))
	if err != nil {
		return fail(l, "get_task_list_failed", err)
	}

	return c.JSON(http.StatusOK, transport.NewTaskListResponse(tl))
}

func (h *TaskListHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tasklists.list")

	owner, err := auth.Current(c)
	if err != nil {
		return fail(l, "list_task_lists_failed", err)
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Svc.List(ctx, owner, page, size)
	if err != nil {
		return fail(l, "list_task_lists_failed", err)
	}

	data := make([]transport.TaskListResponse, 0, len(res.Items))
	for i := range res.Items {
		data = append(data, transport.NewTaskListResponse(&res.Items[i]))
	}
	return c.JSON(http.StatusOK, transport.Page[transport.TaskListResponse]{
		Data: data,
		Meta: transport.PageMeta{Page: res.Page, Size: res.Size, Total: res.Total},
	})
}

func (h *TaskListHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tasklists.delete")

	owner, err := auth.Current(c)
	if err != nil {
		return fail(l, "delete_task_list_failed", err)
	}

	if err := h.Svc.Delete(ctx, owner, c.Param("uuid")); err != nil {
		return fail(l, "delete_task_list_failed", err)
	}

	l.Info("delete_task_list_success", "tasklist_uuid", c.Param("uuid"))
	return c.NoContent(http.StatusOK)
}
