package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/luna/taskmanager/internal/logging"
	"github.com/luna/taskmanager/internal/middleware/auth"
	"github.com/luna/taskmanager/internal/search"
	"github.com/luna/taskmanager/internal/service"
	"github.com/luna/taskmanager/internal/transport"
	"github.com/luna/taskmanager/internal/util"
)

type TaskHTTP struct {
	Svc *service.TaskService
}

func (h *TaskHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tasks.create")

	owner, err := auth.Current(c)
	if err != nil {
		return fail(l, "create_task_failed", err)
	}

	var req transport.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "create_task_failed", err)
	}

	t, err := h.Svc.Create(ctx, owner, req)
	if err != nil {
		return fail(l, "create_task_failed", err)
	}

	l.Info("create_task_success", "task_uuid", t.UUID)
	return c.JSON(http.StatusOK, transport.NewTaskResponse(t))
}

func (h *TaskHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tasks.update")

	owner, err := auth.Current(c)
	if err != nil {
		return fail(l, "update_task_failed", err)
	}

	var req transport.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "update_task_failed", err)
	}

	t, err := h.Svc.Update(ctx, owner, req)
	if err != nil {
		return fail(l, "update_task_failed", err)
	}

	return c.JSON(http.StatusOK, transport.NewTaskResponse(t))
}

func (h *TaskHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tasks.get")

	owner, err := auth.Current(c)
	if err != nil {
		return fail(l, "get_task_failed", err)
	}

	t, err := h.Svc.Get(ctx, owner, c.Param("uuid"))
	if err != nil {
		return fail(l, "get_task_failed", err)
	}

	return c.JSON(http.StatusOK, transport.NewTaskResponse(t))
}

func (h *TaskHTTP) ListByTaskList(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tasks.list_by_task_list")

	owner, err := auth.Current(c)
	if err != nil {
		return fail(l, "list_tasks_failed", err)
	}

	items, err := h.Svc.ListByTaskList(ctx, owner, c.Param("tasklist_uuid"))
	if err != nil {
		return fail(l, "list_tasks_failed", err)
	}

	out := make([]transport.TaskResponse, 0, len(items))
	for i := range items {
		out = append(out, transport.NewTaskResponse(&items[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TaskHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tasks.delete")

	owner, err := auth.Current(c)
	if err != nil {
		return fail(l, "delete_task_failed", err)
	}

	if err := h.Svc.Delete(ctx, owner, c.Param("uuid")); err != nil {
		return fail(l, "delete_task_failed", err)
	}

	l.Info("delete_task_success", "task_uuid", c.Param("uuid"))
	return c.NoContent(http.StatusOK)
}

func (h *TaskHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tasks.search")

	owner, err := auth.Current(c)
	if err != nil {
		return fail(l, "search_tasks_failed", err)
	}

	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		l.Warn("search_tasks_failed", "status", 400, "reason", "empty query")
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	page, offset, limit := util.Calculate(page, size)

	total, docs, err := h.Svc.Search(ctx, owner, q, offset, limit)
	if err != nil {
		if errors.Is(err, service.ErrSearchDisabled) {
			l.Warn("search_tasks_failed", "status", 503, "reason", "search disabled")
			return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not available")
		}
		return fail(l, "search_tasks_failed", err)
	}

	if docs == nil {
		docs = []search.Document{}
	}
	return c.JSON(http.StatusOK, transport.Page[search.Document]{
		Data: docs,
		Meta: transport.PageMeta{Page: page, Size: limit, Total: total},
	})
}
