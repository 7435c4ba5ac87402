package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/luna/taskmanager/internal/middleware/auth"
	"github.com/luna/taskmanager/internal/middleware/csrf"
	loggingmw "github.com/luna/taskmanager/internal/middleware/logging"
)

type Deps struct {
	Logger *slog.Logger
	Gate   *auth.Gate
	Policy *auth.Policy
	CSRF   csrf.Config

	Misc      *MiscHTTP
	Auth      *AuthHTTP
	TaskLists *TaskListHTTP
	Tasks     *TaskHTTP
}

// Register installs the middleware chain and the routes. Recovered panics are
// returned to the request logger, which renders and logs them. The gate runs
// before the access policy so the policy can see the identity it installed.
func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(loggingmw.RequestLogger(d.Logger))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{DisableErrorHandler: true}))
	e.Use(d.Gate.Middleware)
	e.Use(d.Policy.Middleware)
	e.Use(csrf.Middleware(d.CSRF))

	e.GET("/", d.Misc.Landing)
	e.GET("/health/live", d.Misc.Live)
	e.GET("/health/ready", d.Misc.Ready)
	e.GET("/profile", d.Misc.Profile)

	if d.Auth.CSRFHeader == "" {
		d.Auth.CSRFHeader = d.CSRF.HeaderName
	}
	e.GET("/register", d.Auth.RegisterForm)
	e.POST("/register", d.Auth.Register)
	e.POST("/authenticate", d.Auth.Authenticate)

	v1 := e.Group("/api/v1")

	lists := v1.Group("/tasklists")
	lists.POST("", d.TaskLists.Create)
	lists.PUT("", d.TaskLists.Update)
	lists.GET("", d.TaskLists.List)
	lists.GET("/:uuid", d.TaskLists.Get)
	lists.DELETE("/:uuid", d.TaskLists.Delete)

	tasks := v1.Group("/tasks")
	tasks.POST("", d.Tasks.Create)
	tasks.PUT("", d.Tasks.Update)
	tasks.GET("/search", d.Tasks.Search)
	tasks.GET("/tasklist/:tasklist_uuid", d.Tasks.ListByTaskList)
	tasks.GET("/:uuid", d.Tasks.Get)
	tasks.DELETE("/:uuid", d.Tasks.Delete)
}
