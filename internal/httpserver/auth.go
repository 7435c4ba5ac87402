package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/luna/taskmanager/internal/logging"
	"github.com/luna/taskmanager/internal/service"
	"github.com/luna/taskmanager/internal/transport"
)

type AuthHTTP struct {
	Svc        *service.AuthService
	CSRFHeader string
}

// RegisterForm hands out the CSRF token a client must echo back when posting
// the registration.
func (h *AuthHTTP) RegisterForm(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"csrf_token":  c.Response().Header().Get(h.CSRFHeader),
		"csrf_header": h.CSRFHeader,
	})
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "register_failed", err)
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "register_failed", err)
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, transport.RegisterResponse{Username: user.Username, Email: user.Email})
}

func (h *AuthHTTP) Authenticate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.authenticate")

	var req transport.AuthenticationRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "authenticate_failed", err)
	}

	tkn, err := h.Svc.Authenticate(ctx, req)
	if err != nil {
		return fail(l, "authenticate_failed", err)
	}

	l.Info("authenticate_success", "username", req.Username)
	return c.JSON(http.StatusOK, transport.AuthenticationResponse{JWT: tkn})
}
