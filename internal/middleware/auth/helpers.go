package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/luna/taskmanager/internal/apperr"
	"github.com/luna/taskmanager/internal/identity"
)

const unauthenticatedMessage = "Full authentication is required to access this resource."

// Current returns the identity the gate installed for this request, or an
// Unauthenticated error when the request carried no valid bearer token.
func Current(c echo.Context) (identity.Identity, error) {
	id, ok := identity.FromContext(c.Request().Context())
	if !ok {
		return identity.Identity{}, apperr.New(apperr.ErrUnauthenticated, unauthenticatedMessage)
	}
	return id, nil
}
