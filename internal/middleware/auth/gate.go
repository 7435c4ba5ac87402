// Package auth holds the bearer-token gate that binds a request to a
// principal and the access policy that decides which paths need one.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/luna/taskmanager/internal/apperr"
	"github.com/luna/taskmanager/internal/identity"
	"github.com/luna/taskmanager/internal/logging"
	"github.com/luna/taskmanager/internal/principal"
)

const bearerPrefix = "Bearer "

type TokenVerifier interface {
	ExtractSubject(raw string) (string, error)
	IsTokenValid(raw, expectedSubject string) bool
}

type PrincipalLoader interface {
	LoadForAuthentication(ctx context.Context, username string) (*principal.Authenticatable, error)
}

type Gate struct {
	Tokens     TokenVerifier
	Principals PrincipalLoader
}

func NewGate(tokens TokenVerifier, principals PrincipalLoader) *Gate {
	return &Gate{Tokens: tokens, Principals: principals}
}

// Middleware authenticates the request from its Authorization header.
//
// No header, or one without the "Bearer " prefix, passes through
// unauthenticated. A bearer token that cannot be parsed or does not match its
// principal stops the request with InvalidToken. A token whose subject is
// unknown stops it with PrincipalNotFound. Otherwise the principal's identity
// is installed in the request context, unless one is already there.
func (g *Gate) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		ctx := req.Context()
		l := logging.FromContext(ctx).With("mw", "auth.gate")

		header := req.Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return next(c)
		}
		raw := header[len(bearerPrefix):]

		subject, err := g.Tokens.ExtractSubject(raw)
		if err != nil {
			l.Warn("token_rejected", "status", 401, "reason", "cannot extract subject", "error", err)
			return apperr.Wrap(apperr.ErrInvalidToken, apperr.InvalidTokenMessage, err)
		}

		if subject == "" {
			return next(c)
		}
		if _, ok := identity.FromContext(ctx); ok {
			return next(c)
		}

		p, err := g.Principals.LoadForAuthentication(ctx, subject)
		if err != nil {
			if errors.Is(err, apperr.ErrPrincipalNotFound) {
				l.Warn("token_rejected", "status", 401, "reason", "unknown subject")
			} else {
				l.Error("load_principal_failed", "status", 500, "error", err)
			}
			return err
		}

		if !g.Tokens.IsTokenValid(raw, p.Username) {
			l.Warn("token_rejected", "status", 401, "reason", "expired or subject mismatch")
			return apperr.New(apperr.ErrInvalidToken, apperr.InvalidTokenMessage)
		}

		c.SetRequest(req.WithContext(identity.NewContext(ctx, p.Identity())))
		return next(c)
	}
}
