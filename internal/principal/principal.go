// Package principal resolves usernames to stored accounts, both for the
// login credential check and for binding a verified bearer token to a user.
package principal

import (
	"context"
	"errors"
	"fmt"

	"github.com/luna/taskmanager/internal/apperr"
	"github.com/luna/taskmanager/internal/hash"
	"github.com/luna/taskmanager/internal/identity"
	"github.com/luna/taskmanager/internal/models"
)

type UserFinder interface {
	// FindUserByUsername returns (nil, nil) when the user does not exist.
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Authenticatable is a stored account together with what the login check and
// the request gate need from it.
type Authenticatable struct {
	ID           uint
	Username     string
	PasswordHash string
	Authorities  identity.Authorities
}

func (a *Authenticatable) Identity() identity.Identity {
	return identity.Identity{
		UserID:      a.ID,
		Username:    a.Username,
		Authorities: a.Authorities,
	}
}

type Resolver struct {
	users UserFinder
}

func NewResolver(users UserFinder) *Resolver {
	return &Resolver{users: users}
}

// FindByUsername is an exact, case-sensitive lookup. A missing user is
// reported through the bool, not as an error.
func (r *Resolver) FindByUsername(ctx context.Context, username string) (*models.User, bool, error) {
	u, err := r.users.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, false, fmt.Errorf("find user %q: %w", username, err)
	}
	if u == nil {
		return nil, false, nil
	}
	return u, true, nil
}

func (r *Resolver) LoadForAuthentication(ctx context.Context, username string) (*Authenticatable, error) {
	u, ok, err := r.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.New(apperr.ErrPrincipalNotFound, apperr.UserNotFoundMessage)
	}
	return &Authenticatable{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Authorities:  identity.DefaultAuthorities(),
	}, nil
}

// Authenticate checks a username and password pair. An unknown user and a
// wrong password produce the same BadCredentials error.
func (r *Resolver) Authenticate(ctx context.Context, username, password string) (*Authenticatable, error) {
	a, err := r.LoadForAuthentication(ctx, username)
	if errors.Is(err, apperr.ErrPrincipalNotFound) {
		return nil, apperr.Wrap(apperr.ErrBadCredentials, apperr.BadCredentialsMessage, err)
	}
	if err != nil {
		return nil, err
	}
	if !hash.CheckPassword(a.PasswordHash, password) {
		return nil, apperr.New(apperr.ErrBadCredentials, apperr.BadCredentialsMessage)
	}
	return a, nil
}
