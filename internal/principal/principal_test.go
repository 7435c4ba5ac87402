package principal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luna/taskmanager/internal/apperr"
	"github.com/luna/taskmanager/internal/hash"
	"github.com/luna/taskmanager/internal/identity"
	"github.com/luna/taskmanager/internal/models"
)

type fakeUsers struct {
	byName map[string]*models.User
	err    error
}

func (f *fakeUsers) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byName[username], nil
}

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	h, err := hash.HashPassword("s3cret-pass")
	require.NoError(t, err)
	return NewResolver(&fakeUsers{byName: map[string]*models.User{
		"alice": {ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: h},
	}})
}

func TestFindByUsername(t *testing.T) {
	t.Parallel()
	r := newResolver(t)
	ctx := context.Background()

	u, ok, err := r.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint(1), u.ID)

	_, ok, err = r.FindByUsername(ctx, "ALICE")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = r.FindByUsername(ctx, " alice")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindByUsername_StorageError(t *testing.T) {
	t.Parallel()
	boom := errors.New("connection refused")
	r := NewResolver(&fakeUsers{err: boom})

	_, _, err := r.FindByUsername(context.Background(), "alice")
	assert.ErrorIs(t, err, boom)
}

func TestLoadForAuthentication(t *testing.T) {
	t.Parallel()
	r := newResolver(t)

	a, err := r.LoadForAuthentication(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", a.Username)
	assert.NotEmpty(t, a.PasswordHash)
	assert.True(t, a.Authorities.Has(identity.AuthorityUser))

	id := a.Identity()
	assert.Equal(t, uint(1), id.UserID)
	assert.Equal(t, "alice", id.Username)

	_, err = r.LoadForAuthentication(context.Background(), "mallory")
	assert.ErrorIs(t, err, apperr.ErrPrincipalNotFound)
	assert.Equal(t, apperr.UserNotFoundMessage, apperr.Message(err, ""))
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	r := newResolver(t)
	ctx := context.Background()

	a, err := r.Authenticate(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, uint(1), a.ID)

	_, err = r.Authenticate(ctx, "alice", "wrong-pass")
	assert.ErrorIs(t, err, apperr.ErrBadCredentials)

	_, err = r.Authenticate(ctx, "mallory", "s3cret-pass")
	assert.ErrorIs(t, err, apperr.ErrBadCredentials)
	assert.Equal(t, apperr.BadCredentialsMessage, apperr.Message(err, ""))
}
