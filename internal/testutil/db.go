// Package testutil builds throwaway databases for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/luna/taskmanager/internal/config"
	"github.com/luna/taskmanager/internal/db"
	"github.com/luna/taskmanager/internal/hash"
	"github.com/luna/taskmanager/internal/migrations"
	"github.com/luna/taskmanager/internal/models"
)

// NewDB returns a migrated in-memory sqlite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	ctx := context.Background()
	gdb, err := db.Open(ctx, config.DriverSQLite, ":memory:")
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	require.NoError(t, migrations.Migrate(ctx, config.DriverSQLite, ":memory:", sqlDB))

	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

// SeedUser stores a user whose password is "password123".
func SeedUser(t testing.TB, gdb *gorm.DB, username string) *models.User {
	t.Helper()

	h, err := hash.HashPassword("password123")
	require.NoError(t, err)

	u := &models.User{Username: username, Email: username + "@example.com", PasswordHash: h}
	require.NoError(t, gdb.Create(u).Error)
	return u
}
