package migrations_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luna/taskmanager/internal/migrations"
	"github.com/luna/taskmanager/internal/testutil"
)

func TestMigrate_UnsupportedDriver(t *testing.T) {
	t.Parallel()
	err := migrations.Migrate(context.Background(), "mysql", "dsn", nil)
	assert.Error(t, err)
}

func TestSQLiteSchema_ActiveNameIsUniquePerOwner(t *testing.T) {
	t.Parallel()
	gdb := testutil.NewDB(t)
	u := testutil.SeedUser(t, gdb, "alice")

	insert := func(id string, deleted bool) error {
		return gdb.Exec(
			`INSERT INTO task_lists (uuid, name, is_deleted, user_id) VALUES (?, ?, ?, ?)`,
			id, "Groceries", deleted, u.ID,
		).Error
	}

	require.NoError(t, insert("00000000-0000-0000-0000-000000000001", true))
	require.NoError(t, insert("00000000-0000-0000-0000-000000000002", false))
	assert.Error(t, insert("00000000-0000-0000-0000-000000000003", false))
	require.NoError(t, insert("00000000-0000-0000-0000-000000000004", true))
}

func TestSQLiteSchema_RejectsUnknownStatus(t *testing.T) {
	t.Parallel()
	gdb := testutil.NewDB(t)
	u := testutil.SeedUser(t, gdb, "alice")

	require.NoError(t, gdb.Exec(
		`INSERT INTO task_lists (uuid, name, user_id) VALUES (?, ?, ?)`,
		"00000000-0000-0000-0000-0000000000aa", "Home", u.ID,
	).Error)

	err := gdb.Exec(
		`INSERT INTO tasks (uuid, name, description, status, task_list_uuid, user_id) VALUES (?, ?, ?, ?, ?, ?)`,
		"00000000-0000-0000-0000-0000000000bb", "x", "y", "DONE", "00000000-0000-0000-0000-0000000000aa", u.ID,
	).Error
	assert.Error(t, err)
}
