package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/luna/taskmanager/internal/models"
	"github.com/luna/taskmanager/internal/testutil"
)

func newRepo(t *testing.T) (*GormRepo, *models.User, *models.User) {
	t.Helper()
	gdb := testutil.NewDB(t)
	alice := testutil.SeedUser(t, gdb, "alice")
	bob := testutil.SeedUser(t, gdb, "bob")
	return New(gdb), alice, bob
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.False(t, isUniqueViolation(nil))
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("disk full")))
}

func TestUsers(t *testing.T) {
	r, alice, _ := newRepo(t)
	ctx := context.Background()

	u, err := r.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, alice.ID, u.ID)

	u, err = r.FindUserByUsername(ctx, "Alice")
	require.NoError(t, err)
	assert.Nil(t, u)

	taken, err := r.UsernameTaken(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = r.EmailTaken(ctx, "carol@example.com")
	require.NoError(t, err)
	assert.False(t, taken)

	err = r.CreateUser(ctx, &models.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := r.GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}

func TestTaskLists_OwnerScoped(t *testing.T) {
	r, alice, bob := newRepo(t)
	ctx := context.Background()

	tl := &models.TaskList{Name: "Groceries", UserID: alice.ID}
	require.NoError(t, r.CreateTaskList(ctx, tl))
	require.NotEqual(t, uuid.Nil, tl.UUID)

	got, err := r.GetTaskList(ctx, alice.ID, tl.UUID)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Name)

	_, err = r.GetTaskList(ctx, bob.ID, tl.UUID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = r.UpdateTaskListDescription(ctx, bob.ID, tl.UUID, "stolen")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = r.SoftDeleteTaskList(ctx, bob.ID, tl.UUID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	updated, err := r.UpdateTaskListDescription(ctx, alice.ID, tl.UUID, "weekly")
	require.NoError(t, err)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "weekly", *updated.Description)
	assert.Equal(t, alice.ID, updated.UserID)

	total, items, err := r.ListTaskLists(ctx, bob.ID, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestTaskLists_UniqueAmongActive(t *testing.T) {
	r, alice, bob := newRepo(t)
	ctx := context.Background()

	first := &models.TaskList{Name: "Groceries", UserID: alice.ID}
	require.NoError(t, r.CreateTaskList(ctx, first))

	err := r.CreateTaskList(ctx, &models.TaskList{Name: "Groceries", UserID: alice.ID})
	assert.ErrorIs(t, err, ErrDuplicate)

	require.NoError(t, r.CreateTaskList(ctx, &models.TaskList{Name: "Groceries", UserID: bob.ID}))

	_, err = r.SoftDeleteTaskList(ctx, alice.ID, first.UUID)
	require.NoError(t, err)

	exists, err := r.ActiveTaskListNameExists(ctx, alice.ID, "Groceries")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, r.CreateTaskList(ctx, &models.TaskList{Name: "Groceries", UserID: alice.ID}))

	_, err = r.GetTaskList(ctx, alice.ID, first.UUID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListTaskLists_Paginates(t *testing.T) {
	r, alice, _ := newRepo(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, r.CreateTaskList(ctx, &models.TaskList{Name: name, UserID: alice.ID}))
	}

	total, items, err := r.ListTaskLists(ctx, alice.ID, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 2)

	total, items, err = r.ListTaskLists(ctx, alice.ID, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 1)
}

func TestTasks_Lifecycle(t *testing.T) {
	r, alice, bob := newRepo(t)
	ctx := context.Background()

	tl := &models.TaskList{Name: "Home", UserID: alice.ID}
	require.NoError(t, r.CreateTaskList(ctx, tl))

	task := &models.Task{Name: "Vacuum", Description: "living room", TaskListUUID: tl.UUID, UserID: alice.ID}
	require.NoError(t, r.CreateTask(ctx, task))
	assert.Equal(t, models.StatusPending, task.Status)

	foreign := &models.Task{Name: "Sneak", Description: "x", TaskListUUID: tl.UUID, UserID: bob.ID}
	assert.ErrorIs(t, r.CreateTask(ctx, foreign), gorm.ErrRecordNotFound)

	_, err := r.GetTask(ctx, bob.ID, task.UUID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	status := models.StatusInProgress
	updated, err := r.UpdateTask(ctx, alice.ID, task.UUID, TaskPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, updated.Status)
	assert.Equal(t, "living room", updated.Description)

	_, err = r.UpdateTask(ctx, bob.ID, task.UUID, TaskPatch{Status: &status})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	items, err := r.ListTasks(ctx, alice.ID, tl.UUID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = r.ListTasks(ctx, bob.ID, tl.UUID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, r.SoftDeleteTask(ctx, bob.ID, task.UUID), gorm.ErrRecordNotFound)
	require.NoError(t, r.SoftDeleteTask(ctx, alice.ID, task.UUID))
	assert.ErrorIs(t, r.SoftDeleteTask(ctx, alice.ID, task.UUID), gorm.ErrRecordNotFound)

	items, err = r.ListTasks(ctx, alice.ID, tl.UUID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestActiveTasks(t *testing.T) {
	r, alice, bob := newRepo(t)
	ctx := context.Background()

	tl := &models.TaskList{Name: "Home", UserID: alice.ID}
	require.NoError(t, r.CreateTaskList(ctx, tl))
	kept := &models.Task{Name: "Vacuum", Description: "", TaskListUUID: tl.UUID, UserID: alice.ID}
	gone := &models.Task{Name: "Dust", Description: "", TaskListUUID: tl.UUID, UserID: alice.ID}
	require.NoError(t, r.CreateTask(ctx, kept))
	require.NoError(t, r.CreateTask(ctx, gone))
	require.NoError(t, r.SoftDeleteTask(ctx, alice.ID, gone.UUID))

	ids := []uuid.UUID{kept.UUID, gone.UUID, uuid.New()}

	items, err := r.ActiveTasks(ctx, alice.ID, ids)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, kept.UUID, items[0].UUID)

	items, err = r.ActiveTasks(ctx, bob.ID, ids)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = r.ActiveTasks(ctx, alice.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSoftDeleteTaskList_CascadesToTasks(t *testing.T) {
	r, alice, _ := newRepo(t)
	ctx := context.Background()

	tl := &models.TaskList{Name: "Trip", UserID: alice.ID}
	require.NoError(t, r.CreateTaskList(ctx, tl))

	a := &models.Task{Name: "Pack", Description: "bags", TaskListUUID: tl.UUID, UserID: alice.ID}
	b := &models.Task{Name: "Book", Description: "hotel", TaskListUUID: tl.UUID, UserID: alice.ID}
	require.NoError(t, r.CreateTask(ctx, a))
	require.NoError(t, r.CreateTask(ctx, b))

	ids, err := r.SoftDeleteTaskList(ctx, alice.ID, tl.UUID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{a.UUID, b.UUID}, ids)

	_, err = r.GetTask(ctx, alice.ID, a.UUID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
