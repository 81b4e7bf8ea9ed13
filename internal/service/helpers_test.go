package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/MrOportus/Tasklist/internal/model"
	"github.com/MrOportus/Tasklist/internal/repository"
)

// newTestServices opens a fresh file-backed store under t.TempDir and
// returns the service stack on top of it.
func newTestServices(t *testing.T) (*AuthService, *TaskService) {
	t.Helper()

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	auth := NewAuthService(repository.NewUserRepository(db), "test-secret", nil)
	tasks := NewTaskService(repository.NewTaskRepository(db))
	return auth, tasks
}

// newTestUser registers an account and returns its ID.
func newTestUser(t *testing.T, auth *AuthService, email string) string {
	t.Helper()

	sess, err := auth.Register(context.Background(), email, "password")
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return sess.User.ID
}

func mustCreate(t *testing.T, tasks *TaskService, userID, text, typ string) *model.Task {
	t.Helper()

	task, err := tasks.Create(context.Background(), userID, text, typ, "08:00")
	if err != nil {
		t.Fatalf("create %q: %v", text, err)
	}
	return task
}

func assertErrIs(t *testing.T, err, want error) {
	t.Helper()

	if !errors.Is(err, want) {
		t.Fatalf("got error %v, want %v", err, want)
	}
}

func assertNoErr(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// taskIDs extracts the IDs of a snapshot, preserving order.
func taskIDs(tasks []model.Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	return ids
}
