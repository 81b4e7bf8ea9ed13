package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/MrOportus/Tasklist/internal/model"
)

func newTestRepo(t *testing.T) *TaskRepository {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return NewTaskRepository(db)
}

func seedTask(t *testing.T, repo *TaskRepository, userID, text, typ string, createdAt time.Time) model.Task {
	t.Helper()

	task := model.Task{UserID: userID, Type: typ, Text: text, CreatedAt: createdAt}
	if err := repo.Create(context.Background(), &task); err != nil {
		t.Fatalf("seed %q: %v", text, err)
	}
	return task
}

func TestCreateAssignsID(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	task := seedTask(t, repo, "u1", "Water plants", model.TypeDaily, time.Now())
	if task.ID == "" {
		t.Fatal("no id assigned on create")
	}
}

func TestListScopedByUserAndType(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	base := time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)

	older := seedTask(t, repo, "u1", "Water plants", model.TypeDaily, base)
	newer := seedTask(t, repo, "u1", "Feed cat", model.TypeDaily, base.Add(time.Minute))
	seedTask(t, repo, "u1", "Pay rent", model.TypeMonthly, base)
	seedTask(t, repo, "u2", "Someone else's", model.TypeDaily, base)

	got, err := repo.ListByUserAndType(context.Background(), "u1", model.TypeDaily)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d tasks, want 2", len(got))
	}
	// Oldest first.
	if got[0].ID != older.ID || got[1].ID != newer.ID {
		t.Errorf("order = [%s %s], want [%s %s]", got[0].Text, got[1].Text, older.Text, newer.Text)
	}
}

func TestSetCompletedUnknownTask(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	err := repo.SetCompleted(context.Background(), "u1", "no-such-id", true)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("got %v, want record not found", err)
	}
}

func TestDeleteScopedByUser(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	task := seedTask(t, repo, "u1", "Water plants", model.TypeDaily, time.Now())

	// Another user cannot delete it.
	err := repo.Delete(context.Background(), "u2", task.ID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("cross-user delete: got %v, want record not found", err)
	}

	if err := repo.Delete(context.Background(), "u1", task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := repo.ListByUserAndType(context.Background(), "u1", model.TypeDaily)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("task still listed after delete")
	}
}
