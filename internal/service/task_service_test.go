package service

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/MrOportus/Tasklist/internal/model"
)

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		userID    string
		text      string
		typ       string
		resetTime string
		wantErr   error
	}{
		{
			name:    "no active identity",
			userID:  "",
			text:    "Water plants",
			typ:     model.TypeDaily,
			wantErr: ErrNotAuthenticated,
		},
		{
			name:    "empty text",
			userID:  "u1",
			text:    "",
			typ:     model.TypeDaily,
			wantErr: ErrEmptyTaskText,
		},
		{
			name:    "whitespace-only text",
			userID:  "u1",
			text:    "   \t  ",
			typ:     model.TypeMonthly,
			wantErr: ErrEmptyTaskText,
		},
		{
			name:    "unknown type",
			userID:  "u1",
			text:    "Water plants",
			typ:     "weekly",
			wantErr: ErrInvalidTaskType,
		},
		{
			name:      "bad reset time on daily",
			userID:    "u1",
			text:      "Water plants",
			typ:       model.TypeDaily,
			resetTime: "8 o'clock",
			wantErr:   ErrInvalidResetTime,
		},
	}

	_, tasks := newTestServices(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := tasks.Create(context.Background(), tt.userID, tt.text, tt.typ, tt.resetTime)
			assertErrIs(t, err, tt.wantErr)
			if task != nil {
				t.Fatalf("expected no task, got %+v", task)
			}
		})
	}
}

func TestCreatePopulatesTask(t *testing.T) {
	t.Parallel()

	auth, tasks := newTestServices(t)
	userID := newTestUser(t, auth, "a@example.com")

	daily, err := tasks.Create(context.Background(), userID, "  Water plants  ", model.TypeDaily, "12:00")
	assertNoErr(t, err)

	if daily.ID == "" {
		t.Error("daily task has no store-assigned id")
	}
	if daily.Text != "Water plants" {
		t.Errorf("text = %q, want trimmed %q", daily.Text, "Water plants")
	}
	if daily.Completed {
		t.Error("new task should not be completed")
	}
	if daily.Type != model.TypeDaily {
		t.Errorf("type = %q, want %q", daily.Type, model.TypeDaily)
	}
	if daily.ResetTime == nil || *daily.ResetTime != "12:00" {
		t.Errorf("reset time = %v, want 12:00", daily.ResetTime)
	}
	if daily.CreatedAt.IsZero() {
		t.Error("created-at not set")
	}

	monthly, err := tasks.Create(context.Background(), userID, "Pay rent", model.TypeMonthly, "")
	assertNoErr(t, err)
	if monthly.ResetTime != nil {
		t.Errorf("monthly task has reset time %q", *monthly.ResetTime)
	}
}

func TestSetCompletedIdempotent(t *testing.T) {
	t.Parallel()

	auth, tasks := newTestServices(t)
	userID := newTestUser(t, auth, "a@example.com")
	task := mustCreate(t, tasks, userID, "Water plants", model.TypeDaily)

	ctx := context.Background()
	assertNoErr(t, tasks.SetCompleted(ctx, userID, task.ID, true))
	assertNoErr(t, tasks.SetCompleted(ctx, userID, task.ID, true))

	got, err := tasks.FetchOnce(ctx, userID, model.TypeDaily)
	assertNoErr(t, err)
	if len(got) != 1 || !got[0].Completed {
		t.Fatalf("after double set-completed: %+v", got)
	}
}

func TestDeleteRemovesTask(t *testing.T) {
	t.Parallel()

	auth, tasks := newTestServices(t)
	userID := newTestUser(t, auth, "a@example.com")
	task := mustCreate(t, tasks, userID, "Pay rent", model.TypeMonthly)

	ctx := context.Background()
	assertNoErr(t, tasks.Delete(ctx, userID, task.ID))

	got, err := tasks.FetchOnce(ctx, userID, model.TypeMonthly)
	assertNoErr(t, err)
	if len(got) != 0 {
		t.Fatalf("task still present after delete: %+v", got)
	}

	// Deleting a nonexistent task propagates the store's not-found error.
	assertErrIs(t, tasks.Delete(ctx, userID, task.ID), gorm.ErrRecordNotFound)
}

func TestSubscriptionDeliversSnapshots(t *testing.T) {
	t.Parallel()

	auth, tasks := newTestServices(t)
	userID := newTestUser(t, auth, "a@example.com")

	ctx := context.Background()
	sub, err := tasks.Subscribe(ctx, userID, model.TypeDaily)
	assertNoErr(t, err)
	defer sub.Cancel()

	// Snapshot of the current (empty) set arrives on open.
	if got := <-sub.C; len(got) != 0 {
		t.Fatalf("initial snapshot = %+v, want empty", got)
	}

	task := mustCreate(t, tasks, userID, "Water plants", model.TypeDaily)
	if got := <-sub.C; len(got) != 1 || got[0].ID != task.ID {
		t.Fatalf("snapshot after create = %v", taskIDs(got))
	}

	assertNoErr(t, tasks.SetCompleted(ctx, userID, task.ID, true))
	if got := <-sub.C; len(got) != 1 || !got[0].Completed {
		t.Fatalf("snapshot after toggle = %+v", got)
	}

	assertNoErr(t, tasks.Delete(ctx, userID, task.ID))
	if got := <-sub.C; len(got) != 0 {
		t.Fatalf("snapshot after delete = %v", taskIDs(got))
	}
}

func TestSubscriptionScopedByUserAndType(t *testing.T) {
	t.Parallel()

	auth, tasks := newTestServices(t)
	userA := newTestUser(t, auth, "a@example.com")
	userB := newTestUser(t, auth, "b@example.com")

	ctx := context.Background()
	subB, err := tasks.Subscribe(ctx, userB, model.TypeDaily)
	assertNoErr(t, err)
	defer subB.Cancel()

	subMonthly, err := tasks.Subscribe(ctx, userA, model.TypeMonthly)
	assertNoErr(t, err)
	defer subMonthly.Cancel()

	<-subB.C
	<-subMonthly.C

	mustCreate(t, tasks, userA, "Water plants", model.TypeDaily)

	// A's daily task must reach neither B's subscription nor A's monthly
	// one. Publication happens synchronously with the mutation, so an
	// empty channel here means no delivery happened at all.
	select {
	case got := <-subB.C:
		t.Fatalf("user B received user A's tasks: %v", taskIDs(got))
	default:
	}
	select {
	case got := <-subMonthly.C:
		t.Fatalf("monthly subscription received daily tasks: %v", taskIDs(got))
	default:
	}
}

func TestSubscriptionCancelStopsDelivery(t *testing.T) {
	t.Parallel()

	auth, tasks := newTestServices(t)
	userID := newTestUser(t, auth, "a@example.com")

	ctx := context.Background()
	sub, err := tasks.Subscribe(ctx, userID, model.TypeDaily)
	assertNoErr(t, err)

	<-sub.C
	sub.Cancel()
	sub.Cancel() // cancelling twice is fine

	if _, ok := <-sub.C; ok {
		t.Fatal("channel still open after cancel")
	}

	// Mutations after cancel must not attempt delivery.
	mustCreate(t, tasks, userID, "Water plants", model.TypeDaily)
}

func TestSubscriptionLatestSnapshotWins(t *testing.T) {
	t.Parallel()

	auth, tasks := newTestServices(t)
	userID := newTestUser(t, auth, "a@example.com")

	ctx := context.Background()
	sub, err := tasks.Subscribe(ctx, userID, model.TypeDaily)
	assertNoErr(t, err)
	defer sub.Cancel()

	// Let several mutations pile up before reading: the unread older
	// snapshots are replaced, and a single read sees the final state.
	first := mustCreate(t, tasks, userID, "One", model.TypeDaily)
	mustCreate(t, tasks, userID, "Two", model.TypeDaily)
	assertNoErr(t, tasks.Delete(ctx, userID, first.ID))

	got := <-sub.C
	if len(got) != 1 || got[0].Text != "Two" {
		t.Fatalf("final snapshot = %v", taskIDs(got))
	}
}
