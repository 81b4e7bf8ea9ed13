package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/MrOportus/Tasklist/internal/model"
)

// checkInterval is how often the wall clock is compared against the
// configured reset time while a session is active.
const checkInterval = 60 * time.Second

// ParseResetTime validates an HH:MM 24-hour time string.
func ParseResetTime(timeStr string) (hour, minute int, err error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidResetTime, timeStr)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: bad hour in %q", ErrInvalidResetTime, timeStr)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: bad minute in %q", ErrInvalidResetTime, timeStr)
	}
	return hour, minute, nil
}

// ResetService clears the completion flag of a user's daily tasks when the
// wall clock reaches the configured reset time. It samples the clock once
// per minute and is inert while no session is active.
type ResetService struct {
	tasks *TaskService
	now   func() time.Time
	// resetTime returns the currently configured HH:MM string, so a
	// preference change takes effect without restarting the scheduler.
	resetTime func() string

	mu     sync.Mutex
	cron   *cron.Cron
	userID string
}

func NewResetService(tasks *TaskService, resetTime func() string, loc *time.Location) *ResetService {
	return &ResetService{
		tasks:     tasks,
		now:       func() time.Time { return time.Now().In(loc) },
		resetTime: resetTime,
	}
}

// Start begins the once-a-minute check for the given identity. A running
// scheduler for a previous identity is stopped first.
func (s *ResetService) Start(userID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}

	s.Stop()

	c := cron.New(cron.WithSeconds())
	spec := fmt.Sprintf("@every %ds", int(checkInterval.Seconds()))
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.CheckReset(ctx, s.now())
	}); err != nil {
		return fmt.Errorf("schedule reset check: %w", err)
	}

	s.mu.Lock()
	s.cron = c
	s.userID = userID
	s.mu.Unlock()

	c.Start()
	return nil
}

// Stop tears the timer down and waits for an in-flight check to finish.
// Safe to call when nothing is running.
func (s *ResetService) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.userID = ""
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

// CheckReset performs one sampled tick: when now's hour and minute equal
// the configured reset time, every daily task of the active identity has
// its completion flag cleared. Each update is independent; failures are
// logged and skipped with no retry and no rollback. Re-running within the
// same minute is harmless since clearing an already-clear flag is a no-op.
func (s *ResetService) CheckReset(ctx context.Context, now time.Time) {
	s.mu.Lock()
	userID := s.userID
	s.mu.Unlock()
	if userID == "" {
		return
	}

	hour, minute, err := ParseResetTime(s.resetTime())
	if err != nil {
		log.Printf("reset: %v", err)
		return
	}
	if now.Hour() != hour || now.Minute() != minute {
		return
	}

	tasks, err := s.tasks.FetchOnce(ctx, userID, model.TypeDaily)
	if err != nil {
		log.Printf("reset: fetch daily tasks: %v", err)
		return
	}

	for _, task := range tasks {
		if !task.Completed {
			continue
		}
		if err := s.tasks.SetCompleted(ctx, userID, task.ID, false); err != nil {
			log.Printf("reset: task %s: %v", task.ID, err)
		}
	}
}
