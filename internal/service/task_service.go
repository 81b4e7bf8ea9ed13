package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/MrOportus/Tasklist/internal/model"
	"github.com/MrOportus/Tasklist/internal/repository"
)

// Subscription is a standing query over one (user, type) task set. The
// channel carries the full matching snapshot: once on open and again after
// every mutation to the set. Cancel stops delivery and closes the channel.
type Subscription struct {
	C <-chan []model.Task

	svc    *TaskService
	ch     chan []model.Task
	userID string
	typ    string
}

// Cancel releases the subscription. Safe to call more than once; no
// snapshot is delivered after Cancel returns.
func (s *Subscription) Cancel() {
	s.svc.unsubscribe(s)
}

// TaskService mediates all task reads and writes for an identity and fans
// mutations back out to live subscriptions.
type TaskService struct {
	taskRepo *repository.TaskRepository

	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

func NewTaskService(taskRepo *repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		subs:     make(map[*Subscription]struct{}),
	}
}

// Create validates and inserts a task. Text is trimmed and must be
// non-empty; userID must belong to an active identity. Daily tasks record
// the reset time in effect at creation, monthly tasks carry none.
func (s *TaskService) Create(ctx context.Context, userID, text, typ, resetTime string) (*model.Task, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyTaskText
	}
	if !model.ValidType(typ) {
		return nil, ErrInvalidTaskType
	}

	task := model.Task{
		UserID:    userID,
		Type:      typ,
		Text:      text,
		Completed: false,
		CreatedAt: time.Now(),
	}
	if typ == model.TypeDaily {
		if _, _, err := ParseResetTime(resetTime); err != nil {
			return nil, err
		}
		task.ResetTime = &resetTime
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}

	s.publish(ctx, userID, typ)
	return &task, nil
}

// SetCompleted sets the completion flag. Setting the current value again
// is a no-op success.
func (s *TaskService) SetCompleted(ctx context.Context, userID, taskID string, completed bool) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	task, err := s.taskRepo.FindByID(ctx, userID, taskID)
	if err != nil {
		return err
	}
	if err := s.taskRepo.SetCompleted(ctx, userID, taskID, completed); err != nil {
		return err
	}
	s.publish(ctx, userID, task.Type)
	return nil
}

// Delete removes a task. A nonexistent task reports the store's not-found
// error unchanged.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	task, err := s.taskRepo.FindByID(ctx, userID, taskID)
	if err != nil {
		return err
	}
	if err := s.taskRepo.Delete(ctx, userID, taskID); err != nil {
		return err
	}
	s.publish(ctx, userID, task.Type)
	return nil
}

// FetchOnce runs a one-shot query outside any subscription.
func (s *TaskService) FetchOnce(ctx context.Context, userID, typ string) ([]model.Task, error) {
	return s.taskRepo.ListByUserAndType(ctx, userID, typ)
}

// Subscribe opens a standing query scoped to userID and typ. The current
// snapshot is buffered on the channel before Subscribe returns.
func (s *TaskService) Subscribe(ctx context.Context, userID, typ string) (*Subscription, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if !model.ValidType(typ) {
		return nil, ErrInvalidTaskType
	}

	snapshot, err := s.taskRepo.ListByUserAndType(ctx, userID, typ)
	if err != nil {
		return nil, err
	}

	ch := make(chan []model.Task, 1)
	sub := &Subscription{C: ch, svc: s, ch: ch, userID: userID, typ: typ}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	ch <- snapshot
	s.mu.Unlock()

	return sub, nil
}

func (s *TaskService) unsubscribe(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[sub]; !ok {
		return
	}
	delete(s.subs, sub)
	close(sub.ch)
}

// publish requeries the (userID, typ) set and hands the snapshot to every
// matching subscription. Delivery is latest-wins: an unread older snapshot
// is replaced rather than queued.
func (s *TaskService) publish(ctx context.Context, userID, typ string) {
	snapshot, err := s.taskRepo.ListByUserAndType(ctx, userID, typ)
	if err != nil {
		log.Printf("subscription requery: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.subs {
		if sub.userID != userID || sub.typ != typ {
			continue
		}
		select {
		case sub.ch <- snapshot:
		default:
			select {
			case <-sub.ch:
			default:
			}
			sub.ch <- snapshot
		}
	}
}
