// Package tasks holds the in-memory task collection of one app session,
// kept in sync with the remote task service.
package tasks

import (
	"context"
	"log/slog"
	"sync"

	"taskmate/internal/logging"
	"taskmate/internal/service"
)

// Progress is the completion figure shown above the task list.
type Progress struct {
	Completed int
	Total     int
}

// Ratio returns Completed/Total, or 0 for an empty list.
func (p Progress) Ratio() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total)
}

// Store is the task collection. Local state only ever holds records the
// server returned; there is no optimistic insertion.
type Store struct {
	svc service.Service
	log *slog.Logger

	mu     sync.RWMutex
	tasks  []service.Task
	loaded bool
}

// NewStore creates an empty store backed by svc.
func NewStore(svc service.Service, log *slog.Logger) *Store {
	return &Store{
		svc:   svc,
		log:   logging.OrDiscard(log).With("component", "tasks"),
		tasks: []service.Task{},
	}
}

// Activate loads the collection the first time it is called. Later calls are
// no-ops until Clear; a failed load may be retried.
func (s *Store) Activate(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	return s.Refresh(ctx)
}

// Refresh replaces local state with the server's collection.
func (s *Store) Refresh(ctx context.Context) error {
	list, err := s.svc.ListTasks(ctx)
	if err != nil {
		s.log.Warn("load tasks failed", "err", err)
		return err
	}

	s.mu.Lock()
	s.tasks = append([]service.Task{}, list...)
	s.loaded = true
	s.mu.Unlock()

	s.log.Debug("tasks loaded", "count", len(list))
	return nil
}

// Add creates the task remotely and appends the server's record.
func (s *Store) Add(ctx context.Context, task service.NewTask) (service.Task, error) {
	created, err := s.svc.CreateTask(ctx, task)
	if err != nil {
		s.log.Warn("create task failed", "err", err)
		return service.Task{}, err
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, created)
	s.mu.Unlock()
	return created, nil
}

// Update sends the patch and replaces the record with the same id by the
// server's version. A record missing locally is left missing.
func (s *Store) Update(ctx context.Context, id string, patch service.TaskPatch) (service.Task, error) {
	updated, err := s.svc.UpdateTask(ctx, id, patch)
	if err != nil {
		s.log.Warn("update task failed", "id", id, "err", err)
		return service.Task{}, err
	}

	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i] = updated
			break
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// Delete removes the task remotely, then locally.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.svc.DeleteTask(ctx, id); err != nil {
		s.log.Warn("delete task failed", "id", id, "err", err)
		return err
	}

	s.mu.Lock()
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	s.mu.Unlock()
	return nil
}

// Clear empties local state without touching the server.
func (s *Store) Clear() {
	s.mu.Lock()
	s.tasks = []service.Task{}
	s.loaded = false
	s.mu.Unlock()
}

// Tasks returns a copy of the collection in server order.
func (s *Store) Tasks() []service.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]service.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns the task with id.
func (s *Store) Get(id string) (service.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Loaded reports whether the collection has been fetched since the last Clear.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Progress counts completed tasks.
func (s *Store) Progress() Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := Progress{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Completed {
			p.Completed++
		}
	}
	return p
}
