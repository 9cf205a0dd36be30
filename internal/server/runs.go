package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jgarber/feedback-radar/internal/pipeline"
)

// RunStatus is the lifecycle state of an analysis run.
type RunStatus string

const (
	// StatusRunning means the run's pipeline is still executing
	StatusRunning RunStatus = "running"
	// StatusCompleted means the run finished and its result is available
	StatusCompleted RunStatus = "completed"
	// StatusFailed means the run's pipeline returned an error
	StatusFailed RunStatus = "failed"
)

// Run is one analysis run tracked by the server. Results live in memory
// for the lifetime of the process; durable storage is out of scope.
type Run struct {
	ID          string           `json:"id"`
	Product     string           `json:"product"`
	Status      RunStatus        `json:"status"`
	Error       string           `json:"error,omitempty"`
	Result      *pipeline.Result `json:"result,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// runStore is a mutex-guarded in-memory run registry. Accessors return
// copies taken under the lock: the background run goroutine mutates the
// stored Run via complete/fail, so the shared struct must never escape to
// code that reads it unlocked (JSON encoding in handlers).
type runStore struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

func newRunStore() *runStore {
	return &runStore{runs: make(map[string]*Run)}
}

func (s *runStore) create(product string) Run {
	run := &Run{
		ID:        uuid.NewString(),
		Product:   product,
		Status:    StatusRunning,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.runs[run.ID] = run
	s.mu.Unlock()
	return *run
}

func (s *runStore) complete(id string, result *pipeline.Result) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if run, ok := s.runs[id]; ok {
		run.Status = StatusCompleted
		run.Result = result
		run.CompletedAt = &now
	}
}

func (s *runStore) fail(id string, err error) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if run, ok := s.runs[id]; ok {
		run.Status = StatusFailed
		run.Error = err.Error()
		run.CompletedAt = &now
	}
}

func (s *runStore) get(id string) (Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return Run{}, false
	}
	return *run, true
}

func (s *runStore) list() []Run {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Run, 0, len(s.runs))
	for _, run := range s.runs {
		out = append(out, *run)
	}
	return out
}
