package task

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fhuszti/media-converter-go/internal/model"
	"github.com/fhuszti/media-converter-go/internal/port"
	"github.com/fhuszti/media-converter-go/internal/uuid"
)

var (
	ErrTaskExists   = errors.New("task already exists")
	ErrTaskTerminal = errors.New("task already finished")
)

// Registry is the in-memory store of conversion tasks. Records are kept as
// values and replaced whole, so a reader never sees a half-applied
// transition. Records are never evicted.
type Registry struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]model.TaskRecord
	now   port.Clock
}

var _ port.TaskRegistry = (*Registry)(nil)

func NewRegistry(now port.Clock) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{tasks: make(map[uuid.UUID]model.TaskRecord), now: now}
}

// Create inserts a processing record.
func (r *Registry) Create(id uuid.UUID) (model.TaskRecord, error) {
	rec := model.TaskRecord{
		ID:        id,
		Status:    model.TaskStatusProcessing,
		CreatedAt: r.now().UTC(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; ok {
		return model.TaskRecord{}, fmt.Errorf("create task %s: %w", id, ErrTaskExists)
	}
	r.tasks[id] = rec
	return rec.Clone(), nil
}

// Complete moves a processing task to completed.
func (r *Registry) Complete(id uuid.UUID, info model.ConversionInfo) (model.TaskRecord, error) {
	return r.finish(id, func(rec *model.TaskRecord) {
		rec.Status = model.TaskStatusCompleted
		rec.Result = &info
	})
}

// Fail moves a processing task to failed.
func (r *Registry) Fail(id uuid.UUID, taskErr model.TaskError) (model.TaskRecord, error) {
	return r.finish(id, func(rec *model.TaskRecord) {
		rec.Status = model.TaskStatusFailed
		rec.Error = &taskErr
	})
}

func (r *Registry) finish(id uuid.UUID, apply func(*model.TaskRecord)) (model.TaskRecord, error) {
	completedAt := r.now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.tasks[id]
	if !ok {
		return model.TaskRecord{}, model.NewNotFoundError(fmt.Sprintf("task %s not found", id))
	}
	if cur.Status.IsTerminal() {
		return cur.Clone(), fmt.Errorf("task %s is %s: %w", id, cur.Status, ErrTaskTerminal)
	}

	next := cur.Clone()
	apply(&next)
	next.CompletedAt = &completedAt
	r.tasks[id] = next
	return next.Clone(), nil
}

// Get returns a snapshot of the task.
func (r *Registry) Get(id uuid.UUID) (model.TaskRecord, error) {
	r.mu.RLock()
	rec, ok := r.tasks[id]
	r.mu.RUnlock()
	if !ok {
		return model.TaskRecord{}, model.NewNotFoundError(fmt.Sprintf("task %s not found", id))
	}
	return rec.Clone(), nil
}

// Len reports the number of tracked tasks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}
