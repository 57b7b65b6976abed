package mock

import (
	"context"
	"sync"
)

// Scheduler captures scheduled work so tests decide when it runs.
type Scheduler struct {
	mu sync.Mutex

	// captured inputs
	Names   []string
	pending []func(ctx context.Context)

	// errors
	ScheduleErr error

	// call flags
	ShutdownCalled bool
}

func (m *Scheduler) Schedule(name string, fn func(ctx context.Context)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ScheduleErr != nil {
		return m.ScheduleErr
	}
	m.Names = append(m.Names, name)
	m.pending = append(m.pending, fn)
	return nil
}

func (m *Scheduler) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.ShutdownCalled = true
	m.mu.Unlock()
	m.RunAll()
	return nil
}

// RunAll runs the pending work in the calling goroutine, in scheduling order.
func (m *Scheduler) RunAll() {
	m.mu.Lock()
	work := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, fn := range work {
		fn(context.Background())
	}
}

// Pending reports how much work is waiting.
func (m *Scheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
