package task

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/fhuszti/media-converter-go/internal/logger"
	"github.com/fhuszti/media-converter-go/internal/port"
)

// ErrPoolClosed is returned by Schedule once Shutdown has started.
var ErrPoolClosed = errors.New("worker pool is shut down")

// Pool runs scheduled work on at most `size` goroutines at once. Schedule
// never blocks: queued work waits for a free slot in its own goroutine.
type Pool struct {
	sem chan struct{}
	wg  sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// compile-time check: *Pool must satisfy port.Scheduler
var _ port.Scheduler = (*Pool)(nil)

func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{sem: make(chan struct{}, size)}
}

// Schedule queues fn. The context handed to fn is detached from any request:
// scheduled work is never cancelled.
func (p *Pool) Schedule(name string, fn func(ctx context.Context)) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return fmt.Errorf("schedule %s: %w", name, ErrPoolClosed)
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()

		p.sem <- struct{}{}
		defer func() { <-p.sem }()

		ctx := context.Background()
		defer func() {
			if r := recover(); r != nil {
				logger.Error(ctx, "❌  panic in scheduled work", "name", name, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			}
		}()
		fn(ctx)
	}()
	return nil
}

// Shutdown rejects new work and waits for queued and in-flight work to
// finish, or for ctx to end.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for scheduled work: %w", ctx.Err())
	}
}
