package port

import (
	"context"
	"time"

	"github.com/fhuszti/media-converter-go/internal/model"
	"github.com/fhuszti/media-converter-go/internal/uuid"
)

type UUIDGen func() uuid.UUID

type Clock func() time.Time

// TaskRegistry tracks the lifecycle of asynchronous conversions.
type TaskRegistry interface {
	Create(id uuid.UUID) (model.TaskRecord, error)
	Complete(id uuid.UUID, info model.ConversionInfo) (model.TaskRecord, error)
	Fail(id uuid.UUID, taskErr model.TaskError) (model.TaskRecord, error)
	Get(id uuid.UUID) (model.TaskRecord, error)
	Len() int
}

// Scheduler runs work off the request path.
type Scheduler interface {
	Schedule(name string, fn func(ctx context.Context)) error
	Shutdown(ctx context.Context) error
}
