package port

import (
	"context"
	"time"

	"github.com/fhuszti/media-converter-go/internal/uuid"
)

// Cache keeps rendered task statuses close to the API.
type Cache interface {
	GetTaskStatus(ctx context.Context, id uuid.UUID) ([]byte, error)
	GetEtagTaskStatus(ctx context.Context, id uuid.UUID) (string, error)
	SetTaskStatus(ctx context.Context, id uuid.UUID, data []byte, validUntil time.Time)
	SetEtagTaskStatus(ctx context.Context, id uuid.UUID, etag string, validUntil time.Time)
}
