package cache

import (
	"context"
	"time"

	"github.com/fhuszti/media-converter-go/internal/port"
	"github.com/fhuszti/media-converter-go/internal/uuid"
)

type NoopCache struct{}

// compile-time check: *NoopCache must satisfy port.Cache
var _ port.Cache = (*NoopCache)(nil)

func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) GetTaskStatus(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return nil, nil // always cache miss
}

func (n *NoopCache) GetEtagTaskStatus(ctx context.Context, id uuid.UUID) (string, error) {
	return "", nil
}

func (n *NoopCache) SetTaskStatus(ctx context.Context, id uuid.UUID, data []byte, validUntil time.Time) {
}

func (n *NoopCache) SetEtagTaskStatus(ctx context.Context, id uuid.UUID, etag string, validUntil time.Time) {
}

