package mock

import (
	"context"
	"time"

	"github.com/fhuszti/media-converter-go/internal/uuid"
)

// Cache implements cache behaviour for tests.
type Cache struct {
	// stored values
	StatusOut []byte

	// etag values
	EtagStatus string

	// errors
	GetStatusErr     error
	GetEtagStatusErr error

	// call flags
	GetStatusCalled     bool
	GetEtagStatusCalled bool
	SetStatusCalled     bool
	SetEtagStatusCalled bool
}

func (c *Cache) GetTaskStatus(ctx context.Context, id uuid.UUID) ([]byte, error) {
	c.GetStatusCalled = true
	if c.GetStatusErr != nil {
		return nil, c.GetStatusErr
	}
	return c.StatusOut, nil
}

func (c *Cache) GetEtagTaskStatus(ctx context.Context, id uuid.UUID) (string, error) {
	c.GetEtagStatusCalled = true
	if c.GetEtagStatusErr != nil {
		return "", c.GetEtagStatusErr
	}
	return c.EtagStatus, nil
}

func (c *Cache) SetTaskStatus(ctx context.Context, id uuid.UUID, data []byte, validUntil time.Time) {
	c.SetStatusCalled = true
	c.StatusOut = data
}

func (c *Cache) SetEtagTaskStatus(ctx context.Context, id uuid.UUID, etag string, validUntil time.Time) {
	c.SetEtagStatusCalled = true
	c.EtagStatus = etag
}
