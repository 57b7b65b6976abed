package port

import (
	"context"

	"github.com/fhuszti/media-converter-go/internal/uuid"
)

// HTTPRenderer mediates between HTTP handlers and the status poller. It
// returns the JSON representation of a task together with an ETag, serving
// finished tasks from the cache when possible.
type HTTPRenderer interface {
	RenderTaskStatus(ctx context.Context, poller StatusPoller, id uuid.UUID) ([]byte, string, error)
}
