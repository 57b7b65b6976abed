package mock

import (
	"context"

	"github.com/fhuszti/media-converter-go/internal/port"
	"github.com/fhuszti/media-converter-go/internal/uuid"
)

// HTTPRenderer implements port.HTTPRenderer for tests.
type HTTPRenderer struct {
	// stored values
	StatusOut []byte

	// etag values
	EtagStatus string

	// captured inputs
	GotTaskID uuid.UUID
	GotPoller port.StatusPoller

	// errors
	RenderErr error

	// call flags
	RenderCalled bool
}

func (m *HTTPRenderer) RenderTaskStatus(ctx context.Context, poller port.StatusPoller, id uuid.UUID) ([]byte, string, error) {
	m.RenderCalled = true
	m.GotTaskID = id
	m.GotPoller = poller
	return m.StatusOut, m.EtagStatus, m.RenderErr
}
