package mock

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/fhuszti/media-converter-go/internal/model"
)

// ArtifactSink keeps artifacts in memory. It is safe for use from scheduled work.
type ArtifactSink struct {
	mu sync.Mutex

	// stored values
	Files map[string][]byte

	// captured inputs
	ContentTypes map[string]string

	// errors
	SaveErr error
	OpenErr error

	// call counters
	SaveCalls int
	OpenCalls int
}

func (m *ArtifactSink) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveErr != nil {
		return "", m.SaveErr
	}
	if m.Files == nil {
		m.Files = map[string][]byte{}
		m.ContentTypes = map[string]string{}
	}
	m.Files[key] = append([]byte(nil), data...)
	m.ContentTypes[key] = contentType
	return "mem/" + key, nil
}

func (m *ArtifactSink) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OpenCalls++
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	data, ok := m.Files[key]
	if !ok {
		return nil, model.NewNotFoundError("artifact " + key + " not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// File returns a stored artifact.
func (m *ArtifactSink) File(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Files[key]
	return data, ok
}
