package mock

import (
	"bytes"
	"context"
	"io"

	"github.com/fhuszti/media-converter-go/internal/model"
	"github.com/fhuszti/media-converter-go/internal/uuid"
)

// InlineConverter implements port.InlineConverter for tests.
type InlineConverter struct {
	Out *model.Artifact
	Err error

	Called     bool
	GotSource  model.Source
	GotRequest model.ConversionRequest
	GotContent []byte
}

func (m *InlineConverter) ConvertInline(ctx context.Context, src model.Source, req model.ConversionRequest) (*model.Artifact, error) {
	m.Called = true
	m.GotSource = src
	m.GotRequest = req
	if rc, err := src.Open(); err == nil {
		m.GotContent, _ = io.ReadAll(rc)
		_ = rc.Close()
	}
	return m.Out, m.Err
}

// TaskSubmitter implements port.TaskSubmitter for tests.
type TaskSubmitter struct {
	ID  uuid.UUID
	Err error

	Called     bool
	GotSource  model.Source
	GotRequest model.ConversionRequest
	GotContent []byte
}

func (m *TaskSubmitter) Submit(ctx context.Context, src model.Source, req model.ConversionRequest) (uuid.UUID, error) {
	m.Called = true
	m.GotSource = src
	m.GotRequest = req
	if rc, err := src.Open(); err == nil {
		m.GotContent, _ = io.ReadAll(rc)
		_ = rc.Close()
	}
	return m.ID, m.Err
}

// StatusPoller implements port.StatusPoller for tests.
type StatusPoller struct {
	Out model.TaskRecord
	Err error

	Called bool
	GotID  uuid.UUID
}

func (m *StatusPoller) PollStatus(ctx context.Context, id uuid.UUID) (model.TaskRecord, error) {
	m.Called = true
	m.GotID = id
	return m.Out, m.Err
}

// ArtifactFetcher implements port.ArtifactFetcher for tests.
type ArtifactFetcher struct {
	Data []byte
	Info *model.ConversionInfo
	Err  error

	Called bool
	GotID  uuid.UUID
}

func (m *ArtifactFetcher) OpenArtifact(ctx context.Context, id uuid.UUID) (io.ReadCloser, *model.ConversionInfo, error) {
	m.Called = true
	m.GotID = id
	if m.Err != nil {
		return nil, nil, m.Err
	}
	return io.NopCloser(bytes.NewReader(m.Data)), m.Info, nil
}
