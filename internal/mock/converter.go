package mock

import (
	"context"
	"io"

	"github.com/fhuszti/media-converter-go/internal/model"
)

// MediaConverter implements port.MediaConverter for tests.
type MediaConverter struct {
	// stored values
	Out *model.Artifact

	// captured inputs
	GotTarget  model.FormatSpec
	GotRequest model.ConversionRequest
	GotContent []byte

	// errors
	Err error

	// PanicWith makes Convert panic when non-nil.
	PanicWith any

	// call flags
	Called bool
}

func (m *MediaConverter) Convert(ctx context.Context, src model.Source, target model.FormatSpec, req model.ConversionRequest) (*model.Artifact, error) {
	m.Called = true
	m.GotTarget = target
	m.GotRequest = req
	if rc, err := src.Open(); err == nil {
		m.GotContent, _ = io.ReadAll(rc)
		_ = rc.Close()
	}
	if m.PanicWith != nil {
		panic(m.PanicWith)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	out := *m.Out
	if out.Name == "" {
		out.Name = src.Name()
	}
	return &out, nil
}
