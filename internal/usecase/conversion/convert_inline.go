package conversion

import (
	"context"

	"github.com/fhuszti/media-converter-go/internal/logger"
	"github.com/fhuszti/media-converter-go/internal/model"
)

// ConvertInline runs the pipeline in the caller's goroutine. Any failure is
// returned as a *model.ConversionError wrapping the first error.
func (s *Service) ConvertInline(ctx context.Context, src model.Source, req model.ConversionRequest) (*model.Artifact, error) {
	defer s.release(ctx, src)

	res, err := s.resolve(req)
	if err != nil {
		return nil, &model.ConversionError{Err: err}
	}

	startedAt := s.now()
	art, err := res.conv.Convert(ctx, src, res.target, res.req)
	if err != nil {
		logger.Warnf(ctx, "⚠️ inline conversion of %q to %s failed: %v", src.Name(), res.target, err)
		s.record(ctx, s.newID(), modeInline, res, src.Name(), startedAt, nil, err)
		return nil, &model.ConversionError{Err: err}
	}

	logger.Infof(ctx, "✅  converted %q to %s inline (%dx%d, %d bytes)", art.Name, art.Format, art.Width, art.Height, len(art.Data))
	s.record(ctx, s.newID(), modeInline, res, art.Name, startedAt, &model.ConversionInfo{
		Name:      art.Name,
		Format:    art.Format,
		Width:     art.Width,
		Height:    art.Height,
		SizeBytes: int64(len(art.Data)),
	}, nil)
	return art, nil
}

func (s *Service) release(ctx context.Context, src model.Source) {
	if err := src.Release(); err != nil {
		logger.Warnf(ctx, "⚠️ failed to remove temporary upload %q: %v", src.Path(), err)
	}
}
