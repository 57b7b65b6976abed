package port

import (
	"context"

	"github.com/fhuszti/media-converter-go/internal/model"
)

// FormatValidator resolves a requested format string against the allowed
// output formats of a media kind.
type FormatValidator interface {
	Validate(kind model.MediaKind, raw string) (model.FormatSpec, error)
}

// MediaConverter runs the whole load -> transform -> serialize chain for one
// media kind.
type MediaConverter interface {
	Convert(ctx context.Context, src model.Source, target model.FormatSpec, req model.ConversionRequest) (*model.Artifact, error)
}
