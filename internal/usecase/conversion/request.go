package conversion

import (
	"fmt"

	"github.com/fhuszti/media-converter-go/internal/model"
	"github.com/fhuszti/media-converter-go/internal/port"
)

// resolved is a request whose kind, format and sizes passed validation.
type resolved struct {
	req    model.ConversionRequest
	target model.FormatSpec
	conv   port.MediaConverter
}

// resolve checks everything that can be checked without reading the upload.
func (s *Service) resolve(req model.ConversionRequest) (resolved, error) {
	if req.Kind == "" {
		req.Kind = model.MediaImage
	}
	conv, ok := s.converters[req.Kind]
	if !ok {
		return resolved{}, model.NewValidationError(fmt.Sprintf("unsupported media kind %q", req.Kind))
	}

	target, err := s.formats.Validate(req.Kind, req.Format)
	if err != nil {
		return resolved{}, err
	}

	for name, sz := range map[string]*model.Size{"resize": req.Resize, "crop": req.Crop} {
		if sz != nil && (sz.Width < 0 || sz.Height < 0) {
			return resolved{}, model.NewValidationError(fmt.Sprintf("%s size must be non-negative, got %dx%d", name, sz.Width, sz.Height))
		}
	}

	return resolved{req: req, target: target, conv: conv}, nil
}
