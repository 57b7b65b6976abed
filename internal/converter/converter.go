package converter

import (
	"context"

	"github.com/fhuszti/media-converter-go/internal/logger"
	"github.com/fhuszti/media-converter-go/internal/model"
	"github.com/fhuszti/media-converter-go/internal/port"
)

const fallbackName = "converted"

type ImageConverter struct {
	pipeline *Pipeline
}

// compile-time check: *ImageConverter must satisfy port.MediaConverter
var _ port.MediaConverter = (*ImageConverter)(nil)

func NewImageConverter(p *Pipeline) *ImageConverter {
	return &ImageConverter{pipeline: p}
}

// Convert runs resize, crop, format change and serialization in that order.
// The first failing stage aborts the chain.
func (c *ImageConverter) Convert(ctx context.Context, src model.Source, target model.FormatSpec, req model.ConversionRequest) (*model.Artifact, error) {
	doc, err := c.pipeline.Load(src)
	if err != nil {
		return nil, err
	}
	logger.Debugf(ctx, "decoded %s image %q (%dx%d)", doc.Format(), doc.Name(), doc.Width(), doc.Height())

	if req.Resize != nil {
		if _, err := c.pipeline.Resize(doc, req.Resize.Width, req.Resize.Height); err != nil {
			return nil, err
		}
	}
	if req.Crop != nil {
		if _, err := c.pipeline.Crop(doc, req.Crop.Width, req.Crop.Height); err != nil {
			return nil, err
		}
	}
	if _, err := c.pipeline.ChangeFormat(doc, target); err != nil {
		return nil, err
	}

	data, err := c.pipeline.Serialize(doc)
	if err != nil {
		return nil, err
	}

	name := doc.Name()
	if name == "" {
		name = fallbackName
	}
	return &model.Artifact{
		Name:   name,
		Format: doc.Format(),
		Width:  doc.Width(),
		Height: doc.Height(),
		Data:   data,
	}, nil
}

// AudioConverter reserves the audio pipeline. Formats are validated upstream
// but no transform is available yet.
type AudioConverter struct{}

var _ port.MediaConverter = (*AudioConverter)(nil)

func NewAudioConverter() *AudioConverter {
	return &AudioConverter{}
}

func (AudioConverter) Convert(_ context.Context, _ model.Source, target model.FormatSpec, _ model.ConversionRequest) (*model.Artifact, error) {
	return nil, model.NewNotImplementedError("audio conversion to " + target.String() + " is not implemented")
}
