package converter

import (
	"image"

	"github.com/fhuszti/media-converter-go/internal/model"
)

// Document is one loaded image during its processing lifetime. Its content is
// owned exclusively and replaced as a whole by every transform.
type Document struct {
	name    string
	format  model.FormatSpec
	width   int
	height  int
	content image.Image
}

func (d *Document) Name() string { return d.name }

func (d *Document) Format() model.FormatSpec { return d.format }

func (d *Document) Width() int { return d.width }

func (d *Document) Height() int { return d.height }

// Content exposes the current pixel buffer. Callers must not modify it.
func (d *Document) Content() image.Image { return d.content }

// replace swaps the buffer and dimensions together, once the new buffer is complete.
func (d *Document) replace(content image.Image, width, height int) {
	d.content = content
	d.width = width
	d.height = height
}
