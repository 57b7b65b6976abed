package converter

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/fhuszti/media-converter-go/internal/model"
	_ "golang.org/x/image/webp"
)

// DefaultMaxPixels bounds the area of decoded and transformed buffers.
const DefaultMaxPixels = 50_000_000

// FormatValidator resolves the intrinsic format of decoded content.
type FormatValidator interface {
	ValidateInput(kind model.MediaKind, raw string) (model.FormatSpec, error)
}

// Pipeline loads, transforms and serialises image documents. It holds no
// per-document state and is safe for concurrent use.
type Pipeline struct {
	formats    FormatValidator
	encoders   map[model.FormatSpec]Encoder
	background color.Color
	maxPixels  int64
}

type Option func(*Pipeline)

// WithBackground sets the fill used for the margins of an oversized crop.
func WithBackground(c color.Color) Option {
	return func(p *Pipeline) { p.background = c }
}

// WithEncoder registers or replaces the encoder of a format.
func WithEncoder(f model.FormatSpec, enc Encoder) Option {
	return func(p *Pipeline) { p.encoders[f] = enc }
}

// WithMaxPixels caps width × height of any buffer the pipeline allocates.
// Values below 1 keep the default.
func WithMaxPixels(n int64) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxPixels = n
		}
	}
}

func WithJPEGQuality(q int) Option { return WithEncoder("jpeg", NewJPEGEncoder(q)) }

func WithWebPQuality(q int) Option { return WithEncoder("webp", NewWebPEncoder(q)) }

func NewPipeline(formats FormatValidator, opts ...Option) *Pipeline {
	p := &Pipeline{
		formats: formats,
		encoders: map[model.FormatSpec]Encoder{
			"png":  NewPNGEncoder(),
			"jpeg": NewJPEGEncoder(90),
			"webp": NewWebPEncoder(80),
		},
		background: color.Black,
		maxPixels:  DefaultMaxPixels,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Load decodes src. The format comes from the decoded container, never from
// the file name.
func (p *Pipeline) Load(src model.Source) (*Document, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, model.NewDecodeError("could not read uploaded content", err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, model.NewDecodeError("could not read uploaded content", err)
	}

	// headers are checked before any pixel buffer is allocated
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, model.NewDecodeError("content is not a readable image", err)
	}
	f, err := p.formats.ValidateInput(model.MediaImage, name)
	if err != nil {
		return nil, model.NewDecodeError(fmt.Sprintf("unsupported image container %q", name), err)
	}
	if p.tooLarge(cfg.Width, cfg.Height) {
		return nil, model.NewDecodeError(fmt.Sprintf("image of %dx%d exceeds the limit of %d pixels", cfg.Width, cfg.Height, p.maxPixels), nil)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, model.NewDecodeError("content is not a readable image", err)
	}

	b := img.Bounds()
	return &Document{
		name:    src.Name(),
		format:  f,
		width:   b.Dx(),
		height:  b.Dy(),
		content: img,
	}, nil
}

// ChangeFormat sets the target format and reports whether anything changed.
// Converting to jpeg drops alpha and palettes first.
func (p *Pipeline) ChangeFormat(doc *Document, target model.FormatSpec) (bool, error) {
	if target == "" {
		return false, model.NewValidationError("target format is required")
	}
	if target == doc.format {
		return false, nil
	}
	if _, ok := p.encoders[target]; !ok {
		return false, model.NewEncodeError(fmt.Sprintf("no encoder available for format %q", target), nil)
	}

	if target == "jpeg" && needsFlatten(doc.content) {
		doc.replace(dropAlpha(doc.content), doc.width, doc.height)
	}
	doc.format = target
	return true, nil
}

// Resize scales the document to exactly width × height with a Lanczos filter.
func (p *Pipeline) Resize(doc *Document, width, height int) (bool, error) {
	if width < 0 || height < 0 {
		return false, model.NewValidationError(fmt.Sprintf("size must be non-negative, got %dx%d", width, height))
	}
	if p.tooLarge(width, height) {
		return false, model.NewValidationError(fmt.Sprintf("size %dx%d exceeds the limit of %d pixels", width, height, p.maxPixels))
	}
	if width == doc.width && height == doc.height {
		return false, nil
	}

	var out image.Image
	if width == 0 || height == 0 {
		out = image.NewNRGBA(image.Rect(0, 0, width, height))
	} else {
		out = imaging.Resize(doc.content, width, height, imaging.Lanczos)
	}
	doc.replace(out, width, height)
	return true, nil
}

// Crop cuts a centered width × height region. Parts of the region that lie
// outside the source are filled with the background colour.
func (p *Pipeline) Crop(doc *Document, width, height int) (bool, error) {
	if width < 0 || height < 0 {
		return false, model.NewValidationError(fmt.Sprintf("size must be non-negative, got %dx%d", width, height))
	}
	if p.tooLarge(width, height) {
		return false, model.NewValidationError(fmt.Sprintf("size %dx%d exceeds the limit of %d pixels", width, height, p.maxPixels))
	}
	if width == doc.width && height == doc.height {
		return false, nil
	}

	var out image.Image
	if width == 0 || height == 0 {
		out = image.NewNRGBA(image.Rect(0, 0, width, height))
	} else {
		left := floorDiv(doc.width-width, 2)
		top := floorDiv(doc.height-height, 2)
		canvas := imaging.New(width, height, p.background)
		out = imaging.Paste(canvas, doc.content, image.Pt(-left, -top))
	}
	doc.replace(out, width, height)
	return true, nil
}

// Serialize encodes the document with the encoder of its current format.
func (p *Pipeline) Serialize(doc *Document) ([]byte, error) {
	enc, ok := p.encoders[doc.format]
	if !ok {
		return nil, model.NewEncodeError(fmt.Sprintf("no encoder available for format %q", doc.format), nil)
	}
	if doc.width == 0 || doc.height == 0 {
		return nil, model.NewEncodeError(fmt.Sprintf("cannot encode an empty %dx%d image", doc.width, doc.height), nil)
	}
	if doc.format == "jpeg" && !isOpaque(doc.content) {
		return nil, model.NewEncodeError("jpeg cannot store an alpha channel, convert the image to RGB first", nil)
	}

	buf := &bytes.Buffer{}
	if err := enc.Encode(buf, doc.content); err != nil {
		return nil, model.NewEncodeError(fmt.Sprintf("failed to encode %s", doc.format), err)
	}
	return buf.Bytes(), nil
}

func needsFlatten(img image.Image) bool {
	switch img.(type) {
	case *image.Gray, *image.Gray16, *image.YCbCr, *image.CMYK:
		return false
	case *image.Paletted:
		return true
	}
	return !isOpaque(img)
}

func isOpaque(img image.Image) bool {
	switch m := img.(type) {
	case *image.Gray, *image.Gray16, *image.YCbCr, *image.CMYK:
		return true
	case interface{ Opaque() bool }:
		return m.Opaque()
	}
	return false
}

// dropAlpha keeps the colour channels and discards alpha, like a plain
// RGBA -> RGB mode conversion.
func dropAlpha(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			dst.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return dst
}

func (p *Pipeline) tooLarge(width, height int) bool {
	return int64(width)*int64(height) > p.maxPixels
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
