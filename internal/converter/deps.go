package converter

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/chai2010/webp"
)

// Encoder serialises a pixel buffer in one output format.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
}

type pngEncoder struct{}

func (pngEncoder) Encode(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

type jpegEncoder struct{ quality int }

func (e jpegEncoder) Encode(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: e.quality})
}

type webpEncoder struct{ quality float32 }

func (e webpEncoder) Encode(w io.Writer, img image.Image) error {
	return webp.Encode(w, img, &webp.Options{Quality: e.quality})
}

func NewPNGEncoder() Encoder { return pngEncoder{} }

func NewJPEGEncoder(quality int) Encoder { return jpegEncoder{quality: quality} }

func NewWebPEncoder(quality int) Encoder { return webpEncoder{quality: float32(quality)} }
