package converter

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/fhuszti/media-converter-go/internal/format"
	"github.com/fhuszti/media-converter-go/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline() *Pipeline {
	return NewPipeline(format.NewDefaultRegistry(nil))
}

// helper: w×h image where every pixel encodes its own coordinates
func coordImage(w, h int, alpha uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), B: 200, A: alpha})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func loadBytes(t *testing.T, p *Pipeline, name string, data []byte) *Document {
	t.Helper()
	doc, err := p.Load(model.FromStream(name, bytes.NewReader(data)))
	require.NoError(t, err)
	return doc
}

// helper: a png holding only a header for a w×h RGBA image, a few dozen
// bytes claiming a huge pixel buffer
func pngHeaderOnly(w, h uint32) []byte {
	chunk := func(typ string, data []byte) []byte {
		out := make([]byte, 8, 12+len(data))
		binary.BigEndian.PutUint32(out, uint32(len(data)))
		copy(out[4:], typ)
		out = append(out, data...)
		return binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(out[4:]))
	}
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // truecolor with alpha

	buf := []byte("\x89PNG\r\n\x1a\n")
	buf = append(buf, chunk("IHDR", ihdr)...)
	buf = append(buf, chunk("IEND", nil)...)
	return buf
}

func TestLoad_RejectsOversizedImageBeforeDecoding(t *testing.T) {
	p := newTestPipeline()
	data := pngHeaderOnly(100_000, 100_000)
	require.Less(t, len(data), 100)

	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "png", name)
	require.Equal(t, 100_000, cfg.Width)

	_, err = p.Load(model.FromStream("bomb.png", bytes.NewReader(data)))
	require.ErrorIs(t, err, model.ErrDecode)
	assert.Contains(t, model.DetailOf(err), "exceeds the limit of 50000000 pixels")
}

func TestLoad_MaxPixels(t *testing.T) {
	p := NewPipeline(format.NewDefaultRegistry(nil), WithMaxPixels(100))

	doc := loadBytes(t, p, "ok.png", encodePNG(t, coordImage(10, 10, 255)))
	assert.Equal(t, 10, doc.Width())

	_, err := p.Load(model.FromStream("big.png", bytes.NewReader(encodePNG(t, coordImage(11, 10, 255)))))
	assert.ErrorIs(t, err, model.ErrDecode)

	// non-positive limits keep the default
	assert.Equal(t, int64(DefaultMaxPixels), NewPipeline(format.NewDefaultRegistry(nil), WithMaxPixels(0)).maxPixels)
}

func TestResizeAndCrop_MaxPixels(t *testing.T) {
	p := NewPipeline(format.NewDefaultRegistry(nil), WithMaxPixels(100))
	doc := loadBytes(t, p, "a.png", encodePNG(t, coordImage(4, 4, 255)))
	before := doc.Content()

	_, err := p.Resize(doc, 1_000_000, 1_000_000)
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = p.Crop(doc, 20, 6)
	assert.ErrorIs(t, err, model.ErrValidation)

	assert.Same(t, before, doc.Content())
	assert.Equal(t, 4, doc.Width())
}

func TestLoad(t *testing.T) {
	p := newTestPipeline()

	doc := loadBytes(t, p, "holiday.png", encodePNG(t, coordImage(7, 3, 255)))
	assert.Equal(t, "holiday", doc.Name())
	assert.Equal(t, model.FormatSpec("png"), doc.Format())
	assert.Equal(t, 7, doc.Width())
	assert.Equal(t, 3, doc.Height())
}

func TestLoad_FormatFromContentNotExtension(t *testing.T) {
	p := newTestPipeline()

	buf := &bytes.Buffer{}
	require.NoError(t, gif.Encode(buf, coordImage(4, 4, 255), nil))

	doc := loadBytes(t, p, "misleading.png", buf.Bytes())
	assert.Equal(t, model.FormatSpec("gif"), doc.Format())
}

func TestLoad_FromPath(t *testing.T) {
	p := newTestPipeline()
	path := filepath.Join(t.TempDir(), "local.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, coordImage(5, 6, 255)), 0o600))

	doc, err := p.Load(model.FromPath(path))
	require.NoError(t, err)
	assert.Equal(t, "local", doc.Name())
	assert.Equal(t, 5, doc.Width())
	assert.Equal(t, 6, doc.Height())

	// caller-owned files survive a load
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLoad_Errors(t *testing.T) {
	p := newTestPipeline()

	tests := []struct {
		name string
		src  model.Source
	}{
		{"corrupt bytes", model.FromStream("x.png", bytes.NewReader([]byte("definitely not an image")))},
		{"truncated png", model.FromStream("x.png", bytes.NewReader(encodePNG(t, coordImage(8, 8, 255))[:40]))},
		{"bmp header", model.FromStream("x.bmp", bytes.NewReader([]byte("BM\x00\x00\x00\x00")))},
		{"missing file", model.FromPath(filepath.Join(t.TempDir(), "nope.png"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Load(tt.src)
			assert.ErrorIs(t, err, model.ErrDecode)
		})
	}
}

func TestLoad_RejectsContainerOutsideInputSet(t *testing.T) {
	reg := format.NewRegistry(map[model.MediaKind]format.Sets{
		model.MediaImage: {Input: []string{"png"}, Output: []string{"png"}},
	})
	p := NewPipeline(reg)

	buf := &bytes.Buffer{}
	require.NoError(t, gif.Encode(buf, coordImage(2, 2, 255), nil))

	_, err := p.Load(model.FromStream("anim.gif", buf))
	assert.ErrorIs(t, err, model.ErrDecode)
}

func TestResize(t *testing.T) {
	p := newTestPipeline()

	tests := []struct {
		name        string
		w, h        int
		wantChanged bool
	}{
		{"shrink", 10, 5, true},
		{"grow", 40, 30, true},
		{"same size", 20, 10, false},
		{"zero width", 0, 10, true},
		{"zero both", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := loadBytes(t, p, "a.png", encodePNG(t, coordImage(20, 10, 255)))

			changed, err := p.Resize(doc, tt.w, tt.h)
			require.NoError(t, err)
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.w, doc.Width())
			assert.Equal(t, tt.h, doc.Height())
			assert.Equal(t, tt.w, doc.Content().Bounds().Dx())
			assert.Equal(t, tt.h, doc.Content().Bounds().Dy())
		})
	}
}

func TestResize_Negative(t *testing.T) {
	p := newTestPipeline()
	doc := loadBytes(t, p, "a.png", encodePNG(t, coordImage(4, 4, 255)))
	before := doc.Content()

	_, err := p.Resize(doc, -1, 4)
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Same(t, before, doc.Content())
	assert.Equal(t, 4, doc.Width())
}

func TestCrop_Inside(t *testing.T) {
	p := newTestPipeline()
	src := coordImage(6, 4, 255)
	doc := loadBytes(t, p, "a.png", encodePNG(t, src))

	changed, err := p.Crop(doc, 2, 2)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 2, doc.Width())
	assert.Equal(t, 2, doc.Height())

	// left = (6-2)/2 = 2, top = (4-2)/2 = 1
	got := color.NRGBAModel.Convert(doc.Content().At(0, 0)).(color.NRGBA)
	assert.Equal(t, src.NRGBAAt(2, 1), got)
}

func TestCrop_PaddedWithBlack(t *testing.T) {
	p := newTestPipeline()
	src := coordImage(4, 4, 255)
	doc := loadBytes(t, p, "a.png", encodePNG(t, src))

	_, err := p.Crop(doc, 6, 2)
	require.NoError(t, err)
	assert.Equal(t, 6, doc.Width())
	assert.Equal(t, 2, doc.Height())
	assert.Equal(t, image.Rect(0, 0, 6, 2), doc.Content().Bounds())

	// left = floor(-2/2) = -1, top = floor(2/2) = 1
	at := func(x, y int) color.NRGBA {
		return color.NRGBAModel.Convert(doc.Content().At(x, y)).(color.NRGBA)
	}
	black := color.NRGBA{A: 255}
	assert.Equal(t, black, at(0, 0))
	assert.Equal(t, black, at(5, 1))
	assert.Equal(t, src.NRGBAAt(0, 1), at(1, 0))
	assert.Equal(t, src.NRGBAAt(3, 2), at(4, 1))
}

func TestCrop_OddMarginsRoundDown(t *testing.T) {
	p := newTestPipeline()
	src := coordImage(5, 5, 255)
	doc := loadBytes(t, p, "a.png", encodePNG(t, src))

	_, err := p.Crop(doc, 2, 8)
	require.NoError(t, err)

	// left = floor(3/2) = 1, top = floor(-3/2) = -2
	at := color.NRGBAModel.Convert(doc.Content().At(0, 2)).(color.NRGBA)
	assert.Equal(t, src.NRGBAAt(1, 0), at)
	assert.Equal(t, color.NRGBA{A: 255}, color.NRGBAModel.Convert(doc.Content().At(0, 1)))
}

func TestCrop_CustomBackground(t *testing.T) {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	p := NewPipeline(format.NewDefaultRegistry(nil), WithBackground(white))
	doc := loadBytes(t, p, "a.png", encodePNG(t, coordImage(2, 2, 255)))

	_, err := p.Crop(doc, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, white, color.NRGBAModel.Convert(doc.Content().At(0, 0)))
}

func TestCrop_Errors(t *testing.T) {
	p := newTestPipeline()
	doc := loadBytes(t, p, "a.png", encodePNG(t, coordImage(4, 4, 255)))

	_, err := p.Crop(doc, 3, -1)
	assert.ErrorIs(t, err, model.ErrValidation)

	changed, err := p.Crop(doc, 4, 4)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = p.Crop(doc, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Width())
	assert.Equal(t, 3, doc.Height())
}

func TestChangeFormat(t *testing.T) {
	p := newTestPipeline()
	doc := loadBytes(t, p, "a.png", encodePNG(t, coordImage(4, 4, 255)))

	before := doc.Content()

	changed, err := p.ChangeFormat(doc, "png")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Same(t, before, doc.Content())
	assert.Equal(t, model.FormatSpec("png"), doc.Format())

	changed, err = p.ChangeFormat(doc, "webp")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, model.FormatSpec("webp"), doc.Format())

	_, err = p.ChangeFormat(doc, "")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = p.ChangeFormat(doc, "tiff")
	assert.ErrorIs(t, err, model.ErrEncode)
	assert.Equal(t, model.FormatSpec("webp"), doc.Format())
}

func TestChangeFormat_JPEGDropsAlpha(t *testing.T) {
	p := newTestPipeline()
	doc := loadBytes(t, p, "a.png", encodePNG(t, coordImage(4, 4, 100)))
	require.False(t, isOpaque(doc.Content()))

	_, err := p.ChangeFormat(doc, "jpeg")
	require.NoError(t, err)
	assert.True(t, isOpaque(doc.Content()))

	// colour channels are kept as-is, only alpha goes
	c := color.NRGBAModel.Convert(doc.Content().At(2, 3)).(color.NRGBA)
	assert.Equal(t, color.NRGBA{R: 20, G: 30, B: 200, A: 255}, c)

	data, err := p.Serialize(doc)
	require.NoError(t, err)
	_, name, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", name)
}

func TestChangeFormat_JPEGFlattensPalette(t *testing.T) {
	p := newTestPipeline()
	pal := image.NewPaletted(image.Rect(0, 0, 3, 3), color.Palette{color.Black, color.White})
	doc := &Document{name: "p", format: "gif", width: 3, height: 3, content: pal}

	_, err := p.ChangeFormat(doc, "jpeg")
	require.NoError(t, err)
	_, ok := doc.Content().(*image.RGBA)
	assert.True(t, ok)
}

func TestSerialize_Errors(t *testing.T) {
	p := newTestPipeline()

	tests := []struct {
		name string
		doc  *Document
	}{
		{"alpha into jpeg", &Document{name: "a", format: "jpeg", width: 2, height: 2, content: coordImage(2, 2, 10)}},
		{"empty buffer", &Document{name: "a", format: "png", width: 0, height: 5, content: image.NewNRGBA(image.Rect(0, 0, 0, 5))}},
		{"no encoder", &Document{name: "a", format: "gif", width: 2, height: 2, content: coordImage(2, 2, 255)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Serialize(tt.doc)
			assert.ErrorIs(t, err, model.ErrEncode)
		})
	}
}

func TestSerializeLoadRoundTrip(t *testing.T) {
	p := newTestPipeline()

	for _, f := range []model.FormatSpec{"png", "jpeg", "webp"} {
		t.Run(f.String(), func(t *testing.T) {
			doc := loadBytes(t, p, "a.png", encodePNG(t, coordImage(9, 7, 255)))
			_, err := p.ChangeFormat(doc, f)
			require.NoError(t, err)

			data, err := p.Serialize(doc)
			require.NoError(t, err)

			again := loadBytes(t, p, "a", data)
			assert.Equal(t, f, again.Format())
			assert.Equal(t, 9, again.Width())
			assert.Equal(t, 7, again.Height())
		})
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{4, 2, 2},
		{3, 2, 1},
		{-2, 2, -1},
		{-3, 2, -2},
		{0, 2, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, floorDiv(tt.a, tt.b), "floorDiv(%d, %d)", tt.a, tt.b)
	}
}
