// Command convert converts a local media file and saves the result as
// `{name}.{format}` in the artifact directory.
//
//	convert -format jpeg [-kind image] [-resize 800x600] [-crop 400x400] [-out files] path/to/file.png
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fhuszti/media-converter-go/internal/converter"
	"github.com/fhuszti/media-converter-go/internal/format"
	"github.com/fhuszti/media-converter-go/internal/logger"
	"github.com/fhuszti/media-converter-go/internal/model"
	"github.com/fhuszti/media-converter-go/internal/port"
	"github.com/fhuszti/media-converter-go/internal/storage"
	"github.com/fhuszti/media-converter-go/internal/task"
	"github.com/fhuszti/media-converter-go/internal/usecase/conversion"
)

type options struct {
	path        string
	outDir      string
	req         model.ConversionRequest
	formats     []string
	jpegQuality int
	webpQuality int
	maxPixels   int64
}

func main() {
	ctx := context.Background()
	logger.Init()

	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		logger.Errorf(ctx, "❌  %v", err)
		os.Exit(2)
	}

	if err := run(ctx, opts); err != nil {
		logger.Errorf(ctx, "❌  Conversion of %q failed: %v", opts.path, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	sink, err := storage.NewLocalStorage(opts.outDir)
	if err != nil {
		return err
	}

	formats := format.NewDefaultRegistry(opts.formats)
	pipeline := converter.NewPipeline(formats,
		converter.WithJPEGQuality(opts.jpegQuality),
		converter.WithWebPQuality(opts.webpQuality),
		converter.WithMaxPixels(opts.maxPixels),
	)
	pool := task.NewPool(1)
	svc := conversion.NewService(
		formats,
		map[model.MediaKind]port.MediaConverter{
			model.MediaImage: converter.NewImageConverter(pipeline),
			model.MediaAudio: converter.NewAudioConverter(),
		},
		task.NewRegistry(time.Now),
		pool,
		sink,
		nil,
		"",
	)

	// path sources are not spooled, so the artifact keeps the input's name
	id, err := svc.Submit(ctx, model.FromPath(opts.path), opts.req)
	if err != nil {
		return err
	}
	if err := pool.Shutdown(ctx); err != nil {
		return err
	}

	rec, err := svc.PollStatus(ctx, id)
	if err != nil {
		return err
	}
	if rec.Status != model.TaskStatusCompleted || rec.Result == nil {
		if rec.Error == nil {
			return fmt.Errorf("conversion ended in status %s", rec.Status)
		}
		return &model.Error{Kind: rec.Error.Kind, Detail: rec.Error.Detail}
	}

	res := rec.Result
	logger.Infof(ctx, "✅  Saved %s (%dx%d, %d bytes)", res.Path, res.Width, res.Height, res.SizeBytes)
	return nil
}

func parseArgs(args []string) (options, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	target := fs.String("format", "", "target format (png, jpeg, webp)")
	kind := fs.String("kind", "image", "media kind (image, audio)")
	resize := fs.String("resize", "", "resize to WIDTHxHEIGHT")
	crop := fs.String("crop", "", "centered crop to WIDTHxHEIGHT")
	outDir := fs.String("out", "files", "directory the artifact is written to")
	allowed := fs.String("formats", os.Getenv("IMAGE_FORMATS"), "comma separated image output formats")
	jpegQ := fs.Int("jpeg-quality", 90, "jpeg quality (1-100)")
	webpQ := fs.Int("webp-quality", 80, "webp quality (0-100)")
	maxPixels := fs.Int64("max-pixels", converter.DefaultMaxPixels, "largest accepted width × height")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if fs.NArg() != 1 {
		return options{}, fmt.Errorf("expected exactly one input file, got %d", fs.NArg())
	}
	if strings.TrimSpace(*target) == "" {
		return options{}, fmt.Errorf("-format is required")
	}

	mk, err := model.ParseMediaKind(*kind)
	if err != nil {
		return options{}, err
	}
	resizeSize, err := parseSize("resize", *resize)
	if err != nil {
		return options{}, err
	}
	cropSize, err := parseSize("crop", *crop)
	if err != nil {
		return options{}, err
	}

	var formats []string
	for _, f := range strings.Split(*allowed, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}

	return options{
		path:        fs.Arg(0),
		outDir:      *outDir,
		req:         model.ConversionRequest{Kind: mk, Format: *target, Resize: resizeSize, Crop: cropSize},
		formats:     formats,
		jpegQuality: *jpegQ,
		webpQuality: *webpQ,
		maxPixels:   *maxPixels,
	}, nil
}

// parseSize reads "WIDTHxHEIGHT". Empty means the step is skipped.
func parseSize(name, raw string) (*model.Size, error) {
	if raw == "" {
		return nil, nil
	}
	w, h, ok := strings.Cut(strings.ToLower(raw), "x")
	if !ok {
		return nil, fmt.Errorf("-%s must look like WIDTHxHEIGHT, got %q", name, raw)
	}
	width, errW := strconv.Atoi(strings.TrimSpace(w))
	height, errH := strconv.Atoi(strings.TrimSpace(h))
	if errW != nil || errH != nil {
		return nil, fmt.Errorf("-%s must look like WIDTHxHEIGHT, got %q", name, raw)
	}
	return &model.Size{Width: width, Height: height}, nil
}
