// Package format enumerates the formats each media kind accepts and turns
// user supplied format strings into validated FormatSpec values.
package format

import (
	"slices"
	"strings"

	"github.com/fhuszti/media-converter-go/internal/model"
)

var aliases = map[string]string{
	"jpg":  "jpeg",
	"jpe":  "jpeg",
	"wave": "wav",
	"oga":  "ogg",
}

// Normalize lowercases, trims and resolves aliases. It is idempotent.
func Normalize(raw string) string {
	f := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(raw)), ".")
	if canonical, ok := aliases[f]; ok {
		return canonical
	}
	return f
}

// Sets lists the input and output formats of one media kind.
type Sets struct {
	Input  []string
	Output []string
}

var (
	DefaultImage = Sets{
		Input:  []string{"png", "jpeg", "webp", "gif"},
		Output: []string{"png", "jpeg", "webp"},
	}
	DefaultAudio = Sets{
		Input:  []string{"mp3", "wav", "ogg", "flac"},
		Output: []string{"mp3", "wav", "ogg", "flac"},
	}
)

// Registry is immutable after construction and safe for concurrent use.
type Registry struct {
	kinds map[model.MediaKind]Sets
}

// NewRegistry builds a registry; formats are normalized and de-duplicated.
func NewRegistry(kinds map[model.MediaKind]Sets) *Registry {
	r := &Registry{kinds: make(map[model.MediaKind]Sets, len(kinds))}
	for k, s := range kinds {
		r.kinds[k] = Sets{Input: normalizeAll(s.Input), Output: normalizeAll(s.Output)}
	}
	return r
}

// NewDefaultRegistry uses the default sets, optionally restricting image
// outputs to imageOutputs when it is not empty.
func NewDefaultRegistry(imageOutputs []string) *Registry {
	image := DefaultImage
	if len(imageOutputs) > 0 {
		image = Sets{Input: DefaultImage.Input, Output: imageOutputs}
	}
	return NewRegistry(map[model.MediaKind]Sets{
		model.MediaImage: image,
		model.MediaAudio: DefaultAudio,
	})
}

// Validate checks a requested target format against the output set of kind.
func (r *Registry) Validate(kind model.MediaKind, raw string) (model.FormatSpec, error) {
	s, ok := r.kinds[kind]
	if !ok {
		return "", model.NewValidationError("unsupported media kind " + string(kind))
	}
	return check(kind, raw, s.Output)
}

// ValidateInput checks the intrinsic format of a decoded file against the
// input set of kind.
func (r *Registry) ValidateInput(kind model.MediaKind, raw string) (model.FormatSpec, error) {
	s, ok := r.kinds[kind]
	if !ok {
		return "", model.NewValidationError("unsupported media kind " + string(kind))
	}
	return check(kind, raw, s.Input)
}

// Allowed returns a copy of the output set of kind.
func (r *Registry) Allowed(kind model.MediaKind) []string {
	return slices.Clone(r.kinds[kind].Output)
}

func check(kind model.MediaKind, raw string, allowed []string) (model.FormatSpec, error) {
	f := Normalize(raw)
	if f == "" || !slices.Contains(allowed, f) {
		return "", &model.FormatError{Kind: kind, Requested: raw, Allowed: slices.Clone(allowed)}
	}
	return model.FormatSpec(f), nil
}

func normalizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, f := range in {
		n := Normalize(f)
		if n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}
