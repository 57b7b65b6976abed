package model

import (
	"fmt"
	"strings"
)

// MediaKind selects the format registry and pipeline that apply to a file.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaAudio MediaKind = "audio"
)

// ParseMediaKind accepts "image" or "audio" in any case. Empty defaults to image.
func ParseMediaKind(s string) (MediaKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "image":
		return MediaImage, nil
	case "audio":
		return MediaAudio, nil
	default:
		return "", NewValidationError(fmt.Sprintf("unknown media kind %q, allowed kinds are: image, audio", s))
	}
}

// FormatSpec is a normalized format token that belongs to the allowed set of
// a media kind. Only the format registry creates non-empty values.
type FormatSpec string

func (f FormatSpec) String() string { return string(f) }

// Extension returns the file extension, with a leading dot, used for artifacts.
func (f FormatSpec) Extension() string { return "." + string(f) }

// ContentType returns the MIME type served for an artifact of this format.
func (f FormatSpec) ContentType() string {
	switch f {
	case "png", "jpeg", "webp", "gif":
		return "image/" + string(f)
	case "mp3":
		return "audio/mpeg"
	case "wav", "ogg", "flac":
		return "audio/" + string(f)
	default:
		return "application/octet-stream"
	}
}

// Size is a requested width/height pair in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ConversionRequest describes what to do with one uploaded file.
type ConversionRequest struct {
	Kind   MediaKind
	Format string
	Resize *Size
	Crop   *Size
}

// Artifact is the serialized result of a conversion.
type Artifact struct {
	Name   string
	Format FormatSpec
	Width  int
	Height int
	Data   []byte
}

// FileName is the `{name}.{format}` key artifacts are stored under.
func (a *Artifact) FileName() string {
	return a.Name + a.Format.Extension()
}
