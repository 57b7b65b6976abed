package port

import (
	"context"
	"io"
)

// ArtifactSink persists converted artifacts under their `{name}.{format}` key.
type ArtifactSink interface {
	// Save writes data under key and returns the location it was stored at.
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
