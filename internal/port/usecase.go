package port

import (
	"context"
	"io"

	"github.com/fhuszti/media-converter-go/internal/model"
	"github.com/fhuszti/media-converter-go/internal/uuid"
)

// InlineConverter converts a file in the caller's goroutine.
type InlineConverter interface {
	ConvertInline(ctx context.Context, src model.Source, req model.ConversionRequest) (*model.Artifact, error)
}

// TaskSubmitter accepts a file for background conversion and returns the id
// to poll.
type TaskSubmitter interface {
	Submit(ctx context.Context, src model.Source, req model.ConversionRequest) (uuid.UUID, error)
}

// StatusPoller returns a snapshot of a task.
type StatusPoller interface {
	PollStatus(ctx context.Context, id uuid.UUID) (model.TaskRecord, error)
}

// ArtifactFetcher opens the stored artifact of a completed task.
type ArtifactFetcher interface {
	OpenArtifact(ctx context.Context, id uuid.UUID) (io.ReadCloser, *model.ConversionInfo, error)
}
