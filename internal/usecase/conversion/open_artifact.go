package conversion

import (
	"context"
	"fmt"
	"io"

	"github.com/fhuszti/media-converter-go/internal/model"
	"github.com/fhuszti/media-converter-go/internal/uuid"
)

// OpenArtifact streams the stored result of a completed task.
func (s *Service) OpenArtifact(ctx context.Context, id uuid.UUID) (io.ReadCloser, *model.ConversionInfo, error) {
	rec, err := s.PollStatus(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if rec.Status != model.TaskStatusCompleted || rec.Result == nil {
		return nil, nil, model.NewNotFoundError(fmt.Sprintf("task %s has no artifact (status %s)", id, rec.Status))
	}

	key := rec.Result.Name + rec.Result.Format.Extension()
	rc, err := s.sink.Open(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	return rc, rec.Result, nil
}
