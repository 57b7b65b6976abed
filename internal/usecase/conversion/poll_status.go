package conversion

import (
	"context"
	"errors"

	"github.com/fhuszti/media-converter-go/internal/logger"
	"github.com/fhuszti/media-converter-go/internal/model"
	"github.com/fhuszti/media-converter-go/internal/uuid"
)

// PollStatus returns a snapshot of the task, or a not_found error. Tasks
// missing from the registry, e.g. after a restart, are looked up in the
// conversion log, which only holds terminal states.
func (s *Service) PollStatus(ctx context.Context, id uuid.UUID) (model.TaskRecord, error) {
	rec, err := s.tasks.Get(id)
	if err == nil || s.convLog == nil || !errors.Is(err, model.ErrNotFound) {
		return rec, err
	}

	entry, logErr := s.convLog.GetByID(ctx, id)
	if logErr != nil {
		if !errors.Is(logErr, model.ErrNotFound) {
			logger.Warnf(ctx, "⚠️ conversion log lookup for task %s failed: %v", id, logErr)
		}
		return model.TaskRecord{}, err
	}
	// inline conversions share the log but never had a task
	if entry.Mode != modeAsync {
		return model.TaskRecord{}, err
	}
	return entry.TaskRecord(), nil
}
