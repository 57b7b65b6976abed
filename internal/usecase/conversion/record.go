package conversion

import (
	"context"
	"time"

	"github.com/fhuszti/media-converter-go/internal/api_context"
	"github.com/fhuszti/media-converter-go/internal/logger"
	"github.com/fhuszti/media-converter-go/internal/model"
	"github.com/fhuszti/media-converter-go/internal/uuid"
)

// record appends a finished conversion to the audit log. Failures are only
// logged: the log never changes the outcome of a conversion.
func (s *Service) record(ctx context.Context, id uuid.UUID, mode string, res resolved, name string, startedAt time.Time, info *model.ConversionInfo, convErr error) {
	if s.convLog == nil {
		return
	}

	entry := &model.ConversionLogEntry{
		ID:          id,
		Mode:        mode,
		Kind:        res.req.Kind,
		Name:        name,
		Format:      res.target.String(),
		Status:      model.TaskStatusCompleted,
		CreatedAt:   startedAt.UTC(),
		CompletedAt: s.now().UTC(),
	}
	if uid, ok := api_context.AuthUserIDFromContext(ctx); ok {
		entry.UserID = &uid
	}
	if convErr != nil {
		te := model.NewTaskError(convErr)
		kind := string(te.Kind)
		entry.Status = model.TaskStatusFailed
		entry.ErrorKind = &kind
		entry.ErrorDetail = &te.Detail
	}
	if info != nil {
		entry.Width = &info.Width
		entry.Height = &info.Height
		entry.SizeBytes = &info.SizeBytes
		if info.Path != "" {
			entry.Path = &info.Path
		}
	}

	if err := s.convLog.Record(ctx, entry); err != nil {
		logger.Warnf(ctx, "⚠️ failed to record conversion %s: %v", id, err)
	}
}
