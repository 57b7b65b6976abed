package conversion

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/fhuszti/media-converter-go/internal/api_context"
	"github.com/fhuszti/media-converter-go/internal/logger"
	"github.com/fhuszti/media-converter-go/internal/model"
	"github.com/fhuszti/media-converter-go/internal/uuid"
)

// Submit validates the request, registers a processing task and schedules
// the conversion. The returned id can be polled immediately.
//
// Stream sources are spooled to a temporary file named after the task id, so
// the stored artifact is `{task id}.{format}`. The temporary file is removed
// whatever the outcome.
func (s *Service) Submit(ctx context.Context, src model.Source, req model.ConversionRequest) (uuid.UUID, error) {
	res, err := s.resolve(req)
	if err != nil {
		s.release(ctx, src)
		return uuid.UUID{}, err
	}

	id := s.newID()
	ctx = api_context.WithTaskID(ctx, id)

	if src.Kind() == model.SourceByteStream {
		spooled, err := s.spool(id, src)
		if err != nil {
			return uuid.UUID{}, fmt.Errorf("failed to store upload for task %s: %w", id, err)
		}
		src = spooled
	}

	if _, err := s.tasks.Create(id); err != nil {
		s.release(ctx, src)
		return uuid.UUID{}, fmt.Errorf("failed to register task %s: %w", id, err)
	}

	userID, hasUser := api_context.AuthUserIDFromContext(ctx)
	startedAt := s.now()
	err = s.sched.Schedule("convert "+id.String(), func(workCtx context.Context) {
		workCtx = api_context.WithTaskID(workCtx, id)
		if hasUser {
			workCtx = api_context.WithAuthUserID(workCtx, userID)
		}
		s.run(workCtx, id, src, res, startedAt)
	})
	if err != nil {
		logger.Errorf(ctx, "❌  failed to schedule task %s: %v", id, err)
		s.fail(ctx, id, model.TaskError{Kind: model.KindInternal, Detail: "service is shutting down"})
		s.release(ctx, src)
		return uuid.UUID{}, fmt.Errorf("failed to schedule task %s: %w", id, err)
	}

	logger.Infof(ctx, "✅  task %s accepted: %s to %s (%d tasks tracked)", id, res.req.Kind, res.target, s.tasks.Len())
	return id, nil
}

// run is the single writer of the task's terminal state.
func (s *Service) run(ctx context.Context, id uuid.UUID, src model.Source, res resolved, startedAt time.Time) {
	defer s.release(ctx, src)
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "❌  conversion panicked", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			err := fmt.Errorf("conversion panicked: %v", r)
			s.fail(ctx, id, *model.NewTaskError(err))
			s.record(ctx, id, modeAsync, res, src.Name(), startedAt, nil, err)
		}
	}()

	info, err := s.convertAndStore(ctx, src, res)
	if err != nil {
		logger.Warnf(ctx, "⚠️ task %s failed: %v", id, err)
		s.fail(ctx, id, *model.NewTaskError(err))
		s.record(ctx, id, modeAsync, res, src.Name(), startedAt, nil, err)
		return
	}

	if _, err := s.tasks.Complete(id, *info); err != nil {
		logger.Errorf(ctx, "❌  failed to complete task %s: %v", id, err)
		return
	}
	logger.Infof(ctx, "✅  task %s completed: %s", id, info.Path)
	s.record(ctx, id, modeAsync, res, info.Name, startedAt, info, nil)
}

func (s *Service) convertAndStore(ctx context.Context, src model.Source, res resolved) (*model.ConversionInfo, error) {
	art, err := res.conv.Convert(ctx, src, res.target, res.req)
	if err != nil {
		return nil, err
	}

	path, err := s.sink.Save(ctx, art.FileName(), art.Data, art.Format.ContentType())
	if err != nil {
		return nil, fmt.Errorf("failed to save artifact %q: %w", art.FileName(), err)
	}

	return &model.ConversionInfo{
		Name:      art.Name,
		Format:    art.Format,
		Width:     art.Width,
		Height:    art.Height,
		SizeBytes: int64(len(art.Data)),
		Path:      path,
	}, nil
}

func (s *Service) fail(ctx context.Context, id uuid.UUID, taskErr model.TaskError) {
	if _, err := s.tasks.Fail(id, taskErr); err != nil {
		logger.Errorf(ctx, "❌  failed to mark task %s as failed: %v", id, err)
	}
}

// spool copies a stream into a temporary file owned by the task.
func (s *Service) spool(id uuid.UUID, src model.Source) (model.Source, error) {
	rc, err := src.Open()
	if err != nil {
		return model.Source{}, err
	}
	defer func() { _ = rc.Close() }()

	dir := s.tempDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "upload-"+id.String())
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return model.Source{}, err
	}
	if _, err := io.Copy(f, rc); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return model.Source{}, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return model.Source{}, err
	}
	return model.FromTempFile(path, id.String()), nil
}
