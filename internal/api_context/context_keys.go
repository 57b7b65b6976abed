package api_context

import (
	"context"

	"github.com/fhuszti/media-converter-go/internal/uuid"
)

type ctxKey string

const (
	TaskIDKey     ctxKey = "taskID"
	AuthUserIDKey ctxKey = "authUserID"
)

func WithTaskID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, TaskIDKey, id)
}

func TaskIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(TaskIDKey).(uuid.UUID)
	return id, ok
}

func WithAuthUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, AuthUserIDKey, id)
}

// AuthUserIDFromContext returns the token subject set by the auth middleware.
func AuthUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(AuthUserIDKey).(string)
	return id, ok && id != ""
}
