package port

import (
	"context"

	"github.com/fhuszti/media-converter-go/internal/model"
	"github.com/fhuszti/media-converter-go/internal/uuid"
)

// ConversionLog is the audit trail of finished conversions.
type ConversionLog interface {
	Record(ctx context.Context, entry *model.ConversionLogEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ConversionLogEntry, error)
}
