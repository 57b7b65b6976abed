package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fhuszti/media-converter-go/internal/logger"
	"github.com/fhuszti/media-converter-go/internal/model"
	"github.com/fhuszti/media-converter-go/internal/port"
	"github.com/fhuszti/media-converter-go/internal/uuid"
)

type ConversionLog struct {
	db *sql.DB
}

// compile-time check: *ConversionLog must satisfy port.ConversionLog
var _ port.ConversionLog = (*ConversionLog)(nil)

func NewConversionLog(db *sql.DB) *ConversionLog {
	return &ConversionLog{db: db}
}

func (r *ConversionLog) Record(ctx context.Context, e *model.ConversionLogEntry) error {
	logger.Infof(ctx, "recording %s conversion #%s, at status %q...", e.Mode, e.ID, e.Status)

	const query = `
      INSERT INTO conversions
        (id, mode, user_id, kind, name, format, status, error_kind, error_detail, width, height, size_bytes, path, created_at, completed_at)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.Mode, e.UserID,
		e.Kind, e.Name, e.Format, e.Status,
		e.ErrorKind, e.ErrorDetail,
		e.Width, e.Height, e.SizeBytes, e.Path,
		e.CreatedAt, e.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert conversion %s: %w", e.ID, err)
	}

	return nil
}

func (r *ConversionLog) GetByID(ctx context.Context, id uuid.UUID) (*model.ConversionLogEntry, error) {
	logger.Infof(ctx, "fetching conversion #%s from the database...", id)

	const query = `
      SELECT id, mode, user_id, kind, name, format, status, error_kind, error_detail, width, height, size_bytes, path, created_at, completed_at
      FROM conversions
      WHERE id = ?
    `
	row := r.db.QueryRowContext(ctx, query, id)
	var e model.ConversionLogEntry
	if err := row.Scan(
		&e.ID, &e.Mode, &e.UserID,
		&e.Kind, &e.Name, &e.Format, &e.Status,
		&e.ErrorKind, &e.ErrorDetail,
		&e.Width, &e.Height, &e.SizeBytes, &e.Path,
		&e.CreatedAt, &e.CompletedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &model.Error{Kind: model.KindNotFound, Detail: "conversion not found", Err: err}
		}
		return nil, err
	}

	return &e, nil
}
