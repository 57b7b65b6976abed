package model

import (
	"time"

	"github.com/fhuszti/media-converter-go/internal/uuid"
)

// TaskStatus is the lifecycle state of a conversion task.
type TaskStatus string

const (
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// IsTerminal reports whether no further transition can happen.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// ConversionInfo describes a stored artifact.
type ConversionInfo struct {
	Name      string     `json:"name"`
	Format    FormatSpec `json:"format"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	SizeBytes int64      `json:"size_bytes"`
	Path      string     `json:"path"`
}

// TaskError is the client-facing part of a failure.
type TaskError struct {
	Kind   ErrorKind `json:"kind"`
	Detail string    `json:"detail"`
}

// NewTaskError extracts kind and detail from err.
func NewTaskError(err error) *TaskError {
	return &TaskError{Kind: KindOf(err), Detail: DetailOf(err)}
}

// TaskRecord is a snapshot of a conversion task. Result is set only when
// completed, Error only when failed.
type TaskRecord struct {
	ID          uuid.UUID       `json:"task_id"`
	Status      TaskStatus      `json:"status"`
	Result      *ConversionInfo `json:"result,omitempty"`
	Error       *TaskError      `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// Clone returns a deep copy so callers never share pointers with the registry.
func (r TaskRecord) Clone() TaskRecord {
	out := r
	if r.Result != nil {
		res := *r.Result
		out.Result = &res
	}
	if r.Error != nil {
		e := *r.Error
		out.Error = &e
	}
	if r.CompletedAt != nil {
		at := *r.CompletedAt
		out.CompletedAt = &at
	}
	return out
}

// ConversionLogEntry is one row of the conversion audit log.
type ConversionLogEntry struct {
	ID          uuid.UUID
	Mode        string
	UserID      *string
	Kind        MediaKind
	Name        string
	Format      string
	Status      TaskStatus
	ErrorKind   *string
	ErrorDetail *string
	Width       *int
	Height      *int
	SizeBytes   *int64
	Path        *string
	CreatedAt   time.Time
	CompletedAt time.Time
}

// TaskRecord rebuilds the terminal task snapshot an entry was logged from.
func (e ConversionLogEntry) TaskRecord() TaskRecord {
	completedAt := e.CompletedAt
	rec := TaskRecord{
		ID:          e.ID,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
		CompletedAt: &completedAt,
	}
	if e.Status == TaskStatusFailed {
		te := &TaskError{Kind: KindInternal, Detail: "internal error"}
		if e.ErrorKind != nil {
			te.Kind = ErrorKind(*e.ErrorKind)
		}
		if e.ErrorDetail != nil {
			te.Detail = *e.ErrorDetail
		}
		rec.Error = te
		return rec
	}

	info := &ConversionInfo{Name: e.Name, Format: FormatSpec(e.Format)}
	if e.Width != nil {
		info.Width = *e.Width
	}
	if e.Height != nil {
		info.Height = *e.Height
	}
	if e.SizeBytes != nil {
		info.SizeBytes = *e.SizeBytes
	}
	if e.Path != nil {
		info.Path = *e.Path
	}
	rec.Result = info
	return rec
}
