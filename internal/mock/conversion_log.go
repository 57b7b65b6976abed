package mock

import (
	"context"
	"sync"

	"github.com/fhuszti/media-converter-go/internal/model"
	"github.com/fhuszti/media-converter-go/internal/uuid"
)

// ConversionLog records entries in memory.
type ConversionLog struct {
	mu sync.Mutex

	// stored values
	Entries []model.ConversionLogEntry

	// errors
	RecordErr error
	GetErr    error
}

func (m *ConversionLog) Record(ctx context.Context, entry *model.ConversionLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, *entry)
	return m.RecordErr
}

func (m *ConversionLog) GetByID(ctx context.Context, id uuid.UUID) (*model.ConversionLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	for i := range m.Entries {
		if m.Entries[i].ID == id {
			e := m.Entries[i]
			return &e, nil
		}
	}
	return nil, model.NewNotFoundError("conversion " + id.String() + " not found")
}

// Snapshot returns a copy of the recorded entries.
func (m *ConversionLog) Snapshot() []model.ConversionLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.ConversionLogEntry(nil), m.Entries...)
}
