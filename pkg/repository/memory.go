package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/8arr3tt/have-we-met/pkg/record"
	"github.com/8arr3tt/have-we-met/pkg/resolveerr"
)

// MemoryRepository is a process-local, map-backed Repository. It exists
// for tests and for deployments that accept non-durable storage; it
// keeps no blocking-key index of its own and recomputes matches by
// scanning, which is fine at test scale and wrong at production scale.
type MemoryRepository struct {
	mu      sync.Mutex
	records map[string]StoredRecord
	keyer   func(record.Record) []string
}

// NewMemoryRepository builds an empty MemoryRepository. keyer derives
// the blocking keys FindByBlockingKeys matches against; pass
// blocking.Index.Keys when wiring one in.
func NewMemoryRepository(keyer func(record.Record) []string) *MemoryRepository {
	return &MemoryRepository{records: make(map[string]StoredRecord), keyer: keyer}
}

func (m *MemoryRepository) FindAll(ctx context.Context, limit, offset int) ([]StoredRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]StoredRecord, 0, len(m.records))
	for _, sr := range m.records {
		out = append(out, sr)
	}
	if offset >= len(out) {
		return nil, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

func (m *MemoryRepository) FindByIDs(ctx context.Context, ids []string) ([]StoredRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]StoredRecord, 0, len(ids))
	for _, id := range ids {
		if sr, ok := m.records[id]; ok {
			out = append(out, sr)
		}
	}
	return out, nil
}

func (m *MemoryRepository) FindByBlockingKeys(ctx context.Context, keys []string) ([]StoredRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.keyer == nil {
		return nil, nil
	}
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}

	seen := make(map[string]bool)
	var out []StoredRecord
	for id, sr := range m.records {
		for _, k := range m.keyer(sr.Record) {
			if want[k] && !seen[id] {
				seen[id] = true
				out = append(out, sr)
				break
			}
		}
	}
	return out, nil
}

func (m *MemoryRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records), nil
}

func (m *MemoryRepository) Insert(ctx context.Context, r record.Record) (StoredRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sr := StoredRecord{ID: uuid.New().String(), Record: r}
	m.records[sr.ID] = sr
	return sr, nil
}

func (m *MemoryRepository) Update(ctx context.Context, id string, partial record.Record) (StoredRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[id]
	if !ok {
		return StoredRecord{}, resolveerr.New(resolveerr.CodeSourceRecordNotFound, "record not found").WithRecordID(id)
	}
	merged := record.Record{}
	for k, v := range existing.Record {
		merged[k] = v
	}
	for k, v := range partial {
		merged[k] = v
	}
	existing.Record = merged
	m.records[id] = existing
	return existing, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return resolveerr.New(resolveerr.CodeSourceRecordNotFound, "record not found").WithRecordID(id)
	}
	delete(m.records, id)
	return nil
}

func (m *MemoryRepository) BatchInsert(ctx context.Context, records []record.Record) ([]StoredRecord, error) {
	out := make([]StoredRecord, 0, len(records))
	for _, r := range records {
		sr, err := m.Insert(ctx, r)
		if err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, nil
}

func (m *MemoryRepository) BatchUpdate(ctx context.Context, updates map[string]record.Record) ([]StoredRecord, error) {
	out := make([]StoredRecord, 0, len(updates))
	for id, partial := range updates {
		sr, err := m.Update(ctx, id, partial)
		if err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, nil
}

// Transaction runs fn with no real isolation guarantee beyond the
// repository-wide mutex being free during fn's own calls back into the
// repository; MemoryRepository has no rollback log.
func (m *MemoryRepository) Transaction(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error) {
	return fn(ctx)
}
