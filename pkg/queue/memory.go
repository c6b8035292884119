package queue

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process Repository backed by a map,
// suitable for tests and single-instance deployments without a
// persistence layer wired in.
type MemoryRepository struct {
	mu    sync.Mutex
	items map[string]*QueueItem
}

// NewMemoryRepository builds an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]*QueueItem)}
}

func cloneItem(item *QueueItem) *QueueItem {
	cp := *item
	return &cp
}

func (r *MemoryRepository) InsertItem(_ context.Context, item *QueueItem) (*QueueItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	stored := cloneItem(item)
	r.items[stored.ID] = stored
	return cloneItem(stored), nil
}

func (r *MemoryRepository) UpdateItem(_ context.Context, id string, partial map[string]any) (*QueueItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}

	if status, ok := partial["status"].(Status); ok {
		item.Status = status
	}
	if decidedAt, ok := partial["decided_at"].(time.Time); ok {
		item.DecidedAt = &decidedAt
	}
	if decidedBy, ok := partial["decided_by"].(string); ok {
		item.DecidedBy = decidedBy
	}
	if decision, ok := partial["decision"].(*Decision); ok {
		item.Decision = decision
	}

	return cloneItem(item), nil
}

func (r *MemoryRepository) FindItem(_ context.Context, id string) (*QueueItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return cloneItem(item), nil
}

func (r *MemoryRepository) FindItems(_ context.Context, filter Filter) ([]QueueItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]QueueItem, 0, len(r.items))
	for _, item := range r.items {
		if matches(item, filter) {
			matched = append(matched, *cloneItem(item))
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if filter.OrderBy == "created_at" && filter.OrderDirection == "asc" {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset > 0 && filter.Offset < len(matched) {
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	return matched, nil
}

func (r *MemoryRepository) CountItems(ctx context.Context, filter Filter) (int, error) {
	items, err := r.FindItems(ctx, Filter{Status: filter.Status, Tags: filter.Tags, OlderThan: filter.OlderThan, NewerThan: filter.NewerThan, Priority: filter.Priority})
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (r *MemoryRepository) DeleteItem(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *MemoryRepository) BatchInsert(ctx context.Context, items []*QueueItem) ([]*QueueItem, error) {
	out := make([]*QueueItem, 0, len(items))
	for _, item := range items {
		created, err := r.InsertItem(ctx, item)
		if err != nil {
			return out, err
		}
		out = append(out, created)
	}
	return out, nil
}

func matches(item *QueueItem, filter Filter) bool {
	if len(filter.Status) > 0 {
		found := false
		for _, s := range filter.Status {
			if item.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(filter.Tags) > 0 {
		tagSet := make(map[string]bool, len(item.Tags))
		for _, t := range item.Tags {
			tagSet[t] = true
		}
		for _, t := range filter.Tags {
			if !tagSet[t] {
				return false
			}
		}
	}

	if filter.OlderThan != nil && !item.CreatedAt.Before(*filter.OlderThan) {
		return false
	}
	if filter.NewerThan != nil && !item.CreatedAt.After(*filter.NewerThan) {
		return false
	}
	if filter.Priority != nil && item.Priority != *filter.Priority {
		return false
	}

	return true
}
