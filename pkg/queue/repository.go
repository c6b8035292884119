package queue

import (
	"context"
	"time"
)

// Filter selects QueueItems for Find/Count, per spec.md §6.
type Filter struct {
	Status         []Status
	Tags           []string // all must be present
	OlderThan      *time.Time
	NewerThan      *time.Time
	Priority       *int
	Limit          int
	Offset         int
	OrderBy        string
	OrderDirection string
}

// Repository is the external collaborator the queue state machine
// persists through. The core never implements storage itself.
type Repository interface {
	InsertItem(ctx context.Context, item *QueueItem) (*QueueItem, error)
	UpdateItem(ctx context.Context, id string, partial map[string]any) (*QueueItem, error)
	FindItem(ctx context.Context, id string) (*QueueItem, error)
	FindItems(ctx context.Context, filter Filter) ([]QueueItem, error)
	CountItems(ctx context.Context, filter Filter) (int, error)
	DeleteItem(ctx context.Context, id string) error
	BatchInsert(ctx context.Context, items []*QueueItem) ([]*QueueItem, error)
}
