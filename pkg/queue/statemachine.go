package queue

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/8arr3tt/have-we-met/pkg/resolveerr"
	"github.com/8arr3tt/have-we-met/pkg/tracing"
)

// transitions enumerates every legal status change, per spec.md §8.8.
// Anything absent from this table is an InvalidStatusTransitionError.
var transitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusConfirmed: true,
		StatusRejected:  true,
		StatusCancelled: true,
		StatusExpired:   true,
	},
}

// Manager drives the review queue's state machine against a Repository.
type Manager struct {
	logger ectologger.Logger
	repo   Repository
	cfg    Config
}

// NewManager builds a Manager.
func NewManager(logger ectologger.Logger, repo Repository, cfg Config) *Manager {
	return &Manager{logger: logger, repo: repo, cfg: cfg}
}

// Enqueue inserts a new pending QueueItem. Called fire-and-forget from
// the resolve path per spec.md §9 — failures here are the caller's to
// surface via observability, not to propagate as a resolve error.
func (m *Manager) Enqueue(ctx context.Context, item *QueueItem) (*QueueItem, error) {
	ctx, span := tracing.StartSpan(ctx, "queue.Manager.Enqueue")
	defer span.End()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Priority == 0 {
		item.Priority = m.cfg.DefaultPriority
	}
	item.Status = StatusPending
	item.CreatedAt = time.Now()

	created, err := m.repo.InsertItem(ctx, item)
	if err != nil {
		return nil, err
	}

	m.logger.WithContext(ctx).WithFields(map[string]any{"queue_item_id": created.ID}).Info("enqueued review item")
	return created, nil
}

// Confirm transitions item to confirmed, recording the decision.
func (m *Manager) Confirm(ctx context.Context, id, decidedBy, selectedMatchID, notes string) (*QueueItem, error) {
	return m.decide(ctx, id, StatusConfirmed, decidedBy, &Decision{
		Action:          ActionConfirm,
		SelectedMatchID: selectedMatchID,
		Notes:           notes,
	})
}

// Reject transitions item to rejected, recording the decision.
func (m *Manager) Reject(ctx context.Context, id, decidedBy, notes string) (*QueueItem, error) {
	return m.decide(ctx, id, StatusRejected, decidedBy, &Decision{
		Action: ActionReject,
		Notes:  notes,
	})
}

// Cancel transitions item to cancelled with no decision recorded.
func (m *Manager) Cancel(ctx context.Context, id, decidedBy string) (*QueueItem, error) {
	return m.decide(ctx, id, StatusCancelled, decidedBy, nil)
}

func (m *Manager) decide(ctx context.Context, id string, target Status, decidedBy string, decision *Decision) (*QueueItem, error) {
	ctx, span := tracing.StartSpan(ctx, "queue.Manager.decide")
	defer span.End()

	item, err := m.repo.FindItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, resolveerr.New(resolveerr.CodeQueueItemNotFound, "queue item not found").
			WithRecordID(id).WithOperation("queue.decide")
	}

	if err := m.checkTransition(item.Status, target); err != nil {
		return nil, err
	}

	now := time.Now()
	partial := map[string]any{
		"status":     target,
		"decided_at": now,
		"decided_by": decidedBy,
		"decision":   decision,
	}

	updated, err := m.repo.UpdateItem(ctx, id, partial)
	if err != nil {
		return nil, err
	}

	m.logger.WithContext(ctx).WithFields(map[string]any{
		"queue_item_id": id,
		"status":        target,
	}).Info("queue item transitioned")

	return updated, nil
}

// checkTransition validates target against the current status, per the
// transition table in spec.md §8.8. Terminal states are absorbing.
func (m *Manager) checkTransition(current, target Status) error {
	if current.terminal() {
		return resolveerr.Newf(resolveerr.CodeInvalidStatusTransition, "cannot transition terminal status %q to %q", current, target).
			WithOperation("queue.transition")
	}
	allowed, ok := transitions[current]
	if !ok || !allowed[target] {
		return resolveerr.Newf(resolveerr.CodeInvalidStatusTransition, "invalid transition from %q to %q", current, target).
			WithOperation("queue.transition")
	}
	return nil
}

// ExpirePending sweeps all pending items older than AutoExpireAfter and
// transitions them to expired. Returns the ids transitioned.
func (m *Manager) ExpirePending(ctx context.Context) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "queue.Manager.ExpirePending")
	defer span.End()

	cutoff := time.Now().Add(-m.cfg.AutoExpireAfter)
	items, err := m.repo.FindItems(ctx, Filter{Status: []Status{StatusPending}, OlderThan: &cutoff})
	if err != nil {
		return nil, err
	}

	var expired []string
	for _, item := range items {
		if _, err := m.decide(ctx, item.ID, StatusExpired, "", nil); err != nil {
			return expired, err
		}
		expired = append(expired, item.ID)
	}
	return expired, nil
}
