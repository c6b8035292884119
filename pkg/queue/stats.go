package queue

import (
	"context"
	"time"

	"github.com/8arr3tt/have-we-met/pkg/tracing"
)

// Stats summarizes queue health against the configured alert
// thresholds, per spec.md §6's `alertThresholds`.
type Stats struct {
	PendingCount     int
	OldestPendingAge time.Duration
	DecidedLast24h   int
	Alerts           []string
}

// Stats computes current queue health. throughputSince is the lower
// bound used for the decided-in-last-24h count; callers normally pass
// time.Now().Add(-24*time.Hour).
func (m *Manager) Stats(ctx context.Context, throughputSince time.Time) (*Stats, error) {
	ctx, span := tracing.StartSpan(ctx, "queue.Manager.Stats")
	defer span.End()

	pendingCount, err := m.repo.CountItems(ctx, Filter{Status: []Status{StatusPending}})
	if err != nil {
		return nil, err
	}

	pending, err := m.repo.FindItems(ctx, Filter{
		Status:         []Status{StatusPending},
		OrderBy:        "created_at",
		OrderDirection: "asc",
		Limit:          1,
	})
	if err != nil {
		return nil, err
	}

	var oldestAge time.Duration
	if len(pending) > 0 {
		oldestAge = time.Since(pending[0].CreatedAt)
	}

	decidedItems, err := m.repo.FindItems(ctx, Filter{
		Status: []Status{StatusConfirmed, StatusRejected},
	})
	if err != nil {
		return nil, err
	}
	decided := 0
	for _, item := range decidedItems {
		if item.DecidedAt != nil && item.DecidedAt.After(throughputSince) {
			decided++
		}
	}

	stats := &Stats{
		PendingCount:     pendingCount,
		OldestPendingAge: oldestAge,
		DecidedLast24h:   decided,
	}

	thresholds := m.cfg.AlertThresholds
	if thresholds.MaxQueueSize > 0 && pendingCount > thresholds.MaxQueueSize {
		stats.Alerts = append(stats.Alerts, "queue size exceeds maxQueueSize")
	}
	if thresholds.MaxAge > 0 && oldestAge > thresholds.MaxAge {
		stats.Alerts = append(stats.Alerts, "oldest pending item exceeds maxAge")
	}
	if thresholds.MinThroughput > 0 && float64(decided) < thresholds.MinThroughput {
		stats.Alerts = append(stats.Alerts, "throughput below minThroughput")
	}

	return stats, nil
}
