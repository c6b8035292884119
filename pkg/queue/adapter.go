package queue

import (
	"context"

	"github.com/8arr3tt/have-we-met/pkg/matching"
	"github.com/8arr3tt/have-we-met/pkg/record"
)

// ResolveAdapter satisfies matching.QueueEnqueuer, letting a Manager
// back the auto-queue side effect of matching.Resolver without
// matching importing this package (matching.PotentialMatch exists
// precisely to break that cycle).
type ResolveAdapter struct {
	manager *Manager
}

// NewResolveAdapter wraps a Manager for use as a matching.QueueEnqueuer.
func NewResolveAdapter(manager *Manager) *ResolveAdapter {
	return &ResolveAdapter{manager: manager}
}

// EnqueuePotentialMatch converts a resolve call's potential matches into
// a pending QueueItem and inserts it.
func (a *ResolveAdapter) EnqueuePotentialMatch(ctx context.Context, candidate record.Record, matches []matching.PotentialMatch) error {
	converted := make([]PotentialMatch, len(matches))
	for i, m := range matches {
		converted[i] = PotentialMatch{
			RecordID:    m.RecordID,
			Record:      m.Record,
			Score:       m.Score,
			Outcome:     m.Outcome,
			Explanation: m.Explanation,
		}
	}

	_, err := a.manager.Enqueue(ctx, &QueueItem{
		CandidateRecord:  candidate,
		PotentialMatches: converted,
	})
	return err
}
