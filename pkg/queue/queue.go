// Package queue implements the review queue state machine: persisting
// potential-match decisions with enforced status transitions, a stored
// per-item priority, and aging, per spec.md §3 and §8.8. Items can be
// filtered by priority, but nothing here sorts by it: MemoryRepository
// orders results by creation time only.
package queue

import (
	"time"

	"github.com/8arr3tt/have-we-met/pkg/matching"
	"github.com/8arr3tt/have-we-met/pkg/record"
)

// Status is a QueueItem's lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// terminal reports whether a status has no outgoing transitions.
func (s Status) terminal() bool {
	switch s {
	case StatusConfirmed, StatusRejected, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

// Action is the decision an adjudicator records on confirm/reject.
type Action string

const (
	ActionConfirm Action = "confirm"
	ActionReject  Action = "reject"
)

// Decision records how a QueueItem was adjudicated.
type Decision struct {
	Action          Action
	SelectedMatchID string
	Notes           string
}

// PotentialMatch is one candidate record's score against the item's
// subject record, surfaced for human review.
type PotentialMatch struct {
	RecordID    string
	Record      record.Record
	Score       matching.Score
	Outcome     matching.Outcome
	Explanation matching.Explanation
}

// QueueItem is a persisted potential-match decision awaiting review.
type QueueItem struct {
	ID               string
	CandidateRecord  record.Record
	PotentialMatches []PotentialMatch
	Status           Status
	Priority         int
	Tags             []string
	CreatedAt        time.Time
	DecidedAt        *time.Time
	DecidedBy        string
	Decision         *Decision
	Context          map[string]any
}
