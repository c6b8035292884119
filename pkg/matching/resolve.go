package matching

import (
	"context"
	"sort"

	"github.com/Gobusters/ectologger"

	"github.com/8arr3tt/have-we-met/pkg/record"
	"github.com/8arr3tt/have-we-met/pkg/resolveerr"
	"github.com/8arr3tt/have-we-met/pkg/schema"
	"github.com/8arr3tt/have-we-met/pkg/tracing"
)

// BlockingKeyer derives a record's blocking keys, satisfied by
// (*blocking.Index).Keys.
type BlockingKeyer interface {
	Keys(r record.Record) []string
}

// CandidateFinder is the slice of Repository that Resolve needs: lookup
// by blocking key, per spec.md §6/§4.2.
type CandidateFinder interface {
	FindByBlockingKeys(ctx context.Context, keys []string) ([]CandidateRecord, error)
}

// CandidateRecord is one repository-held record eligible for
// comparison against a resolve candidate.
type CandidateRecord struct {
	ID     string
	Record record.Record
}

// QueueEnqueuer is the slice of the review queue that Resolve's
// auto-queue side effect needs.
type QueueEnqueuer interface {
	EnqueuePotentialMatch(ctx context.Context, candidate record.Record, matches []PotentialMatch) error
}

// PotentialMatch is one scored candidate offered to the review queue.
type PotentialMatch struct {
	RecordID    string
	Record      record.Record
	Score       Score
	Outcome     Outcome
	Explanation Explanation
}

// ResolveOptions configures one Resolve call.
type ResolveOptions struct {
	Schema      *schema.Schema
	Predictor   Predictor
	RankByScore bool
	AutoQueue   bool
}

// ResolveResult is one candidate-record comparison ranked within a
// Resolve call's results.
type ResolveResult struct {
	RecordID    string
	Record      record.Record
	Score       Score
	Outcome     Outcome
	Explanation Explanation
	Blocked     bool
}

// Resolver composes blocking-key derivation, repository candidate
// lookup, and field scoring into the single-record resolve data flow
// of spec.md §2: candidate -> blocking keys -> find_by_blocking_keys ->
// per-candidate scoring -> classify -> optional fire-and-forget
// auto-queue -> ranked results.
type Resolver struct {
	engine *Engine
	keyer  BlockingKeyer
	finder CandidateFinder
	queue  QueueEnqueuer
	logger ectologger.Logger
}

// NewResolver builds a Resolver. queue may be nil when auto-queueing is
// never requested.
func NewResolver(engine *Engine, keyer BlockingKeyer, finder CandidateFinder, queue QueueEnqueuer, logger ectologger.Logger) *Resolver {
	return &Resolver{engine: engine, keyer: keyer, finder: finder, queue: queue, logger: logger}
}

// Resolve runs the single-record resolve data flow for candidate
// against the configured blocking index and repository.
func (r *Resolver) Resolve(ctx context.Context, candidate record.Record, opts ResolveOptions) ([]ResolveResult, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Engine.Resolve")
	defer span.End()

	log := r.logger.WithContext(ctx)

	keys := r.keyer.Keys(candidate)
	if len(keys) == 0 {
		log.Debug("resolve candidate yielded no blocking keys")
		return nil, nil
	}

	candidates, err := r.finder.FindByBlockingKeys(ctx, keys)
	if err != nil {
		return nil, resolveerr.Wrap(resolveerr.CodeMatch, err, "failed to look up blocking-key candidates").
			WithOperation("resolve")
	}

	results := make([]ResolveResult, 0, len(candidates))
	var potential []PotentialMatch

	for _, c := range candidates {
		var cmpResult Result
		var err error
		switch {
		case opts.Predictor != nil:
			cmpResult, err = r.engine.CompareWithPredictor(candidate, c.Record, opts.Predictor)
		case opts.Schema != nil:
			cmpResult, err = r.engine.CompareWithSchema(candidate, c.Record, *opts.Schema)
		default:
			cmpResult, err = r.engine.Compare(candidate, c.Record)
		}
		if err != nil {
			return nil, resolveerr.Wrap(resolveerr.CodeMatch, err, "comparison failed").
				WithRecordID(c.ID).WithOperation("resolve")
		}

		result := ResolveResult{
			RecordID:    c.ID,
			Record:      c.Record,
			Score:       cmpResult.Score,
			Outcome:     cmpResult.Outcome,
			Explanation: cmpResult.Explanation,
			Blocked:     cmpResult.Blocked,
		}
		results = append(results, result)

		if cmpResult.Outcome == OutcomePotentialMatch {
			potential = append(potential, PotentialMatch{
				RecordID:    c.ID,
				Record:      c.Record,
				Score:       cmpResult.Score,
				Outcome:     cmpResult.Outcome,
				Explanation: cmpResult.Explanation,
			})
		}
	}

	if opts.RankByScore {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Score.TotalScore > results[j].Score.TotalScore
		})
	}

	if opts.AutoQueue && len(potential) > 0 && r.queue != nil {
		// Fire-and-forget per spec.md §9: the queue write must never add
		// to resolve's latency or fail the caller. It runs on a detached
		// goroutine against context.Background so a cancelled caller
		// context can't abort an already-decided enqueue.
		go func(candidate record.Record, matches []PotentialMatch) {
			if err := r.queue.EnqueuePotentialMatch(context.Background(), candidate, matches); err != nil {
				log.WithFields(map[string]any{"error": err.Error()}).Error("auto-queue enqueue failed")
			}
		}(candidate, potential)
	}

	log.WithFields(map[string]any{
		"candidate_count": len(candidates),
		"potential_count": len(potential),
	}).Debug("resolve complete")

	return results, nil
}
