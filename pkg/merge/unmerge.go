package merge

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/8arr3tt/have-we-met/pkg/record"
	"github.com/8arr3tt/have-we-met/pkg/resolveerr"
	"github.com/8arr3tt/have-we-met/pkg/tracing"
)

// SourceRecordFetcher resolves source record ids back to their
// original records, as they were at merge time. A merge-aware caller
// typically backs this with the repository's find_by_ids operation.
type SourceRecordFetcher interface {
	FindByIDs(ctx context.Context, ids []string) ([]record.SourceRecord, error)
}

// Unmerger reverses a retained Provenance back into its original
// source records, per spec.md §4.5's Unmerge operation.
type Unmerger struct {
	logger  ectologger.Logger
	fetcher SourceRecordFetcher
}

// NewUnmerger builds an Unmerger.
func NewUnmerger(logger ectologger.Logger, fetcher SourceRecordFetcher) *Unmerger {
	return &Unmerger{logger: logger, fetcher: fetcher}
}

// Unmerge re-hydrates the source records behind prov and marks prov
// unmerged. Fails if provenance is missing (the caller's responsibility
// to supply one) or if the repository reports any source id missing.
func (u *Unmerger) Unmerge(ctx context.Context, prov *Provenance, unmergedBy, reason string) ([]record.SourceRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "merge.Unmerger.Unmerge")
	defer span.End()

	if prov == nil {
		return nil, resolveerr.New(resolveerr.CodeProvenanceNotFound, "provenance is required to unmerge").WithOperation("unmerge")
	}

	log := u.logger.WithContext(ctx).WithFields(map[string]any{
		"golden_record_id": prov.GoldenRecordID,
		"source_count":     len(prov.SourceRecordIDs),
	})

	if prov.Unmerged {
		return nil, resolveerr.New(resolveerr.CodeUnmerge, "golden record already unmerged").
			WithRecordID(prov.GoldenRecordID).WithOperation("unmerge")
	}

	sources, err := u.fetcher.FindByIDs(ctx, prov.SourceRecordIDs)
	if err != nil {
		return nil, resolveerr.Wrap(resolveerr.CodeUnmerge, err, "failed to fetch source records for unmerge").
			WithRecordID(prov.GoldenRecordID).WithOperation("unmerge")
	}

	found := make(map[string]bool, len(sources))
	for _, sr := range sources {
		found[sr.ID] = true
	}
	for _, id := range prov.SourceRecordIDs {
		if !found[id] {
			return nil, resolveerr.New(resolveerr.CodeSourceRecordNotFound, "source record no longer exists").
				WithRecordID(id).WithOperation("unmerge")
		}
	}

	prov.Unmerged = true
	prov.UnmergedAt = time.Now()
	prov.UnmergedBy = unmergedBy
	prov.UnmergeReason = reason

	log.Info("unmerged golden record")

	return sources, nil
}
