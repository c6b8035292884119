package merge

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/8arr3tt/have-we-met/pkg/record"
	"github.com/8arr3tt/have-we-met/pkg/resolveerr"
	"github.com/8arr3tt/have-we-met/pkg/tracing"
)

// Reconciler consolidates golden records incrementally: when a newly
// matched record transitively links two previously separate golden-
// record clusters, it re-merges the union of every original source
// record rather than merging the new record against one golden alone,
// grounded in ivy/pkg/merging.Engine.consolidateClusters.
type Reconciler struct {
	executor *Executor
	fetcher  SourceRecordFetcher
	logger   ectologger.Logger
}

// NewReconciler builds a Reconciler.
func NewReconciler(executor *Executor, fetcher SourceRecordFetcher, logger ectologger.Logger) *Reconciler {
	return &Reconciler{executor: executor, fetcher: fetcher, logger: logger}
}

// Reconcile rehydrates the original source records behind every
// provenance in prior, adds newRecord, and runs them through a single
// Execute call, producing one consolidated golden record that replaces
// all prior ones.
func (r *Reconciler) Reconcile(ctx context.Context, prior []Provenance, newRecord record.SourceRecord, cfg Config, mergedBy, queueItemID string) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "merge.Reconciler.Reconcile")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"prior_cluster_count": len(prior),
	})

	if len(prior) == 0 {
		return nil, resolveerr.New(resolveerr.CodeValidation, "reconcile requires at least one prior golden record").
			WithOperation("reconcile")
	}

	seen := map[string]bool{newRecord.ID: true}
	var ids []string
	for _, prov := range prior {
		for _, id := range prov.SourceRecordIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	sources, err := r.fetcher.FindByIDs(ctx, ids)
	if err != nil {
		return nil, resolveerr.Wrap(resolveerr.CodeMergeConflict, err, "failed to fetch prior source records for reconcile").
			WithOperation("reconcile")
	}
	sources = append(sources, newRecord)

	log.WithFields(map[string]any{"consolidated_source_count": len(sources)}).Info("reconciling transitively linked clusters")

	return r.executor.Execute(ctx, Request{
		SourceRecords: sources,
		Config:        cfg,
		MergedBy:      mergedBy,
		QueueItemID:   queueItemID,
	})
}
