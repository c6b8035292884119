package merge

import (
	"context"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/8arr3tt/have-we-met/pkg/record"
)

type fakeFetcher struct {
	bySourceID map[string]record.SourceRecord
}

func (f fakeFetcher) FindByIDs(ctx context.Context, ids []string) ([]record.SourceRecord, error) {
	out := make([]record.SourceRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.bySourceID[id])
	}
	return out, nil
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

// TestReconciler_ConsolidatesTransitivelyLinkedClusters covers the case
// where a new record matches two records that were previously merged
// into two separate golden records: reconcile must fold all four
// original sources into a single golden record.
func TestReconciler_ConsolidatesTransitivelyLinkedClusters(t *testing.T) {
	fetcher := fakeFetcher{bySourceID: map[string]record.SourceRecord{
		"a": {ID: "a", Record: record.Record{"name": "Alpha"}, UpdatedAt: time.Unix(1, 0)},
		"b": {ID: "b", Record: record.Record{"name": "Alpha Inc"}, UpdatedAt: time.Unix(2, 0)},
		"c": {ID: "c", Record: record.Record{"name": "A.corp"}, UpdatedAt: time.Unix(3, 0)},
	}}

	priorClusters := []Provenance{
		{GoldenRecordID: "g1", SourceRecordIDs: []string{"a", "b"}},
		{GoldenRecordID: "g2", SourceRecordIDs: []string{"c"}},
	}
	newRecord := record.SourceRecord{ID: "d", Record: record.Record{"name": "Alpha Incorporated"}, UpdatedAt: time.Unix(4, 0)}

	exec := NewExecutor(testLogger())
	reconciler := NewReconciler(exec, fetcher, testLogger())

	cfg := Config{DefaultStrategy: StrategyPreferNewer, TimestampField: "", ConflictResolution: ConflictUseDefault}
	result, err := reconciler.Reconcile(context.Background(), priorClusters, newRecord, cfg, "consolidator", "")
	require.NoError(t, err)

	assert.Equal(t, 4, result.Stats.SourceCount)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, result.Provenance.SourceRecordIDs)
	assert.Equal(t, "Alpha Incorporated", result.GoldenRecord["name"])
}

func TestReconciler_RequiresAtLeastOnePriorCluster(t *testing.T) {
	exec := NewExecutor(testLogger())
	reconciler := NewReconciler(exec, fakeFetcher{}, testLogger())

	_, err := reconciler.Reconcile(context.Background(), nil, record.SourceRecord{ID: "x"}, Config{}, "", "")
	require.Error(t, err)
}
