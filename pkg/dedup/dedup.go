// Package dedup implements batch self-deduplication: bucket scan over
// blocking keys, pairwise scoring, union-find cluster formation, and
// reduction statistics, per spec.md §4.4.
package dedup

import (
	"context"
	"sort"

	"github.com/Gobusters/ectologger"

	"github.com/8arr3tt/have-we-met/pkg/blocking"
	"github.com/8arr3tt/have-we-met/pkg/matching"
	"github.com/8arr3tt/have-we-met/pkg/record"
	"github.com/8arr3tt/have-we-met/pkg/tracing"
)

// Pair is one scored comparison with outcome != noMatch.
type Pair struct {
	I, J   int
	Result matching.Result
}

// Stats summarizes one deduplication run, per spec.md §4.4 step 5.
type Stats struct {
	TotalRecords          int
	TotalComparisons      int
	DefiniteMatchesFound  int
	PotentialMatchesFound int
	NoMatchesFound        int
	ReductionRatio        float64
}

// Result is the outcome of one batch deduplication.
type Result struct {
	Pairs    []Pair
	Clusters [][]int // each cluster is ascending record indices, representative = Clusters[i][0]
	Stats    Stats
}

// Deduplicator scores a batch of records against itself using a
// blocking index to bound comparisons and a matching engine to score
// surviving pairs.
type Deduplicator struct {
	logger ectologger.Logger
	index  *blocking.Index
	engine *matching.Engine
}

// New builds a Deduplicator.
func New(logger ectologger.Logger, index *blocking.Index, engine *matching.Engine) *Deduplicator {
	return &Deduplicator{logger: logger, index: index, engine: engine}
}

// Deduplicate runs the full bucket-scan → score → cluster algorithm
// over records.
func (d *Deduplicator) Deduplicate(ctx context.Context, records []record.Record) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "dedup.Deduplicator.Deduplicate")
	defer span.End()

	log := d.logger.WithContext(ctx).WithFields(map[string]any{"record_count": len(records)})

	n := len(records)
	keySets := d.index.KeySets(records)

	buckets := make(map[string][]int)
	for i, keys := range keySets {
		for _, key := range keys {
			buckets[key] = append(buckets[key], i)
		}
	}

	seenPairs := make(map[[2]int]bool)
	var orderedPairIdx [][2]int
	for _, bucket := range buckets {
		for a := 0; a < len(bucket); a++ {
			for b := a + 1; b < len(bucket); b++ {
				i, j := bucket[a], bucket[b]
				if i > j {
					i, j = j, i
				}
				key := [2]int{i, j}
				if seenPairs[key] {
					continue
				}
				seenPairs[key] = true
				orderedPairIdx = append(orderedPairIdx, key)
			}
		}
	}

	sort.Slice(orderedPairIdx, func(a, b int) bool {
		if orderedPairIdx[a][0] != orderedPairIdx[b][0] {
			return orderedPairIdx[a][0] < orderedPairIdx[b][0]
		}
		return orderedPairIdx[a][1] < orderedPairIdx[b][1]
	})

	uf := newUnionFind(n)
	var pairs []Pair
	var definite, potential, noMatch int

	for _, pi := range orderedPairIdx {
		i, j := pi[0], pi[1]
		result, err := d.engine.Compare(records[i], records[j])
		if err != nil {
			return nil, err
		}

		switch result.Outcome {
		case matching.OutcomeDefiniteMatch:
			definite++
			uf.union(i, j)
			pairs = append(pairs, Pair{I: i, J: j, Result: result})
		case matching.OutcomePotentialMatch:
			potential++
			pairs = append(pairs, Pair{I: i, J: j, Result: result})
		default:
			noMatch++
		}
	}

	clusters := buildClusters(uf, n)

	totalComparisons := len(orderedPairIdx)
	maxComparisons := n * (n - 1) / 2
	reductionRatio := 0.0
	if maxComparisons > 0 {
		reductionRatio = 1 - float64(totalComparisons)/float64(maxComparisons)
	}

	stats := Stats{
		TotalRecords:          n,
		TotalComparisons:      totalComparisons,
		DefiniteMatchesFound:  definite,
		PotentialMatchesFound: potential,
		NoMatchesFound:        noMatch,
		ReductionRatio:        reductionRatio,
	}

	log.WithFields(map[string]any{
		"total_comparisons": totalComparisons,
		"cluster_count":     len(clusters),
	}).Info("batch deduplication complete")

	return &Result{Pairs: pairs, Clusters: clusters, Stats: stats}, nil
}

// buildClusters groups indices by their union-find root, each cluster
// sorted ascending, clusters themselves ordered by representative
// (minimum index).
func buildClusters(uf *unionFind, n int) [][]int {
	byRoot := make(map[int][]int)
	for i := 0; i < n; i++ {
		root := uf.find(i)
		byRoot[root] = append(byRoot[root], i)
	}

	clusters := make([][]int, 0, len(byRoot))
	for _, members := range byRoot {
		sort.Ints(members)
		clusters = append(clusters, members)
	}
	sort.Slice(clusters, func(a, b int) bool {
		return clusters[a][0] < clusters[b][0]
	})
	return clusters
}
