package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/8arr3tt/have-we-met/pkg/matching"
	"github.com/8arr3tt/have-we-met/pkg/record"
)

func TestResolveAdapter_EnqueuePotentialMatch(t *testing.T) {
	repo := NewMemoryRepository()
	manager := NewManager(testLogger(), repo, DefaultConfig())
	adapter := NewResolveAdapter(manager)

	candidate := record.Record{"email": "a@example.com"}
	matches := []matching.PotentialMatch{
		{RecordID: "r1", Record: record.Record{"email": "a@example.com"}, Outcome: matching.OutcomePotentialMatch},
	}

	err := adapter.EnqueuePotentialMatch(context.Background(), candidate, matches)
	require.NoError(t, err)

	items, err := repo.FindItems(context.Background(), Filter{Status: []Status{StatusPending}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "r1", items[0].PotentialMatches[0].RecordID)
}
