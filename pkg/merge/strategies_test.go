package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPreferFirstLast(t *testing.T) {
	values := []Value{{Value: "a"}, {Value: nil}, {Value: "c"}}

	t.Run("preferFirst skips nulls", func(t *testing.T) {
		got, ok := preferFirst(values, FieldStrategy{NullHandling: NullHandlingSkip})
		assert.True(t, ok)
		assert.Equal(t, "a", got)
	})

	t.Run("preferLast skips nulls", func(t *testing.T) {
		got, ok := preferLast(values, FieldStrategy{NullHandling: NullHandlingSkip})
		assert.True(t, ok)
		assert.Equal(t, "c", got)
	})

	t.Run("preferFirst includes nulls by default", func(t *testing.T) {
		got, ok := preferFirst([]Value{{Value: nil}, {Value: "c"}}, FieldStrategy{})
		assert.True(t, ok)
		assert.Nil(t, got)
	})
}

func TestPreferNonNull(t *testing.T) {
	values := []Value{{Value: ""}, {Value: "   "}, {Value: "real"}}
	got, ok := preferNonNull(values, FieldStrategy{})
	assert.True(t, ok)
	assert.Equal(t, "real", got)
}

func TestPreferNewerOlder(t *testing.T) {
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	values := []Value{
		{Value: "John", Timestamp: older},
		{Value: "Jonathan", Timestamp: newer},
	}

	got, ok := preferNewer(values, FieldStrategy{})
	assert.True(t, ok)
	assert.Equal(t, "Jonathan", got)

	got, ok = preferOlder(values, FieldStrategy{})
	assert.True(t, ok)
	assert.Equal(t, "John", got)
}

func TestPreferLongerShorterAsymmetry(t *testing.T) {
	values := []Value{{Value: ""}, {Value: "ab"}, {Value: "a"}}

	t.Run("preferLonger considers empty strings", func(t *testing.T) {
		got, ok := preferLonger(values, FieldStrategy{})
		assert.True(t, ok)
		assert.Equal(t, "ab", got)
	})

	t.Run("preferShorter ignores empty strings", func(t *testing.T) {
		got, ok := preferShorter(values, FieldStrategy{})
		assert.True(t, ok)
		assert.Equal(t, "a", got)
	})
}

func TestConcatenateAndUnion(t *testing.T) {
	values := []Value{
		{Value: []any{"123 Main"}},
		{Value: []any{"456 Oak", "123 Main"}},
	}

	got, ok := union(values, FieldStrategy{})
	assert.True(t, ok)
	assert.Equal(t, []any{"123 Main", "456 Oak"}, got)
}

func TestMostFrequent(t *testing.T) {
	values := []Value{{Value: "a"}, {Value: "b"}, {Value: "a"}}
	got, ok := mostFrequent(values, FieldStrategy{})
	assert.True(t, ok)
	assert.Equal(t, "a", got)
}

func TestNumericAggregations(t *testing.T) {
	values := []Value{{Value: 2.0}, {Value: 4.0}, {Value: 6.0}}

	sumGot, _ := sum(values, FieldStrategy{})
	assert.Equal(t, 12.0, sumGot)

	avgGot, _ := average(values, FieldStrategy{})
	assert.Equal(t, 4.0, avgGot)

	minGot, _ := minStrategy(values, FieldStrategy{})
	assert.Equal(t, 2.0, minGot)

	maxGot, _ := maxStrategy(values, FieldStrategy{})
	assert.Equal(t, 6.0, maxGot)
}

func TestSourcePriority(t *testing.T) {
	values := []Value{
		{SourceID: "a", Value: "low"},
		{SourceID: "b", Value: "high"},
	}
	fs := FieldStrategy{SourcePriority: map[string]int{"a": 1, "b": 10}}
	got, ok := sourcePriority(values, fs)
	assert.True(t, ok)
	assert.Equal(t, "high", got)
}
