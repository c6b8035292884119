package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/8arr3tt/have-we-met/pkg/record"
)

func buildS1Engine(t *testing.T) *Engine {
	t.Helper()
	engine, err := Build(Config{
		Fields: []FieldConfig{
			{Field: "firstName", Strategy: StrategyJaroWinkler, Weight: 10, FieldThreshold: 0.85},
			{Field: "lastName", Strategy: StrategyJaroWinkler, Weight: 10, FieldThreshold: 0.85},
			{Field: "email", Strategy: StrategyExact, Weight: 20},
			{Field: "phone", Strategy: StrategyExact, Weight: 15},
			{Field: "dateOfBirth", Strategy: StrategyExact, Weight: 10},
		},
		Thresholds: Thresholds{NoMatch: 20, DefiniteMatch: 45},
	})
	require.NoError(t, err)
	return engine
}

// TestEngine_DefiniteMatch mirrors spec.md scenario S1.
func TestEngine_DefiniteMatch(t *testing.T) {
	engine := buildS1Engine(t)

	r := record.Record{
		"firstName":   "John",
		"lastName":    "Smith",
		"email":       "john.doe@example.com",
		"phone":       "+1-555-0100",
		"dateOfBirth": "1985-03-15",
	}

	result, err := engine.Compare(r, r)
	require.NoError(t, err)

	assert.Equal(t, OutcomeDefiniteMatch, result.Outcome)
	assert.InDelta(t, 65.0, result.Score.TotalScore, 0.001)
	assert.InDelta(t, 1.0, result.Score.NormalizedScore, 0.001)
}

// TestEngine_PotentialMatchWithTypos mirrors spec.md scenario S2.
func TestEngine_PotentialMatchWithTypos(t *testing.T) {
	engine := buildS1Engine(t)

	candidate := record.Record{
		"firstName":   "Jon",
		"lastName":    "Smyth",
		"email":       "john.doe@example.com",
		"phone":       "+1-555-0200",
		"dateOfBirth": "1985-03-20",
	}
	existing := record.Record{
		"firstName":   "John",
		"lastName":    "Smith",
		"email":       "john.doe@example.com",
		"phone":       "+1-555-0100",
		"dateOfBirth": "1985-03-15",
	}

	result, err := engine.Compare(candidate, existing)
	require.NoError(t, err)

	assert.Equal(t, OutcomePotentialMatch, result.Outcome)
	assert.InDelta(t, 38.2, result.Score.TotalScore, 0.1)
}

func TestEngine_NoMatch(t *testing.T) {
	engine := buildS1Engine(t)

	candidate := record.Record{
		"firstName":   "Alice",
		"lastName":    "Anderson",
		"email":       "alice@example.com",
		"phone":       "+1-555-9999",
		"dateOfBirth": "1990-01-01",
	}
	existing := record.Record{
		"firstName":   "Bob",
		"lastName":    "Brennan",
		"email":       "bob@example.com",
		"phone":       "+1-555-1111",
		"dateOfBirth": "1970-07-07",
	}

	result, err := engine.Compare(candidate, existing)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoMatch, result.Outcome)
}

// TestEngine_MissingFieldsDoNotContribute checks that a missing field on
// either side scores 0 and is reported via Explanation.MissingFields.
func TestEngine_MissingFieldsDoNotContribute(t *testing.T) {
	engine := buildS1Engine(t)

	candidate := record.Record{
		"firstName": "John",
		"lastName":  "Smith",
		"email":     "john.doe@example.com",
	}
	existing := record.Record{
		"firstName":   "John",
		"lastName":    "Smith",
		"email":       "john.doe@example.com",
		"phone":       "+1-555-0100",
		"dateOfBirth": "1985-03-15",
	}

	result, err := engine.Compare(candidate, existing)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"phone", "dateOfBirth"}, result.Explanation.MissingFields)
	assert.InDelta(t, 40.0, result.Score.TotalScore, 0.001)
}

// TestEngine_ScoreBoundsAndSymmetry checks testable properties 1 and 2.
func TestEngine_ScoreBoundsAndSymmetry(t *testing.T) {
	engine := buildS1Engine(t)

	a := record.Record{
		"firstName":   "Jon",
		"lastName":    "Smyth",
		"email":       "john.doe@example.com",
		"phone":       "+1-555-0200",
		"dateOfBirth": "1985-03-20",
	}
	b := record.Record{
		"firstName":   "John",
		"lastName":    "Smith",
		"email":       "john.doe@example.com",
		"phone":       "+1-555-0100",
		"dateOfBirth": "1985-03-15",
	}

	forward := engine.Score(a, b)
	backward := engine.Score(b, a)

	assert.GreaterOrEqual(t, forward.TotalScore, 0.0)
	assert.LessOrEqual(t, forward.TotalScore, forward.MaxPossibleScore)
	assert.GreaterOrEqual(t, forward.NormalizedScore, 0.0)
	assert.LessOrEqual(t, forward.NormalizedScore, 1.0)
	assert.InDelta(t, forward.TotalScore, backward.TotalScore, 0.0001, "jaro-winkler and exact are symmetric")
}

func TestBuild_RejectsInvertedThresholds(t *testing.T) {
	_, err := Build(Config{
		Fields:     []FieldConfig{{Field: "email", Strategy: StrategyExact, Weight: 10}},
		Thresholds: Thresholds{NoMatch: 50, DefiniteMatch: 10},
	})
	require.Error(t, err)
}

func TestBuild_RejectsDuplicateField(t *testing.T) {
	_, err := Build(Config{
		Fields: []FieldConfig{
			{Field: "email", Strategy: StrategyExact, Weight: 10},
			{Field: "email", Strategy: StrategyExact, Weight: 5},
		},
		Thresholds: Thresholds{NoMatch: 1, DefiniteMatch: 2},
	})
	require.Error(t, err)
}
