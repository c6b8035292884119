package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/8arr3tt/have-we-met/pkg/record"
)

type stubPredictor struct {
	prediction Prediction
	err        error
}

func (s stubPredictor) Predict(a, b record.Record) (Prediction, error) {
	return s.prediction, s.err
}

func buildMLEngine(t *testing.T, ml MLConfig) *Engine {
	t.Helper()
	engine, err := Build(Config{
		Fields: []FieldConfig{
			{Field: "email", Strategy: StrategyExact, Weight: 20},
			{Field: "name", Strategy: StrategyJaroWinkler, Weight: 10, FieldThreshold: 0.9},
		},
		Thresholds: Thresholds{NoMatch: 10, DefiniteMatch: 25},
		ML:         &ml,
	})
	require.NoError(t, err)
	return engine
}

func TestComposeML_Hybrid(t *testing.T) {
	engine := buildMLEngine(t, MLConfig{Mode: ModeHybrid, Weight: 0.5})

	// email-only match lands the base score at 20/30 = 0.667 normalized;
	// blending with a low ML probability should pull the outcome down.
	predictor := stubPredictor{prediction: Prediction{Probability: 0.0}}
	result, err := engine.CompareWithPredictor(
		record.Record{"email": "a@example.com", "name": "Jon"},
		record.Record{"email": "a@example.com", "name": "Completely Different"},
		predictor,
	)
	require.NoError(t, err)
	assert.True(t, result.Explanation.MLApplied)
	assert.InDelta(t, 0.0, result.Explanation.MLProbability, 0.0001)
	assert.Equal(t, OutcomeNoMatch, result.Outcome, "blended score (0.667+0)/2=0.33 falls below the 0.5 noMatch boundary")
}

func TestComposeML_MLOnly(t *testing.T) {
	engine := buildMLEngine(t, MLConfig{Mode: ModeMLOnly})

	predictor := stubPredictor{prediction: Prediction{Probability: 0.95}}
	result, err := engine.CompareWithPredictor(
		record.Record{"email": "a@example.com"},
		record.Record{"email": "b@example.com"},
		predictor,
	)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDefiniteMatch, result.Outcome, "ml-only mode classifies from the probability alone, ignoring the field mismatch")
}

func TestComposeML_Fallback(t *testing.T) {
	engine := buildMLEngine(t, MLConfig{Mode: ModeFallback})

	t.Run("definite base match is unaffected by the predictor", func(t *testing.T) {
		predictor := stubPredictor{prediction: Prediction{Probability: 0.01}}
		result, err := engine.CompareWithPredictor(
			record.Record{"email": "same@example.com", "name": "Jane"},
			record.Record{"email": "same@example.com", "name": "Jane"},
			predictor,
		)
		require.NoError(t, err)
		assert.Equal(t, OutcomeDefiniteMatch, result.Outcome)
	})

	t.Run("potential base match can be upgraded by a confident predictor", func(t *testing.T) {
		predictor := stubPredictor{prediction: Prediction{Probability: 0.99}}
		result, err := engine.CompareWithPredictor(
			record.Record{"email": "same@example.com", "name": "Jon"},
			record.Record{"email": "same@example.com", "name": "Totally Different"},
			predictor,
		)
		require.NoError(t, err)
		assert.Equal(t, OutcomePotentialMatch, engine.Classify(20), "sanity: base score alone is potentialMatch")
		assert.Equal(t, OutcomeDefiniteMatch, result.Outcome, "fallback lets a confident ml verdict upgrade a potential match")
	})
}

func TestComposeML_PredictorError(t *testing.T) {
	engine := buildMLEngine(t, MLConfig{Mode: ModeHybrid, Weight: 0.5})
	predictor := stubPredictor{err: assert.AnError}

	_, err := engine.CompareWithPredictor(record.Record{"email": "a@example.com"}, record.Record{"email": "b@example.com"}, predictor)
	require.Error(t, err)
}
