package matching

import "github.com/8arr3tt/have-we-met/pkg/record"

// Mode selects how an optional ML predictor is composed with the
// weighted-field score, per spec.md §4.3.
type Mode string

const (
	// ModeHybrid blends the normalized score and the ML probability:
	// final = (1-w)*normalizedScore + w*probability.
	ModeHybrid Mode = "hybrid"
	// ModeMLOnly classifies using the ML probability thresholds alone;
	// the absolute weighted score is still computed but not used to
	// classify.
	ModeMLOnly Mode = "mlOnly"
	// ModeFallback only invokes the predictor when the weighted score
	// falls in the potentialMatch band, letting a definite ML verdict
	// upgrade or downgrade the outcome.
	ModeFallback Mode = "fallback"
)

// MLConfig configures the optional predictor composition.
type MLConfig struct {
	Mode Mode

	// Weight is w_ml in hybrid mode, in [0,1].
	Weight float64

	// Thresholds, if set, re-expresses the classification boundary in
	// probability space; every mode classifies its probability against
	// it. If nil, both boundaries are 0.5: a probability of at least 0.5
	// is definiteMatch and anything lower is noMatch, so no
	// potentialMatch is produced from the probability.
	Thresholds *ProbabilityThresholds
}

// ProbabilityThresholds are the ML-probability-space equivalents of
// Thresholds, used in every Mode to classify a probability.
type ProbabilityThresholds struct {
	NoMatch       float64
	DefiniteMatch float64
}

// Prediction is what an ML predictor returns for a record pair.
type Prediction struct {
	Probability       float64
	Classification    Outcome
	Confidence        float64
	FeatureImportance map[string]float64
}

// Predictor is the external ML classifier interface the matching engine
// may optionally compose in, per spec.md §6.
type Predictor interface {
	Predict(a, b record.Record) (Prediction, error)
}
