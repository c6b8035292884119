// Package matching implements the weighted, explainable similarity
// scoring and outcome classification specified in spec.md §4.3.
package matching

import (
	"github.com/8arr3tt/have-we-met/pkg/record"
	"github.com/8arr3tt/have-we-met/pkg/schema"
	"github.com/8arr3tt/have-we-met/pkg/similarity"
)

// Outcome classifies a comparison against the configured thresholds.
type Outcome string

const (
	OutcomeNoMatch        Outcome = "noMatch"
	OutcomePotentialMatch Outcome = "potentialMatch"
	OutcomeDefiniteMatch  Outcome = "definiteMatch"
)

// FieldScore is the per-field scoring breakdown, per spec.md §3.
type FieldScore struct {
	Field        string
	Similarity   float64
	Weight       float64
	Contribution float64
	MetThreshold bool
	Missing      bool
}

// Score is the aggregate scoring result, per spec.md §3: TotalScore is
// the sum of contributions, MaxPossibleScore the sum of weights,
// NormalizedScore their ratio (0 when the denominator is 0).
type Score struct {
	TotalScore       float64
	MaxPossibleScore float64
	NormalizedScore  float64
	FieldScores      []FieldScore
}

// Explanation is a first-class, returned breakdown of why a comparison
// was classified the way it was — never just a log line, per spec.md
// §4.3.
type Explanation struct {
	FieldScores   []FieldScore
	MissingFields []string
	MLApplied     bool
	MLProbability float64
}

// Result is the outcome of comparing a candidate against one existing
// record.
type Result struct {
	CandidateRecord record.Record
	Score           Score
	Outcome         Outcome
	Explanation     Explanation

	// Blocked is true when a NoMerge field config drove the match,
	// indicating the pair must not be auto-merged even if Outcome is
	// OutcomeDefiniteMatch, per the supplemented no-merge-rule behavior
	// in SPEC_FULL.md.
	Blocked bool
}

// Engine scores record pairs against a built, validated Config.
type Engine struct {
	cfg    Config
	scorer similarity.Scorer
}

func newEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg, scorer: similarity.Default}
}

// Score compares a and b field by field per the engine's Config,
// independent of classification or schema-aware normalization (callers
// that have a schema should use ScoreWithSchema so normalizers apply).
func (e *Engine) Score(a, b record.Record) Score {
	return e.score(a, b, nil)
}

// ScoreWithSchema is like Score but normalizes each field's raw value
// through the schema's domain normalizer before comparison, per spec.md
// §4.1.
func (e *Engine) ScoreWithSchema(a, b record.Record, sch schema.Schema) Score {
	return e.score(a, b, &sch)
}

func (e *Engine) score(a, b record.Record, sch *schema.Schema) Score {
	fieldScores := make([]FieldScore, 0, len(e.cfg.Fields))
	var total, maxPossible float64

	for _, fc := range e.cfg.Fields {
		maxPossible += fc.Weight

		av, aok := record.GetString(a, fc.Field)
		bv, bok := record.GetString(b, fc.Field)
		if !aok || !bok {
			fieldScores = append(fieldScores, FieldScore{Field: fc.Field, Missing: true})
			continue
		}

		if sch != nil {
			if desc, ok := sch.Get(fc.Field); ok {
				av = schema.Normalize(desc, av)
				bv = schema.Normalize(desc, bv)
			}
		}

		sim := e.similarity(fc, av, bv)
		fs := FieldScore{Field: fc.Field, Similarity: sim, Weight: fc.Weight}
		if sim >= fc.FieldThreshold {
			fs.Contribution = fc.Weight * sim
			fs.MetThreshold = true
			total += fs.Contribution
		}
		fieldScores = append(fieldScores, fs)
	}

	normalized := 0.0
	if maxPossible > 0 {
		normalized = total / maxPossible
	}

	return Score{
		TotalScore:       total,
		MaxPossibleScore: maxPossible,
		NormalizedScore:  normalized,
		FieldScores:      fieldScores,
	}
}

func (e *Engine) similarity(fc FieldConfig, a, b string) float64 {
	switch fc.Strategy {
	case StrategyExact:
		return e.scorer.Exact(a, b, fc.CaseSensitive)
	case StrategyJaroWinkler:
		return e.scorer.JaroWinkler(a, b)
	case StrategyLevenshtein:
		return e.scorer.Levenshtein(a, b)
	case StrategySoundex:
		return e.scorer.SoundexMatch(a, b)
	default:
		return 0.0
	}
}

// Classify maps an absolute total score to an Outcome per spec.md §4.3
// step 5: definiteMatch if totalScore >= thresholds.definiteMatch,
// noMatch if totalScore < thresholds.noMatch, else potentialMatch.
func (e *Engine) Classify(totalScore float64) Outcome {
	if totalScore >= e.cfg.Thresholds.DefiniteMatch {
		return OutcomeDefiniteMatch
	}
	if totalScore < e.cfg.Thresholds.NoMatch {
		return OutcomeNoMatch
	}
	return OutcomePotentialMatch
}

// Compare scores a and b, classifies the outcome (optionally composing
// an ML predictor per e.cfg.ML), and returns a full Result with
// explanation.
func (e *Engine) Compare(a, b record.Record) (Result, error) {
	return e.compare(a, b, nil, nil)
}

// CompareWithSchema is like Compare but normalizes fields via sch first.
func (e *Engine) CompareWithSchema(a, b record.Record, sch schema.Schema) (Result, error) {
	return e.compare(a, b, &sch, nil)
}

// CompareWithPredictor is like Compare but composes an ML predictor per
// e.cfg.ML's configured Mode.
func (e *Engine) CompareWithPredictor(a, b record.Record, predictor Predictor) (Result, error) {
	return e.compare(a, b, nil, predictor)
}

func (e *Engine) compare(a, b record.Record, sch *schema.Schema, predictor Predictor) (Result, error) {
	score := e.score(a, b, sch)
	outcome := e.Classify(score.TotalScore)

	explanation := Explanation{FieldScores: score.FieldScores}
	for _, fs := range score.FieldScores {
		if fs.Missing {
			explanation.MissingFields = append(explanation.MissingFields, fs.Field)
		}
	}

	blocked := false
	for _, fs := range score.FieldScores {
		if !fs.Missing && fs.MetThreshold {
			if fc := e.fieldConfig(fs.Field); fc != nil && fc.NoMerge {
				blocked = true
			}
		}
	}

	if e.cfg.ML != nil && predictor != nil && (e.cfg.ML.Mode != ModeFallback || outcome == OutcomePotentialMatch) {
		pred, err := predictor.Predict(a, b)
		if err != nil {
			return Result{}, err
		}
		outcome = e.composeML(outcome, score, pred, &explanation)
	}

	return Result{
		CandidateRecord: b,
		Score:           score,
		Outcome:         outcome,
		Explanation:     explanation,
		Blocked:         blocked,
	}, nil
}

func (e *Engine) fieldConfig(field string) *FieldConfig {
	for i := range e.cfg.Fields {
		if e.cfg.Fields[i].Field == field {
			return &e.cfg.Fields[i]
		}
	}
	return nil
}

func (e *Engine) composeML(baseOutcome Outcome, score Score, pred Prediction, explanation *Explanation) Outcome {
	explanation.MLApplied = true
	explanation.MLProbability = pred.Probability

	thresholds := ProbabilityThresholds{NoMatch: 0.5, DefiniteMatch: 0.5}
	if e.cfg.ML.Thresholds != nil {
		thresholds = *e.cfg.ML.Thresholds
	}

	classifyProbability := func(p float64) Outcome {
		if p >= thresholds.DefiniteMatch {
			return OutcomeDefiniteMatch
		}
		if p < thresholds.NoMatch {
			return OutcomeNoMatch
		}
		return OutcomePotentialMatch
	}

	switch e.cfg.ML.Mode {
	case ModeMLOnly:
		return classifyProbability(pred.Probability)

	case ModeHybrid:
		w := e.cfg.ML.Weight
		blended := (1-w)*score.NormalizedScore + w*pred.Probability
		return classifyProbability(blended)

	case ModeFallback:
		if baseOutcome != OutcomePotentialMatch {
			return baseOutcome
		}
		mlOutcome := classifyProbability(pred.Probability)
		if mlOutcome == OutcomeDefiniteMatch || mlOutcome == OutcomeNoMatch {
			return mlOutcome
		}
		return baseOutcome

	default:
		return baseOutcome
	}
}
