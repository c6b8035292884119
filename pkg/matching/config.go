package matching

import (
	"github.com/8arr3tt/have-we-met/pkg/resolveerr"
)

// Strategy names a similarity primitive a field is scored with.
type Strategy string

const (
	StrategyExact       Strategy = "exact"
	StrategyJaroWinkler Strategy = "jaro-winkler"
	StrategyLevenshtein Strategy = "levenshtein"
	StrategySoundex     Strategy = "soundex"
)

// FieldConfig configures how a single field is scored.
type FieldConfig struct {
	Field          string
	Strategy       Strategy
	Weight         float64
	FieldThreshold float64 // default 0; similarity must meet this to contribute

	// CaseSensitive only applies to StrategyExact.
	CaseSensitive bool

	// NoMerge blocks automatic merge when this field is the deciding
	// factor in a match, even at a definite-match score — a user rule to
	// prevent merges on a particular field, grounded in
	// ivy/pkg/models.MatchCondition.NoMerge.
	NoMerge bool
}

// Thresholds classify an absolute total score into an outcome, per
// spec.md §4.3: noMatch <= totalScore < definiteMatch is potentialMatch.
type Thresholds struct {
	NoMatch       float64
	DefiniteMatch float64
}

// Config is the full match configuration for one entity type / schema.
type Config struct {
	Fields     []FieldConfig
	Thresholds Thresholds
	ML         *MLConfig // optional
}

// Build validates Config, returning a resolveerr ConfigurationError for
// any of: unknown strategy, negative weight, duplicate field, or
// inverted thresholds (noMatch > definiteMatch). Validation happens once
// at build time, never at match time, per spec.md §7.
func Build(cfg Config) (*Engine, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return newEngine(cfg), nil
}

func validate(cfg Config) error {
	seen := make(map[string]bool, len(cfg.Fields))
	for _, fc := range cfg.Fields {
		if seen[fc.Field] {
			return resolveerr.New(resolveerr.CodeConfiguration, "duplicate field in match config").WithField(fc.Field)
		}
		seen[fc.Field] = true

		switch fc.Strategy {
		case StrategyExact, StrategyJaroWinkler, StrategyLevenshtein, StrategySoundex:
		default:
			return resolveerr.Newf(resolveerr.CodeConfiguration, "unknown match strategy %q", fc.Strategy).WithField(fc.Field)
		}

		if fc.Weight < 0 {
			return resolveerr.New(resolveerr.CodeConfiguration, "field weight must be >= 0").WithField(fc.Field)
		}
		if fc.FieldThreshold < 0 || fc.FieldThreshold > 1 {
			return resolveerr.New(resolveerr.CodeConfiguration, "field threshold must be in [0,1]").WithField(fc.Field)
		}
	}

	if cfg.Thresholds.NoMatch > cfg.Thresholds.DefiniteMatch {
		return resolveerr.New(resolveerr.CodeConfiguration, "thresholds.noMatch must be <= thresholds.definiteMatch")
	}

	if cfg.ML != nil {
		switch cfg.ML.Mode {
		case ModeHybrid, ModeMLOnly, ModeFallback:
		default:
			return resolveerr.Newf(resolveerr.CodeConfiguration, "unknown ml mode %q", cfg.ML.Mode)
		}
		if cfg.ML.Mode == ModeHybrid && (cfg.ML.Weight < 0 || cfg.ML.Weight > 1) {
			return resolveerr.New(resolveerr.CodeConfiguration, "ml weight must be in [0,1] for hybrid mode")
		}
	}

	return nil
}
