package merge

import (
	"github.com/8arr3tt/have-we-met/pkg/resolveerr"
	"github.com/8arr3tt/have-we-met/pkg/schema"
)

// Validate rejects a Config at configuration build time rather than
// letting Executor.apply silently skip the offending field at merge
// time: a numeric-only strategy (average/sum/min/max) assigned to a
// non-numeric schema field, a custom strategy with no Custom function,
// or an unknown strategy / conflict-resolution name, per spec.md
// §4.5/§7 ("detected at build(); never surfaces at runtime"). sch may
// be the zero Schema when field types aren't known ahead of the merge
// call; in that case only the schema-independent checks run.
func Validate(cfg Config, sch schema.Schema) error {
	seen := make(map[string]bool, len(cfg.FieldStrategies))
	for _, fs := range cfg.FieldStrategies {
		if seen[fs.Field] {
			return resolveerr.New(resolveerr.CodeConfiguration, "duplicate field in merge config").WithField(fs.Field)
		}
		seen[fs.Field] = true

		if err := validateFieldStrategy(fs.Field, fs.Strategy, fs.Custom, sch); err != nil {
			return err
		}
	}

	if cfg.DefaultStrategy != "" {
		if cfg.DefaultStrategy == StrategyCustom {
			return resolveerr.New(resolveerr.CodeConfiguration, "default strategy cannot be custom; custom requires a per-field Custom function")
		}
		if _, ok := builtins[cfg.DefaultStrategy]; !ok {
			return resolveerr.Newf(resolveerr.CodeConfiguration, "unknown default merge strategy %q", cfg.DefaultStrategy)
		}
		for _, field := range sch.Fields {
			if seen[field] {
				continue
			}
			if numericOnly(cfg.DefaultStrategy) && !schema.IsNumeric(sch, field) {
				return resolveerr.Newf(resolveerr.CodeConfiguration, "default strategy %q requires a numeric field type", cfg.DefaultStrategy).WithField(field)
			}
		}
	}

	switch cfg.ConflictResolution {
	case "", ConflictError, ConflictUseDefault, ConflictMarkConflict:
	default:
		return resolveerr.Newf(resolveerr.CodeConfiguration, "unknown conflict resolution %q", cfg.ConflictResolution)
	}

	return nil
}

func validateFieldStrategy(field string, strategy Strategy, custom CustomFunc, sch schema.Schema) error {
	if strategy == StrategyCustom {
		if custom == nil {
			return resolveerr.New(resolveerr.CodeConfiguration, "custom strategy requires a Custom function").WithField(field)
		}
		return nil
	}

	if _, ok := builtins[strategy]; !ok {
		return resolveerr.Newf(resolveerr.CodeConfiguration, "unknown merge strategy %q", strategy).WithField(field)
	}

	if numericOnly(strategy) && len(sch.Fields) > 0 && !schema.IsNumeric(sch, field) {
		return resolveerr.Newf(resolveerr.CodeConfiguration, "strategy %q requires a numeric field type", strategy).WithField(field)
	}

	return nil
}
