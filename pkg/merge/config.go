// Package merge implements the golden-record merge executor: resolving
// conflicting field values from N source records into one record under
// configurable per-field strategies, recording full field-level
// provenance so merges are reversible.
package merge

import "github.com/8arr3tt/have-we-met/pkg/record"

// Strategy names a built-in merge function.
type Strategy string

const (
	StrategyPreferFirst    Strategy = "preferFirst"
	StrategyPreferLast     Strategy = "preferLast"
	StrategyPreferNonNull  Strategy = "preferNonNull"
	StrategyPreferNewer    Strategy = "preferNewer"
	StrategyPreferOlder    Strategy = "preferOlder"
	StrategyPreferLonger   Strategy = "preferLonger"
	StrategyPreferShorter  Strategy = "preferShorter"
	StrategyConcatenate    Strategy = "concatenate"
	StrategyUnion          Strategy = "union"
	StrategyMostFrequent   Strategy = "mostFrequent"
	StrategyAverage        Strategy = "average"
	StrategySum            Strategy = "sum"
	StrategyMin            Strategy = "min"
	StrategyMax            Strategy = "max"
	StrategySourcePriority Strategy = "sourcePriority"
	StrategyCustom         Strategy = "custom"
)

// NullHandling governs how preferFirst/preferLast treat null values.
type NullHandling string

const (
	NullHandlingSkip       NullHandling = "skip"
	NullHandlingInclude    NullHandling = "include"
	NullHandlingPreferNull NullHandling = "preferNull"
)

// ConflictResolution governs how a detected field conflict is handled.
type ConflictResolution string

const (
	ConflictError        ConflictResolution = "error"
	ConflictUseDefault   ConflictResolution = "useDefault"
	ConflictMarkConflict ConflictResolution = "markConflict"
)

// CustomFunc is the caller-supplied function for StrategyCustom.
type CustomFunc func(values []Value, sources []record.SourceRecord) (any, bool)

// FieldStrategy configures one field's merge strategy and its options.
type FieldStrategy struct {
	Field            string
	Strategy         Strategy
	NullHandling     NullHandling // preferFirst / preferLast
	DateField        string       // preferNewer / preferOlder; "" means SourceRecord.UpdatedAt
	RemoveDuplicates bool         // concatenate
	Custom           CustomFunc   // required when Strategy == StrategyCustom
	// SourcePriority maps a source record id to a priority rank (higher
	// wins) for StrategySourcePriority, grounded in ivy's
	// models.SourcePriority / mostTrusted.
	SourcePriority map[string]int
}

// Config is the full merge configuration for one merge call.
type Config struct {
	FieldStrategies    []FieldStrategy
	DefaultStrategy    Strategy
	TimestampField     string
	TrackProvenance    bool
	ConflictResolution ConflictResolution
}
