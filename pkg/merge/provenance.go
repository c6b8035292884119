package merge

import "time"

// Resolution is the outcome of a detected field conflict, per spec.md
// §3's MergeConflict.resolution enum. It is distinct from
// ConflictResolution, which names the *configured mode* that produced
// the outcome.
type Resolution string

const (
	ResolutionAuto     Resolution = "auto"
	ResolutionDeferred Resolution = "deferred"
	ResolutionManual   Resolution = "manual"
)

// resolutionFor maps a configured ConflictResolution mode to the
// resolution outcome recorded on a Conflict, per spec.md §4.5 step 4:
// useDefault -> auto, markConflict -> deferred.
func resolutionFor(mode ConflictResolution) Resolution {
	switch mode {
	case ConflictUseDefault:
		return ResolutionAuto
	case ConflictMarkConflict:
		return ResolutionDeferred
	default:
		return ResolutionDeferred
	}
}

// FieldProvenance records which source contributed a golden field's
// value and under what strategy.
type FieldProvenance struct {
	SourceRecordID     string
	StrategyApplied    Strategy
	AllValues          []SourceValue
	HadConflict        bool
	ConflictResolution Resolution
}

// SourceValue is one source's raw contribution recorded in provenance.
type SourceValue struct {
	RecordID string
	Value    any
}

// Conflict records a field where ≥2 distinct non-null values existed
// across sources.
type Conflict struct {
	Field            string
	Values           []SourceValue
	Resolution       Resolution
	ResolvedValue    any
	ResolutionReason string
}

// Provenance is the full record of one merge call, retained so the
// merge can be reversed via Unmerge.
type Provenance struct {
	GoldenRecordID  string
	SourceRecordIDs []string
	MergedAt        time.Time
	MergedBy        string
	QueueItemID     string
	FieldSources    map[string]FieldProvenance
	StrategyUsed    Config
	Unmerged        bool
	UnmergedAt      time.Time
	UnmergedBy      string
	UnmergeReason   string
}
