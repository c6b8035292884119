package merge

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/8arr3tt/have-we-met/pkg/record"
	"github.com/8arr3tt/have-we-met/pkg/resolveerr"
	"github.com/8arr3tt/have-we-met/pkg/schema"
	"github.com/8arr3tt/have-we-met/pkg/tracing"
)

// Result is the outcome of one merge call, per spec.md §3/§4.5.
type Result struct {
	GoldenRecord   record.Record
	GoldenRecordID string
	Provenance     Provenance
	Conflicts      []Conflict
	Stats          Stats
}

// Stats summarizes one merge call.
type Stats struct {
	SourceCount    int
	FieldCount     int
	ConflictCount  int
	NoMergeSkipped int
}

// Request is the input to Execute.
type Request struct {
	SourceRecords []record.SourceRecord
	Config        Config
	Schema        schema.Schema // optional; enables numeric-strategy validation against field types
	TargetID      string        // optional; generated if empty
	MergedBy      string
	QueueItemID   string
}

// Executor runs merge requests against a configured strategy registry.
type Executor struct {
	logger ectologger.Logger
}

// NewExecutor builds an Executor.
func NewExecutor(logger ectologger.Logger) *Executor {
	return &Executor{logger: logger}
}

// Execute merges ≥2 source records into one golden record per
// spec.md §4.5.
func (e *Executor) Execute(ctx context.Context, req Request) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "merge.Executor.Execute")
	defer span.End()

	log := e.logger.WithContext(ctx).WithFields(map[string]any{
		"source_count": len(req.SourceRecords),
	})

	if len(req.SourceRecords) < 2 {
		return nil, resolveerr.New(resolveerr.CodeValidation, "merge requires at least two source records").
			WithOperation("merge")
	}

	if err := Validate(req.Config, req.Schema); err != nil {
		return nil, err
	}

	seenIDs := make(map[string]bool, len(req.SourceRecords))
	for _, sr := range req.SourceRecords {
		if sr.ID == "" {
			return nil, resolveerr.New(resolveerr.CodeValidation, "source record missing id").WithOperation("merge")
		}
		if seenIDs[sr.ID] {
			return nil, resolveerr.New(resolveerr.CodeValidation, "duplicate source record id").
				WithRecordID(sr.ID).WithOperation("merge")
		}
		seenIDs[sr.ID] = true
	}

	strategyMap := make(map[string]FieldStrategy, len(req.Config.FieldStrategies))
	for _, fs := range req.Config.FieldStrategies {
		strategyMap[fs.Field] = fs
	}

	fields := unionFieldPaths(req.SourceRecords)

	fieldSources := make(map[string]FieldProvenance, len(fields))
	var conflicts []Conflict
	noMergeSkipped := 0
	golden := record.Record{}

	for _, field := range fields {
		fs, hasOverride := strategyMap[field]
		if !hasOverride {
			fs = FieldStrategy{Field: field, Strategy: req.Config.DefaultStrategy}
		}

		timestampField := fs.DateField
		if timestampField == "" {
			timestampField = req.Config.TimestampField
		}
		values := e.collectValues(req.SourceRecords, field, timestampField)
		if len(values) == 0 {
			continue
		}

		conflict := detectConflict(field, values)
		if fs.Strategy == StrategyUnion || fs.Strategy == StrategyConcatenate {
			// These strategies keep every source's values, so differing
			// inputs are combined rather than in conflict.
			conflict = nil
		}
		if conflict != nil {
			if req.Config.ConflictResolution == ConflictError {
				return nil, resolveerr.New(resolveerr.CodeMergeConflict, "conflicting values for field").
					WithField(field).WithOperation("merge")
			}
			conflict.Resolution = resolutionFor(req.Config.ConflictResolution)
		}

		result, ok := e.apply(fs, values)
		if !ok {
			noMergeSkipped++
			continue
		}

		if conflict != nil {
			conflict.ResolvedValue = result
			conflicts = append(conflicts, *conflict)
		}

		var err error
		golden, err = record.SetStrict(golden, field, result)
		if err != nil {
			return nil, resolveerr.Wrap(resolveerr.CodeValidation, err, "structural conflict assembling golden record").
				WithField(field).WithOperation("merge")
		}

		fieldProv := FieldProvenance{
			SourceRecordID:  winningSourceID(values, result),
			StrategyApplied: fs.Strategy,
			AllValues:       toSourceValues(values),
			HadConflict:     conflict != nil,
		}
		if conflict != nil {
			fieldProv.ConflictResolution = conflict.Resolution
		}
		fieldSources[field] = fieldProv
	}

	goldenID := req.TargetID
	if goldenID == "" {
		goldenID = uuid.New().String()
	}

	sourceIDs := make([]string, len(req.SourceRecords))
	for i, sr := range req.SourceRecords {
		sourceIDs[i] = sr.ID
	}

	provenance := Provenance{
		GoldenRecordID:  goldenID,
		SourceRecordIDs: sourceIDs,
		MergedAt:        time.Now(),
		MergedBy:        req.MergedBy,
		QueueItemID:     req.QueueItemID,
		FieldSources:    fieldSources,
		StrategyUsed:    req.Config,
	}

	log.WithFields(map[string]any{
		"golden_record_id": goldenID,
		"field_count":      len(fieldSources),
		"conflict_count":   len(conflicts),
	}).Info("merged source records")

	return &Result{
		GoldenRecord:   golden,
		GoldenRecordID: goldenID,
		Provenance:     provenance,
		Conflicts:      conflicts,
		Stats: Stats{
			SourceCount:    len(req.SourceRecords),
			FieldCount:     len(fieldSources),
			ConflictCount:  len(conflicts),
			NoMergeSkipped: noMergeSkipped,
		},
	}, nil
}

// apply dispatches to the built-in strategy or the custom hook.
func (e *Executor) apply(fs FieldStrategy, values []Value) (any, bool) {
	if fs.Strategy == StrategyCustom {
		if fs.Custom == nil {
			return nil, false
		}
		return fs.Custom(values, nil)
	}
	fn, ok := builtins[fs.Strategy]
	if !ok {
		fn = builtins[StrategyPreferNonNull]
	}
	return fn(values, fs)
}

// collectValues gathers one field's values across all sources in input
// order, skipping sources where the field is absent. Timestamps used by
// preferNewer/preferOlder come from the field's own DateField override if
// set, else Config.TimestampField, else the source record's UpdatedAt.
func (e *Executor) collectValues(sources []record.SourceRecord, field, timestampField string) []Value {
	values := make([]Value, 0, len(sources))
	for _, sr := range sources {
		v, ok := record.Get(sr.Record, field)
		if !ok {
			continue
		}
		ts := sr.UpdatedAt
		if timestampField != "" {
			if raw, ok := record.Get(sr.Record, timestampField); ok {
				if t, ok := raw.(time.Time); ok {
					ts = t
				}
			}
		}
		values = append(values, Value{SourceID: sr.ID, Value: v, Timestamp: ts})
	}
	return values
}

// unionFieldPaths collects the union of field paths across all source
// records, ordered by first appearance, per spec.md §4.5's determinism
// clause.
func unionFieldPaths(sources []record.SourceRecord) []string {
	seen := make(map[string]bool)
	var order []string
	for _, sr := range sources {
		for _, path := range record.Paths(sr.Record) {
			if !seen[path] {
				seen[path] = true
				order = append(order, path)
			}
		}
	}
	return order
}

// detectConflict reports a Conflict when ≥2 distinct non-null values
// exist for a field.
func detectConflict(field string, values []Value) *Conflict {
	distinct := make(map[string]bool)
	for _, v := range values {
		if isNull(v.Value) {
			continue
		}
		distinct[shallowKey(v.Value)] = true
	}
	if len(distinct) < 2 {
		return nil
	}
	return &Conflict{Field: field, Values: toSourceValues(values)}
}

// winningSourceID is the first source whose value shallow-equals the
// strategy's chosen result.
func winningSourceID(values []Value, result any) string {
	resultKey := shallowKey(result)
	for _, v := range values {
		if shallowKey(v.Value) == resultKey {
			return v.SourceID
		}
	}
	if len(values) > 0 {
		return values[0].SourceID
	}
	return ""
}

func toSourceValues(values []Value) []SourceValue {
	out := make([]SourceValue, len(values))
	for i, v := range values {
		out[i] = SourceValue{RecordID: v.SourceID, Value: v.Value}
	}
	return out
}
