package merge

import (
	"fmt"
	"reflect"
	"time"
)

// Value is one source's contribution to a field, paired with the
// timestamp the strategy functions reason about (preferNewer/Older).
type Value struct {
	SourceID  string
	Value     any
	Timestamp time.Time
}

// strategyFunc is the pure (values) -> (result, ok) contract every
// built-in strategy satisfies, per spec.md §4.5. ok is false when the
// strategy has nothing to contribute (e.g. all values null).
type strategyFunc func(values []Value, fs FieldStrategy) (any, bool)

var builtins = map[Strategy]strategyFunc{
	StrategyPreferFirst:    preferFirst,
	StrategyPreferLast:     preferLast,
	StrategyPreferNonNull:  preferNonNull,
	StrategyPreferNewer:    preferNewer,
	StrategyPreferOlder:    preferOlder,
	StrategyPreferLonger:   preferLonger,
	StrategyPreferShorter:  preferShorter,
	StrategyConcatenate:    concatenate,
	StrategyUnion:          union,
	StrategyMostFrequent:   mostFrequent,
	StrategyAverage:        average,
	StrategySum:            sum,
	StrategyMin:            minStrategy,
	StrategyMax:            maxStrategy,
	StrategySourcePriority: sourcePriority,
}

func isNull(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}

func isBlank(v any) bool {
	if isNull(v) {
		return true
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' {
			return false
		}
	}
	return true
}

// preferFirst returns the first value in input order, honoring
// NullHandling for whether nulls are eligible at all.
func preferFirst(values []Value, fs FieldStrategy) (any, bool) {
	for _, v := range values {
		if fs.NullHandling == NullHandlingSkip && isNull(v.Value) {
			continue
		}
		if fs.NullHandling == NullHandlingPreferNull && !isNull(v.Value) {
			continue
		}
		return v.Value, true
	}
	if fs.NullHandling == NullHandlingPreferNull && len(values) > 0 {
		return values[0].Value, true
	}
	return nil, false
}

// preferLast returns the last value in input order, honoring
// NullHandling.
func preferLast(values []Value, fs FieldStrategy) (any, bool) {
	for i := len(values) - 1; i >= 0; i-- {
		v := values[i]
		if fs.NullHandling == NullHandlingSkip && isNull(v.Value) {
			continue
		}
		if fs.NullHandling == NullHandlingPreferNull && !isNull(v.Value) {
			continue
		}
		return v.Value, true
	}
	if fs.NullHandling == NullHandlingPreferNull && len(values) > 0 {
		return values[len(values)-1].Value, true
	}
	return nil, false
}

// preferNonNull returns the first value that is non-null, non-empty,
// and not whitespace-only.
func preferNonNull(values []Value, _ FieldStrategy) (any, bool) {
	for _, v := range values {
		if !isBlank(v.Value) {
			return v.Value, true
		}
	}
	return nil, false
}

// preferNewer returns the value from the source with the max
// timestamp; ties keep the first in input order.
func preferNewer(values []Value, _ FieldStrategy) (any, bool) {
	best := -1
	for i, v := range values {
		if v.Timestamp.IsZero() {
			continue
		}
		if best == -1 || v.Timestamp.After(values[best].Timestamp) {
			best = i
		}
	}
	if best == -1 {
		return nil, false
	}
	return values[best].Value, true
}

// preferOlder is preferNewer's mirror: min timestamp, ties keep first.
func preferOlder(values []Value, _ FieldStrategy) (any, bool) {
	best := -1
	for i, v := range values {
		if v.Timestamp.IsZero() {
			continue
		}
		if best == -1 || v.Timestamp.Before(values[best].Timestamp) {
			best = i
		}
	}
	if best == -1 {
		return nil, false
	}
	return values[best].Value, true
}

// preferLonger returns the longest string value; ties keep the first.
// Unlike preferShorter it does not skip empty strings, per spec.md §9's
// documented asymmetry.
func preferLonger(values []Value, _ FieldStrategy) (any, bool) {
	best := -1
	bestLen := -1
	for i, v := range values {
		if v.Value == nil {
			continue
		}
		s := fmt.Sprintf("%v", v.Value)
		if len(s) > bestLen {
			bestLen = len(s)
			best = i
		}
	}
	if best == -1 {
		return nil, false
	}
	return values[best].Value, true
}

// preferShorter returns the shortest non-empty string value; ties keep
// the first. Empty strings are ignored entirely.
func preferShorter(values []Value, _ FieldStrategy) (any, bool) {
	best := -1
	bestLen := -1
	for i, v := range values {
		s := fmt.Sprintf("%v", v.Value)
		if isNull(v.Value) || s == "" {
			continue
		}
		if bestLen == -1 || len(s) < bestLen {
			bestLen = len(s)
			best = i
		}
	}
	if best == -1 {
		return nil, false
	}
	return values[best].Value, true
}

// concatenate flattens N array-or-scalar values into one array,
// skipping nulls, optionally deduplicating by shallow equality
// (first occurrence wins).
func concatenate(values []Value, fs FieldStrategy) (any, bool) {
	result := make([]any, 0, len(values))
	seen := make(map[string]bool)
	appendValue := func(v any) {
		if isNull(v) {
			return
		}
		key := fmt.Sprintf("%v", v)
		if fs.RemoveDuplicates {
			if seen[key] {
				return
			}
			seen[key] = true
		}
		result = append(result, v)
	}
	for _, v := range values {
		if rv := reflect.ValueOf(v.Value); v.Value != nil && rv.Kind() == reflect.Slice {
			for i := 0; i < rv.Len(); i++ {
				appendValue(rv.Index(i).Interface())
			}
			continue
		}
		appendValue(v.Value)
	}
	if len(result) == 0 {
		return nil, false
	}
	return result, true
}

// union is concatenate with deduplication always on.
func union(values []Value, fs FieldStrategy) (any, bool) {
	fs.RemoveDuplicates = true
	return concatenate(values, fs)
}

// mostFrequent returns the value with the highest occurrence count;
// ties keep the value that appears first in input order.
func mostFrequent(values []Value, _ FieldStrategy) (any, bool) {
	counts := make(map[string]int)
	first := make(map[string]any)
	order := make([]string, 0, len(values))
	for _, v := range values {
		if isNull(v.Value) {
			continue
		}
		key := fmt.Sprintf("%v", v.Value)
		if _, ok := first[key]; !ok {
			first[key] = v.Value
			order = append(order, key)
		}
		counts[key]++
	}
	if len(order) == 0 {
		return nil, false
	}
	bestKey := order[0]
	for _, key := range order[1:] {
		if counts[key] > counts[bestKey] {
			bestKey = key
		}
	}
	return first[bestKey], true
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}

func average(values []Value, _ FieldStrategy) (any, bool) {
	var sum float64
	var count int
	for _, v := range values {
		if n, ok := toNumber(v.Value); ok {
			sum += n
			count++
		}
	}
	if count == 0 {
		return nil, false
	}
	return sum / float64(count), true
}

func sum(values []Value, _ FieldStrategy) (any, bool) {
	var total float64
	var found bool
	for _, v := range values {
		if n, ok := toNumber(v.Value); ok {
			total += n
			found = true
		}
	}
	if !found {
		return nil, false
	}
	return total, true
}

func minStrategy(values []Value, _ FieldStrategy) (any, bool) {
	var best float64
	found := false
	for _, v := range values {
		n, ok := toNumber(v.Value)
		if !ok {
			continue
		}
		if !found || n < best {
			best = n
			found = true
		}
	}
	return best, found
}

func maxStrategy(values []Value, _ FieldStrategy) (any, bool) {
	var best float64
	found := false
	for _, v := range values {
		n, ok := toNumber(v.Value)
		if !ok {
			continue
		}
		if !found || n > best {
			best = n
			found = true
		}
	}
	return best, found
}

// sourcePriority returns the value from the source record with the
// highest configured priority rank; ties keep the first in input
// order. Sources absent from FieldStrategy.SourcePriority rank 0,
// grounded in ivy/pkg/merging.FieldMerger.mostTrusted.
func sourcePriority(values []Value, fs FieldStrategy) (any, bool) {
	best := -1
	bestRank := 0
	for i, v := range values {
		if isNull(v.Value) {
			continue
		}
		rank := fs.SourcePriority[v.SourceID]
		if best == -1 || rank > bestRank {
			best = i
			bestRank = rank
		}
	}
	if best == -1 {
		return nil, false
	}
	return values[best].Value, true
}

// numericOnly reports whether Strategy requires a numeric field type.
func numericOnly(s Strategy) bool {
	switch s {
	case StrategyAverage, StrategySum, StrategyMin, StrategyMax:
		return true
	default:
		return false
	}
}
