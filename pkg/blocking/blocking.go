// Package blocking derives the set of blocking keys for a record, per
// spec.md §4.2: grouping records that share a transformed key so the
// matching engine never has to compare every pair. The index itself is
// stateless — persistence and lookup by key live behind the
// repository.Repository contract consumed elsewhere.
package blocking

import (
	"strings"

	"github.com/8arr3tt/have-we-met/pkg/record"
	"github.com/8arr3tt/have-we-met/pkg/resolveerr"
	"github.com/8arr3tt/have-we-met/pkg/schema"
	"github.com/8arr3tt/have-we-met/pkg/similarity"
)

// Transform is a named key-derivation transform applied to a single
// field's normalized value.
type Transform string

const (
	TransformExact       Transform = "exact"
	TransformLowercase   Transform = "lowercase"
	TransformSoundex     Transform = "soundex"
	TransformFirstLetter Transform = "first_letter"
	TransformFirstN      Transform = "first_n" // requires N > 0
)

// fieldClause is a single field+transform pair within a (possibly
// multi-field) BlockingClause.
type fieldClause struct {
	Field     string
	Transform Transform
	N         int // only meaningful for TransformFirstN
}

// BlockingClause derives one blocking key from one or more fields. A
// single-field clause has len(fields) == 1; a multi-field clause joins
// its component keys with a reserved, non-printable separator and only
// emits a key when every component field is present.
type BlockingClause struct {
	fields []fieldClause
}

// keySeparator joins multi-field clause components. It is a non-printable
// byte so it can never collide with a transformed field value.
const keySeparator = "\x1f"

// Field creates a single-field blocking clause.
func Field(field string, transform Transform) BlockingClause {
	return BlockingClause{fields: []fieldClause{{Field: field, Transform: transform}}}
}

// FirstN creates a single-field clause using the firstN(k) transform.
func FirstN(field string, n int) BlockingClause {
	return BlockingClause{fields: []fieldClause{{Field: field, Transform: TransformFirstN, N: n}}}
}

// Multi joins several single-field clauses into one multi-field clause.
func Multi(clauses ...BlockingClause) BlockingClause {
	var fields []fieldClause
	for _, c := range clauses {
		fields = append(fields, c.fields...)
	}
	return BlockingClause{fields: fields}
}

// Config is an ordered list of blocking clauses.
type Config struct {
	Clauses []BlockingClause
}

// Validate rejects a Config containing an unknown transform name or a
// firstN clause with N <= 0, at configuration build time rather than at
// query time, per spec.md §4.2's failure semantics.
func Validate(cfg Config) error {
	for _, clause := range cfg.Clauses {
		for _, fc := range clause.fields {
			switch fc.Transform {
			case TransformExact, TransformLowercase, TransformSoundex, TransformFirstLetter:
			case TransformFirstN:
				if fc.N <= 0 {
					return resolveerr.New(resolveerr.CodeConfiguration, "first_n transform requires n > 0").WithField(fc.Field)
				}
			default:
				return resolveerr.Newf(resolveerr.CodeConfiguration, "unknown blocking transform %q", fc.Transform).WithField(fc.Field)
			}
		}
	}
	return nil
}

// Index derives blocking keys from records against a Config and schema.
// It holds no state of its own; persistence and key-based lookup are the
// external repository's responsibility (spec.md §4.2, §6).
type Index struct {
	cfg    Config
	schema schema.Schema
	scorer similarity.Scorer
}

// New builds an Index. cfg must already have passed Validate.
func New(cfg Config, sch schema.Schema) *Index {
	return &Index{cfg: cfg, schema: sch, scorer: similarity.Default}
}

// Keys returns the set of blocking keys a record yields. A record may
// yield multiple keys (one per clause); equality of any single key is
// sufficient for co-bucketing two records.
func (idx *Index) Keys(r record.Record) []string {
	keys := make([]string, 0, len(idx.cfg.Clauses))
	for _, clause := range idx.cfg.Clauses {
		if key, ok := idx.clauseKey(r, clause); ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// clauseKey derives one clause's key, or (false) when any component field
// is missing/empty — a clause with a missing component emits no key at
// all, never an empty-string key, per spec.md §4.2.
func (idx *Index) clauseKey(r record.Record, clause BlockingClause) (string, bool) {
	parts := make([]string, 0, len(clause.fields))
	for _, fc := range clause.fields {
		part, ok := idx.fieldKey(r, fc)
		if !ok {
			return "", false
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, keySeparator), true
}

func (idx *Index) fieldKey(r record.Record, fc fieldClause) (string, bool) {
	raw, ok := record.GetString(r, fc.Field)
	if !ok {
		return "", false
	}

	value := raw
	if desc, ok := idx.schema.Get(fc.Field); ok {
		value = schema.Normalize(desc, raw)
	}
	if value == "" {
		return "", false
	}

	switch fc.Transform {
	case TransformExact:
		return value, true
	case TransformLowercase:
		return strings.ToLower(value), true
	case TransformSoundex:
		code := idx.scorer.Soundex(value)
		if code == "" {
			return "", false
		}
		return strings.ToUpper(code), true
	case TransformFirstLetter:
		runes := []rune(strings.ToLower(value))
		if len(runes) == 0 {
			return "", false
		}
		return string(runes[0]), true
	case TransformFirstN:
		runes := []rune(strings.ToLower(value))
		if len(runes) == 0 {
			return "", false
		}
		n := fc.N
		if n > len(runes) {
			n = len(runes)
		}
		return string(runes[:n]), true
	default:
		return "", false
	}
}

// KeySets computes the blocking keys for a batch of records, returning a
// parallel slice of key-sets (used by the batch deduplicator's bucket
// scan in pkg/dedup).
func (idx *Index) KeySets(records []record.Record) [][]string {
	out := make([][]string, len(records))
	for i, r := range records {
		out[i] = idx.Keys(r)
	}
	return out
}
