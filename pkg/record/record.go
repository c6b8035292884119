// Package record defines the data model the engine operates on: a record
// is a tree of scalars, arrays, and nested maps addressed by dot-separated
// field paths, plus the SourceRecord wrapper used as merge input.
package record

import (
	"sort"
	"strings"
	"time"
)

// Record is a mapping from field path to scalar, array, nested mapping, or
// nil. The engine never mutates a Record in place; all operations that
// "change" a record return a new one.
type Record map[string]any

// SourceRecord is one participant record handed to the merge executor.
type SourceRecord struct {
	ID        string
	Record    Record
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Get resolves a dot-separated field path against the record, descending
// through nested maps. It returns the value and whether the path was
// present (a present nil is distinguished from an absent path).
func Get(r Record, path string) (any, bool) {
	if r == nil {
		return nil, false
	}
	parts := strings.Split(path, ".")
	var cur any = map[string]any(r)
	for i, part := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			if rm, ok2 := cur.(Record); ok2 {
				m = map[string]any(rm)
			} else {
				return nil, false
			}
		}
		v, exists := m[part]
		if !exists {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		cur = v
	}
	return nil, false
}

// GetString resolves path as a string, returning ("", false) if the path is
// absent, nil, empty, or not a string.
func GetString(r Record, path string) (string, bool) {
	v, ok := Get(r, path)
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Set returns a new Record with path set to value, building any
// intermediate nested maps along the way. Writing "a.b" after "a" was
// set to a scalar does not panic: the write is silently dropped and the
// returned Record keeps the scalar — callers that need the
// structural-error behavior of spec.md §4.5 step 5 should use SetStrict.
func Set(r Record, path string, value any) Record {
	out, _ := SetStrict(r, path, value)
	return out
}

// SetStrict is like Set but reports a structural error when an attempt is
// made to write a nested path through a field that already holds a
// non-map scalar value, per spec.md §4.5 step 5.
func SetStrict(r Record, path string, value any) (Record, error) {
	out := cloneShallow(r)
	parts := strings.Split(path, ".")
	cur := map[string]any(out)
	for i, part := range parts {
		if i == len(parts)-1 {
			cur[part] = value
			break
		}
		next, exists := cur[part]
		if !exists || next == nil {
			nm := map[string]any{}
			cur[part] = nm
			cur = nm
			continue
		}
		nm, ok := next.(map[string]any)
		if !ok {
			return out, &StructuralError{Path: path, ConflictAt: strings.Join(parts[:i+1], ".")}
		}
		// Copy each nested level so the input record's maps are never
		// written to.
		cp := make(map[string]any, len(nm)+1)
		for k, v := range nm {
			cp[k] = v
		}
		cur[part] = cp
		cur = cp
	}
	return out, nil
}

// StructuralError is returned by SetStrict when a nested path write
// collides with a scalar value already present at a prefix of that path.
type StructuralError struct {
	Path       string
	ConflictAt string
}

func (e *StructuralError) Error() string {
	return "cannot write field path " + e.Path + ": " + e.ConflictAt + " is already a scalar value"
}

// Paths returns the set of leaf field paths present in the record,
// recursively descending nested maps (not arrays — an array value is a
// leaf at its containing path).
func Paths(r Record) []string {
	var out []string
	collectPaths(map[string]any(r), "", &out)
	return out
}

func collectPaths(m map[string]any, prefix string, out *[]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := m[k]
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			collectPaths(nested, path, out)
			continue
		}
		*out = append(*out, path)
	}
}

func cloneShallow(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
