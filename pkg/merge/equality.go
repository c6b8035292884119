package merge

import "fmt"

// shallowKey produces a comparison key for "shallow equality": scalars,
// slices, and maps all compare by their formatted value, used by
// concatenate/union dedup, conflict detection, and winning-source
// lookup.
func shallowKey(v any) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v", v)
}
