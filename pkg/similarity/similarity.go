// Package similarity implements the pure comparison primitives the
// matching engine scores fields with: exact, Jaro-Winkler, Levenshtein,
// and Soundex, plus small numeric/date proximity helpers. Every function
// is total: invalid or empty input produces 0.0 (except Levenshtein, which
// scores two empty strings 1.0), never an error, per spec.md §4.1's
// error policy.
package similarity

import (
	"math"
	"strings"
	"time"
	"unicode"
)

// Scorer groups the comparison primitives. It is stateless; a
// package-level Default is provided for callers that don't need their own
// instance.
type Scorer struct{}

// Default is a ready-to-use Scorer.
var Default = Scorer{}

// Exact returns 1.0 if a and b are equal (case-insensitively unless
// caseSensitive is set), else 0.0.
func (Scorer) Exact(a, b string, caseSensitive bool) float64 {
	if !caseSensitive {
		a = strings.ToLower(a)
		b = strings.ToLower(b)
	}
	if a == b {
		return 1.0
	}
	return 0.0
}

// JaroWinkler returns the Jaro-Winkler similarity of a and b: the Jaro
// similarity boosted for a shared prefix of up to 4 characters, scaled by
// 0.1 per matching prefix character. Returns 1.0 for identical strings,
// 0.0 if either string is empty.
func (s Scorer) JaroWinkler(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0.0
		}
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	jaro := s.Jaro(a, b)

	prefixLen := 0
	const maxPrefix = 4
	for i := 0; i < len(a) && i < len(b) && i < maxPrefix; i++ {
		if a[i] != b[i] {
			break
		}
		prefixLen++
	}

	const scalingFactor = 0.1
	return jaro + float64(prefixLen)*scalingFactor*(1.0-jaro)
}

// Jaro returns the Jaro similarity of a and b, in [0,1].
func (Scorer) Jaro(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0.0
		}
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	matchDist := max(len(a), len(b))/2 - 1
	if matchDist < 0 {
		matchDist = 0
	}

	aMatches := make([]bool, len(a))
	bMatches := make([]bool, len(b))

	matches := 0
	for i := 0; i < len(a); i++ {
		start := max(0, i-matchDist)
		end := min(len(b), i+matchDist+1)
		for j := start; j < end; j++ {
			if bMatches[j] || a[i] != b[j] {
				continue
			}
			aMatches[i] = true
			bMatches[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0.0
	}

	transpositions := 0
	k := 0
	for i := 0; i < len(a); i++ {
		if !aMatches[i] {
			continue
		}
		for !bMatches[k] {
			k++
		}
		if a[i] != b[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	t := float64(transpositions) / 2

	return (m/float64(len(a)) + m/float64(len(b)) + (m-t)/m) / 3
}

// Levenshtein returns the edit-distance similarity ratio of a and b:
// 1 - distance/max(len(a),len(b)), or 1.0 if both are empty.
func (s Scorer) Levenshtein(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	distance := s.LevenshteinDistance(a, b)
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

// LevenshteinDistance computes the classic edit distance between a and b.
func (Scorer) LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	row := make([]int, len(b)+1)
	prevRow := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prevRow[j] = j
	}

	for i := 1; i <= len(a); i++ {
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			row[j] = min(min(row[j-1]+1, prevRow[j]+1), prevRow[j-1]+cost)
		}
		row, prevRow = prevRow, row
	}

	return prevRow[len(b)]
}

// Soundex computes the classic four-character Soundex code of s: the
// first letter is kept, remaining letters are coded 1-6 (vowels and H/W
// dropped except as separators between consonants of the same code),
// adjacent duplicate codes collapsed, and the result padded/truncated to
// four characters.
func (Scorer) Soundex(s string) string {
	if len(s) == 0 {
		return ""
	}

	s = strings.ToUpper(s)
	var first rune
	for _, r := range s {
		if unicode.IsLetter(r) {
			first = r
			break
		}
	}
	if first == 0 {
		return ""
	}

	result := string(first)
	prevCode := soundexCode(first)

	seenFirst := false
	for _, r := range s {
		if !seenFirst {
			if r == first {
				seenFirst = true
			}
			continue
		}
		if !unicode.IsLetter(r) {
			continue
		}
		if len(result) >= 4 {
			break
		}
		code := soundexCode(r)
		if code != "0" && code != prevCode {
			result += code
		}
		prevCode = code
	}

	for len(result) < 4 {
		result += "0"
	}
	return result[:4]
}

// SoundexMatch returns 1.0 if a and b share a Soundex code, else 0.0.
func (s Scorer) SoundexMatch(a, b string) float64 {
	if s.Soundex(a) == s.Soundex(b) {
		return 1.0
	}
	return 0.0
}

func soundexCode(r rune) string {
	switch r {
	case 'B', 'F', 'P', 'V':
		return "1"
	case 'C', 'G', 'J', 'K', 'Q', 'S', 'X', 'Z':
		return "2"
	case 'D', 'T':
		return "3"
	case 'L':
		return "4"
	case 'M', 'N':
		return "5"
	case 'R':
		return "6"
	default:
		return "0"
	}
}

// DateProximity scores two times on a linear decay from 1.0 (identical
// day) to 0.0 at or beyond maxDaysDiff. Returns 0.0 if either is zero.
func (Scorer) DateProximity(a, b time.Time, maxDaysDiff int) float64 {
	if a.IsZero() || b.IsZero() {
		return 0.0
	}
	daysDiff := math.Abs(a.Sub(b).Hours() / 24)
	if daysDiff == 0 {
		return 1.0
	}
	if maxDaysDiff <= 0 || int(daysDiff) >= maxDaysDiff {
		return 0.0
	}
	return 1.0 - daysDiff/float64(maxDaysDiff)
}

// NumericProximity scores two numbers on a linear decay from 1.0
// (identical) to 0.0 at or beyond maxDiff.
func (Scorer) NumericProximity(a, b, maxDiff float64) float64 {
	if a == b {
		return 1.0
	}
	diff := math.Abs(a - b)
	if maxDiff <= 0 || diff >= maxDiff {
		return 0.0
	}
	return 1.0 - diff/maxDiff
}
