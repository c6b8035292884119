// Package normalizers provides the domain normalizers applied before
// generic comparison, per spec.md §4.1/§4.2: email, phone, name, and date
// canonicalization, plus a registry for looking a normalizer up by name
// (Register/Get/Apply). Blocking clauses and match field configs do not
// consult the registry.
package normalizers

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Normalizer normalizes a single string value.
type Normalizer func(string) string

var registry = map[string]Normalizer{}

func init() {
	Register("lowercase", Lowercase)
	Register("uppercase", Uppercase)
	Register("trim", Trim)
	Register("email", Email)
	Register("phone", Phone)
	Register("name", Name)
	Register("digits_only", DigitsOnly)
	Register("alphanumeric", Alphanumeric)
}

// Register adds a normalizer to the named registry.
func Register(name string, fn Normalizer) { registry[name] = fn }

// Get retrieves a normalizer by name.
func Get(name string) (Normalizer, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Apply applies a named normalizer to a value, returning the value
// unchanged if the name is unregistered.
func Apply(value, name string) string {
	fn, ok := registry[name]
	if !ok {
		return value
	}
	return fn(value)
}

// Lowercase lowercases s.
func Lowercase(s string) string { return strings.ToLower(s) }

// Uppercase uppercases s.
func Uppercase(s string) string { return strings.ToUpper(s) }

// Trim trims leading/trailing whitespace from s.
func Trim(s string) string { return strings.TrimSpace(s) }

// Email lowercases and trims an email address, per spec.md §4.1.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Phone strips everything but digits and an optional leading '+', per
// spec.md §4.1/§4.2.
func Phone(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DigitsOnly strips everything but digits (no leading '+' preserved).
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Alphanumeric keeps only letters and digits.
func Alphanumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var nameSuffixes = []string{" jr.", " jr", " sr.", " sr", " iii", " ii", " iv", " phd", " md", " dds"}

// Name case-folds and trims a person's name, drops common suffixes
// (Jr., Sr., III, ...), and collapses punctuation/whitespace, per
// spec.md §4.1's name normalization.
func Name(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, suffix := range nameSuffixes {
		if strings.HasSuffix(s, suffix) {
			s = s[:len(s)-len(suffix)]
		}
	}

	var b strings.Builder
	prevSpace := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r):
			if !prevSpace {
				b.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// dateLayouts are the common formats Date accepts, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"01-02-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	time.RFC3339,
}

// Date parses s using the first matching layout in dateLayouts and
// returns its canonical yyyy-mm-dd form. If s cannot be parsed, it is
// returned unchanged (callers should treat the comparison as a diagnostic
// flag, per spec.md §4.1's error policy).
func Date(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

// ParseDate is like Date but reports whether parsing succeeded.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var addressAbbreviations = map[string]string{
	" street": " st", " avenue": " ave", " boulevard": " blvd", " drive": " dr",
	" road": " rd", " lane": " ln", " court": " ct", " circle": " cir",
	" place": " pl", " apartment": " apt", " suite": " ste",
	" north": " n", " south": " s", " east": " e", " west": " w",
}

var addressSpaceRe = regexp.MustCompile(`\s+`)

// Address lowercases, abbreviates common street-suffix words, and
// collapses whitespace, for looser address comparisons.
func Address(s string) string {
	s = strings.ToLower(s)
	for full, abbr := range addressAbbreviations {
		s = strings.ReplaceAll(s, full, abbr)
	}
	return strings.TrimSpace(addressSpaceRe.ReplaceAllString(s, " "))
}
