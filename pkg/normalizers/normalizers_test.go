package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	assert.Equal(t, "john@example.com", Email("  John@Example.com "))
}

func TestPhone(t *testing.T) {
	assert.Equal(t, "+15550100200", Phone("+1 (555) 010-0200"))
	assert.Equal(t, "5550100", Phone("555-0100"))
}

func TestName(t *testing.T) {
	cases := map[string]string{
		"John Smith Jr.": "john smith",
		"  Mary  -Anne ": "mary anne",
		"Dr. House III":  "dr house",
	}
	for input, want := range cases {
		assert.Equal(t, want, Name(input), input)
	}
}

func TestDate(t *testing.T) {
	assert.Equal(t, "1985-03-20", Date("03/20/1985"))
	assert.Equal(t, "1985-03-20", Date("1985-03-20"))
	assert.Equal(t, "not-a-date", Date("not-a-date"), "unparseable input is returned unchanged")
}

func TestParseDate(t *testing.T) {
	_, ok := ParseDate("1985-03-20")
	assert.True(t, ok)
	_, ok = ParseDate("nonsense")
	assert.False(t, ok)
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, "john@example.com", Apply(" John@Example.com ", "email"))
	assert.Equal(t, "unchanged", Apply("unchanged", "not_registered"))

	fn, ok := Get("lowercase")
	assert.True(t, ok)
	assert.Equal(t, "abc", fn("ABC"))
}

func TestAddress(t *testing.T) {
	assert.Equal(t, "123 main st", Address("123 Main Street"))
	assert.Equal(t, "123 n main st", Address("123  North   Main Street"))
}
