package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	r := Record{"address": map[string]any{"city": "Springfield"}}

	t.Run("resolves nested path", func(t *testing.T) {
		v, ok := Get(r, "address.city")
		require.True(t, ok)
		assert.Equal(t, "Springfield", v)
	})

	t.Run("missing path", func(t *testing.T) {
		_, ok := Get(r, "address.zip")
		assert.False(t, ok)
	})

	t.Run("nil record", func(t *testing.T) {
		_, ok := Get(nil, "x")
		assert.False(t, ok)
	})
}

func TestGetString(t *testing.T) {
	r := Record{"name": "Jane", "age": 30, "empty": ""}

	v, ok := GetString(r, "name")
	assert.True(t, ok)
	assert.Equal(t, "Jane", v)

	_, ok = GetString(r, "age")
	assert.False(t, ok, "non-string values are not coerced")

	_, ok = GetString(r, "empty")
	assert.False(t, ok, "empty string is treated as absent")
}

func TestSet(t *testing.T) {
	t.Run("builds intermediate maps", func(t *testing.T) {
		out := Set(Record{}, "address.city", "Springfield")
		v, ok := Get(out, "address.city")
		require.True(t, ok)
		assert.Equal(t, "Springfield", v)
	})

	t.Run("does not mutate the original", func(t *testing.T) {
		original := Record{"name": "Jane"}
		Set(original, "age", 30)
		_, ok := original["age"]
		assert.False(t, ok)
	})
}

func TestSetStrict(t *testing.T) {
	t.Run("rejects writing through a scalar", func(t *testing.T) {
		r := Record{"address": "123 Main"}
		_, err := SetStrict(r, "address.city", "Springfield")
		require.Error(t, err)
		var structErr *StructuralError
		assert.ErrorAs(t, err, &structErr)
	})

	t.Run("allows independent fields", func(t *testing.T) {
		r := Record{"address": "123 Main"}
		out, err := SetStrict(r, "phone", "555-0100")
		require.NoError(t, err)
		assert.Equal(t, "555-0100", out["phone"])
	})
}

func TestPaths(t *testing.T) {
	r := Record{
		"name":    "Jane",
		"address": map[string]any{"city": "Springfield", "zip": "00000"},
	}
	paths := Paths(r)
	assert.ElementsMatch(t, []string{"name", "address.city", "address.zip"}, paths)
}
