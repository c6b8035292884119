package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		desc  FieldDescriptor
		value string
		want  string
	}{
		{"email lowercases and trims", FieldDescriptor{Type: FieldTypeEmail}, "  John@Example.com ", "john@example.com"},
		{"phone strips formatting", FieldDescriptor{Type: FieldTypePhone}, "+1 (555) 010-0200", "+15550100200"},
		{"name folds case and suffix", FieldDescriptor{Type: FieldTypeName}, "John Smith Jr.", "john smith"},
		{"date canonicalizes", FieldDescriptor{Type: FieldTypeDate}, "03/20/1985", "1985-03-20"},
		{"untyped field is merely trimmed", FieldDescriptor{Type: FieldTypeString}, "  hi  ", "hi"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Normalize(c.desc, c.value))
		})
	}
}
