package blocking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/8arr3tt/have-we-met/pkg/record"
	"github.com/8arr3tt/have-we-met/pkg/schema"
)

func TestValidate(t *testing.T) {
	t.Run("accepts known transforms", func(t *testing.T) {
		require.NoError(t, Validate(Config{Clauses: []BlockingClause{
			Field("lastName", TransformSoundex),
			FirstN("company", 3),
		}}))
	})

	t.Run("rejects firstN with n<=0", func(t *testing.T) {
		err := Validate(Config{Clauses: []BlockingClause{FirstN("company", 0)}})
		require.Error(t, err)
	})
}

func TestIndex_Keys(t *testing.T) {
	idx := New(Config{Clauses: []BlockingClause{
		Field("lastName", TransformSoundex),
		Multi(Field("lastName", TransformFirstLetter), Field("firstName", TransformFirstLetter)),
	}}, schema.Schema{})

	t.Run("emits one key per clause", func(t *testing.T) {
		keys := idx.Keys(record.Record{"lastName": "Smith", "firstName": "John"})
		require.Len(t, keys, 2)
	})

	t.Run("missing component field yields no key for that clause", func(t *testing.T) {
		keys := idx.Keys(record.Record{"lastName": "Smith"})
		assert.Len(t, keys, 1)
	})

	t.Run("soundex co-buckets phonetically similar names", func(t *testing.T) {
		a := idx.Keys(record.Record{"lastName": "Smith", "firstName": "John"})
		b := idx.Keys(record.Record{"lastName": "Smyth", "firstName": "Jon"})
		assert.Equal(t, a[0], b[0])
	})
}

func TestIndex_KeySets(t *testing.T) {
	idx := New(Config{Clauses: []BlockingClause{Field("lastName", TransformExact)}}, schema.Schema{})
	sets := idx.KeySets([]record.Record{
		{"lastName": "Smith"},
		{},
	})
	require.Len(t, sets, 2)
	assert.Len(t, sets[0], 1)
	assert.Empty(t, sets[1])
}
