// Package schema describes how the fields of a record should be
// interpreted: which normalizer applies before comparison and whether a
// field admits the numeric merge strategies (IsNumeric). Similarity
// strategies in a match config are not checked against the schema.
package schema

// FieldType is the semantic type of a field, per spec.md §3.
type FieldType string

const (
	FieldTypeName    FieldType = "name"
	FieldTypeEmail   FieldType = "email"
	FieldTypePhone   FieldType = "phone"
	FieldTypeDate    FieldType = "date"
	FieldTypeNumber  FieldType = "number"
	FieldTypeString  FieldType = "string"
	FieldTypeBoolean FieldType = "boolean"
)

// NameComponent distinguishes which part of a person's name a "name"
// typed field holds.
type NameComponent string

const (
	NameComponentFirst NameComponent = "first"
	NameComponentLast  NameComponent = "last"
	NameComponentFull  NameComponent = "full"
)

// FieldDescriptor describes a single schema field.
type FieldDescriptor struct {
	Type      FieldType
	Component NameComponent // only meaningful when Type == FieldTypeName
	Format    string        // optional format hint (e.g. a date layout)
}

// Schema is an ordered mapping from field name to its descriptor. Field
// order is preserved via Fields for anything that needs deterministic
// iteration (explanations, provenance field order).
type Schema struct {
	Fields      []string
	Descriptors map[string]FieldDescriptor
}

// New builds a Schema from an ordered field list and per-field descriptors.
func New(fields []string, descriptors map[string]FieldDescriptor) Schema {
	return Schema{Fields: fields, Descriptors: descriptors}
}

// Get returns the descriptor for field, and whether it exists.
func (s Schema) Get(field string) (FieldDescriptor, bool) {
	d, ok := s.Descriptors[field]
	return d, ok
}
