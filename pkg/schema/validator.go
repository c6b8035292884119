package schema

import (
	"github.com/8arr3tt/have-we-met/pkg/resolveerr"
)

var validTypes = map[FieldType]bool{
	FieldTypeName: true, FieldTypeEmail: true, FieldTypePhone: true,
	FieldTypeDate: true, FieldTypeNumber: true, FieldTypeString: true,
	FieldTypeBoolean: true,
}

var validComponents = map[NameComponent]bool{
	NameComponentFirst: true, NameComponentLast: true, NameComponentFull: true, "": true,
}

// Validate checks the schema for configuration errors: duplicate fields,
// unknown field types, and a name component specified on a non-name field.
// Callers run it themselves when building configuration on top of a
// Schema; blocking.Validate, matching.Build and merge.Validate do not
// call it, and nothing runs it at match time.
func Validate(s Schema) error {
	seen := make(map[string]bool, len(s.Fields))
	for _, field := range s.Fields {
		if seen[field] {
			return resolveerr.New(resolveerr.CodeConfiguration, "duplicate field in schema").WithField(field)
		}
		seen[field] = true

		def, ok := s.Descriptors[field]
		if !ok {
			return resolveerr.New(resolveerr.CodeConfiguration, "field has no descriptor").WithField(field)
		}
		if !validTypes[def.Type] {
			return resolveerr.Newf(resolveerr.CodeConfiguration, "unknown field type %q", def.Type).WithField(field)
		}
		if def.Type != FieldTypeName && def.Component != "" {
			return resolveerr.New(resolveerr.CodeConfiguration, "component is only valid on name fields").WithField(field)
		}
		if def.Type == FieldTypeName && !validComponents[def.Component] {
			return resolveerr.Newf(resolveerr.CodeConfiguration, "unknown name component %q", def.Component).WithField(field)
		}
	}
	return nil
}

// IsNumeric reports whether a field's schema type supports numeric merge
// strategies (average/sum/min/max), used by merge config validation.
func IsNumeric(s Schema, field string) bool {
	def, ok := s.Descriptors[field]
	if !ok {
		return false
	}
	return def.Type == FieldTypeNumber
}
