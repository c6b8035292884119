package schema

import "github.com/8arr3tt/have-we-met/pkg/normalizers"

// Normalize applies the domain normalizer appropriate for a field's type,
// per spec.md §4.1/§4.2: email fields are lower-cased and trimmed, phone
// fields reduced to a digit sequence (with optional leading '+'), name
// fields case-folded with suffixes stripped, date fields canonicalized to
// yyyy-mm-dd. Untyped/unknown field types are merely trimmed.
func Normalize(desc FieldDescriptor, value string) string {
	switch desc.Type {
	case FieldTypeEmail:
		return normalizers.Email(value)
	case FieldTypePhone:
		return normalizers.Phone(value)
	case FieldTypeName:
		return normalizers.Name(value)
	case FieldTypeDate:
		return normalizers.Date(value)
	default:
		return normalizers.Trim(value)
	}
}
