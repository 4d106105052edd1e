package record

import (
	"time"

	"recordkit/internal/common"
	"recordkit/primitive"
)

// Policy selects what happens to a raw value that fails normalization.
type Policy int

const (
	// Reject reports the value as a field error.
	Reject Policy = iota
	// UseDefault replaces the value with the field default.
	UseDefault
)

func (p Policy) String() string {
	switch p {
	case Reject:
		return "reject"
	case UseDefault:
		return "use_default"
	default:
		return common.UnknownStr
	}
}

// ParsePolicy resolves a policy name as written in declaration files.
func ParsePolicy(s string) (Policy, bool) {
	switch s {
	case "", "reject":
		return Reject, true
	case "use_default", "default":
		return UseDefault, true
	default:
		return 0, false
	}
}

// Field declares one record attribute.
type Field struct {
	Name        string
	Kind        primitive.KindEnum
	Description string

	// Default is used when no value is supplied; Factory is called instead when set.
	Default any
	Factory func(now time.Time) any

	// Optional fields without a default hold nil when no value is supplied.
	Optional bool
	// NotEmpty treats an empty string as no value supplied.
	NotEmpty bool
	// Bookkeeping fields are excluded from the default equality key.
	Bookkeeping bool

	// Derive marks the field as derived. It is never settable by callers.
	Derive func(r *Record) (any, error)

	Minimum          *float64
	ExclusiveMinimum *float64
	Maximum          *float64
	MinLength        *int
	MaxLength        *int

	OnInvalid Policy

	// Normalize is a custom normalizer applied before coercion. Supported shapes:
	//   - func(T) U
	//   - func(T) (U, bool)          false means no value supplied
	//   - func(T) (U, error)
	//   - func(T) (U, bool, error)
	// A nil pointer result also means no value supplied.
	Normalize any

	// Coercion overrides the conversions accepted for this field.
	Coercion primitive.CategoryEnum

	// Schema is the nested record schema of KindRecord fields and of lists of records.
	Schema *Schema
	// Elem is the element kind of lists of scalars.
	Elem primitive.KindEnum
}

// IsDerived reports whether the field is computed rather than supplied.
func (f Field) IsDerived() bool {
	return f.Derive != nil
}

// HasDefault reports whether the field can be filled without input.
func (f Field) HasDefault() bool {
	return f.Default != nil || f.Factory != nil
}

// IsRequired reports whether construction fails when the field is not supplied.
func (f Field) IsRequired() bool {
	return !f.IsDerived() && !f.HasDefault() && !f.Optional
}

// InitOnly declares a constructor-time input that is routed into the
// normalizer of the settable field Into. It is never stored nor exported.
type InitOnly struct {
	Name string
	Into string
}

// Float returns a pointer to f, for numeric constraints.
func Float(f float64) *float64 { return &f }

// Int returns a pointer to n, for length constraints.
func Int(n int) *int { return &n }
