package record

import (
	"errors"
	"fmt"
	"strings"

	"recordkit/internal/diagnostic"
	"recordkit/primitive"
)

// Reason classifies a field error.
type Reason string

const (
	ReasonMissing      Reason = "missing"
	ReasonWrongType    Reason = "wrong_type"
	ReasonOutOfRange   Reason = "out_of_range"
	ReasonUnknownField Reason = "unknown_field"
)

var (
	ErrMissing      = errors.New(string(ReasonMissing))
	ErrWrongType    = errors.New(string(ReasonWrongType))
	ErrOutOfRange   = errors.New(string(ReasonOutOfRange))
	ErrUnknownField = errors.New(string(ReasonUnknownField))
)

func (r Reason) sentinel() error {
	switch r {
	case ReasonMissing:
		return ErrMissing
	case ReasonOutOfRange:
		return ErrOutOfRange
	case ReasonUnknownField:
		return ErrUnknownField
	default:
		return ErrWrongType
	}
}

// FieldError describes one offending input.
type FieldError struct {
	// Field is the dotted path of the input, e.g. "products[0].price".
	Field       string
	Value       any
	Reason      Reason
	Message     string
	Suggestions []string
}

func (e FieldError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %s", e.Field, e.Reason)

	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}

	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}

	return b.String()
}

func (e FieldError) Unwrap() error {
	return e.Reason.sentinel()
}

// ValidationError aggregates every field error of one construction call.
type ValidationError struct {
	Record string
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Error()
	}

	noun := "field"
	if len(e.Errors) != 1 {
		noun = "fields"
	}

	return fmt.Sprintf("record %s: %d invalid %s: %s", e.Record, len(e.Errors), noun, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, fe := range e.Errors {
		out[i] = fe
	}

	return out
}

// Field returns the first error reported for the path.
func (e *ValidationError) Field(path string) (FieldError, bool) {
	for _, fe := range e.Errors {
		if fe.Field == path {
			return fe, true
		}
	}

	return FieldError{}, false
}

// SchemaExportError reports a field kind with no schema representation.
type SchemaExportError struct {
	Record string
	Field  string
	Kind   primitive.KindEnum
}

func (e *SchemaExportError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("record %s: cannot describe schema", e.Record)
	}

	return fmt.Sprintf("record %s: field %q: kind %s has no schema representation", e.Record, e.Field, e.Kind.TypeName())
}

// DeclarationError reports an invalid schema declaration.
type DeclarationError struct {
	Record      string
	Diagnostics diagnostic.Diagnostics
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("record %s: invalid declaration: %v", e.Record, e.Diagnostics.Error())
}
