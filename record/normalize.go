package record

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"

	"github.com/asaskevich/govalidator"

	"recordkit/internal/common"
	"recordkit/internal/diagnostic"
	"recordkit/node"
	"recordkit/options"
	"recordkit/primitive"
)

const codeRepaired = "coercion_repaired"

var (
	errNotList   = errors.New("value is not a list")
	errNotRecord = errors.New("value is not a record")
)

// constraintError is a declared bound violated by a well-typed value.
type constraintError struct {
	msg string
}

func (e *constraintError) Error() string {
	return e.msg
}

// state collects the outcome of one normalization pass.
type state struct {
	schema *Schema
	opts   options.Options
	errs   []FieldError
	diags  diagnostic.Diagnostics
}

func newState(s *Schema, o options.Options) *state {
	return &state{schema: s, opts: o}
}

func (st *state) failure() error {
	return &ValidationError{Record: st.schema.name, Errors: st.errs}
}

func (st *state) repairs() []Repair {
	if len(st.diags.Warnings) == 0 {
		return nil
	}

	out := make([]Repair, len(st.diags.Warnings))
	for i, d := range st.diags.Warnings {
		out[i] = Repair{Field: d.FieldPath, Value: d.Value, Message: d.Message}
	}

	return out
}

// resolve runs the normalization table for one settable field.
func (st *state) resolve(f *field, raw any, path string) (any, bool) {
	if isNil(raw) {
		return st.absent(f, path)
	}

	if f.normalize != nil {
		v, ok, err := f.normalize(raw, st.schema.allowed(&f.Field, st.opts))
		if err != nil {
			return st.invalid(f, path, raw, classify(err), err.Error())
		}

		if !ok {
			return st.absent(f, path)
		}

		raw = v
	}

	if f.NotEmpty && isEmptyString(raw) {
		return st.absent(f, path)
	}

	v, err := st.schema.value(f, raw, st.opts, path)
	if err == nil {
		return v, true
	}

	var nested *ValidationError
	if errors.As(err, &nested) {
		if f.OnInvalid == Reject {
			st.errs = append(st.errs, nested.Errors...)
			return nil, false
		}

		first := nested.Errors[0]

		return st.invalid(f, path, raw, first.Reason, first.Error())
	}

	return st.invalid(f, path, raw, classify(err), err.Error())
}

func (st *state) absent(f *field, path string) (any, bool) {
	switch {
	case f.HasDefault():
		return st.fallback(f, path)
	case f.Optional:
		return nil, true
	default:
		st.errs = append(st.errs, FieldError{
			Field:   path,
			Reason:  ReasonMissing,
			Message: "required field is not supplied",
		})

		return nil, false
	}
}

func (st *state) invalid(f *field, path string, raw any, reason Reason, msg string) (any, bool) {
	if f.OnInvalid != UseDefault {
		st.errs = append(st.errs, FieldError{Field: path, Value: raw, Reason: reason, Message: msg})
		return nil, false
	}

	def, ok := st.fallback(f, path)
	if !ok {
		return nil, false
	}

	st.repaired(path, raw, def, reason, msg)

	return def, true
}

func (st *state) fallback(f *field, path string) (any, bool) {
	if f.Factory == nil {
		return cloneValue(f.def), true
	}

	produced := f.Factory(st.opts.Now())

	v, err := st.schema.value(f, produced, st.opts, path)
	if err != nil {
		st.errs = append(st.errs, FieldError{
			Field:   path,
			Value:   produced,
			Reason:  ReasonWrongType,
			Message: "default factory: " + err.Error(),
		})

		return nil, false
	}

	return v, true
}

func (st *state) repaired(path string, raw, def any, reason Reason, msg string) {
	st.diags.AddWarning(codeRepaired, fmt.Sprintf("%s (%s), replaced with default %v", reason, msg, def), st.schema.name, path, raw)

	if st.opts.Logger == nil {
		return
	}

	st.opts.Logger.LogAttrs(context.Background(), slog.LevelDebug, "value repaired",
		slog.String("record", st.schema.name),
		slog.String("field", path),
		slog.Any("value", raw),
		slog.Any("default", def),
		slog.String("reason", string(reason)),
	)
}

// value converts a supplied raw value into the declared kind and checks constraints.
func (s *Schema) value(f *field, raw any, o options.Options, path string) (any, error) {
	switch f.Kind {
	case primitive.KindAny:
		return raw, nil

	case primitive.KindRecord:
		return f.Schema.nested(raw, o, path)

	case primitive.KindList:
		items, err := s.list(f, raw, o, path)
		if err != nil {
			return nil, err
		}

		if err := checkConstraints(&f.Field, items); err != nil {
			return nil, err
		}

		return items, nil

	default:
		v, err := primitive.Coerce(raw, f.Kind, s.allowed(&f.Field, o))
		if err != nil {
			return nil, err
		}

		if err := checkConstraints(&f.Field, v); err != nil {
			return nil, err
		}

		return v, nil
	}
}

func (s *Schema) list(f *field, raw any, o options.Options, path string) ([]any, error) {
	items, ok := node.Elements(raw)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", errNotList, raw)
	}

	out := make([]any, 0, len(items))

	var errs []FieldError

	for i, item := range items {
		at := common.JoinPath(path, fmt.Sprintf("[%d]", i))

		var (
			v   any
			err error
		)

		switch {
		case f.Schema != nil:
			v, err = f.Schema.nested(item, o, at)
		case f.Elem == primitive.KindAny:
			v = item
		default:
			v, err = primitive.Coerce(item, f.Elem, s.allowed(&f.Field, o))
		}

		var nested *ValidationError

		switch {
		case errors.As(err, &nested):
			errs = append(errs, nested.Errors...)
		case err != nil:
			errs = append(errs, FieldError{Field: at, Value: item, Reason: classify(err), Message: err.Error()})
		default:
			out = append(out, v)
		}
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Record: s.name, Errors: errs}
	}

	return out, nil
}

// nested builds a record of this schema from a raw nested value.
func (s *Schema) nested(raw any, o options.Options, path string) (*Record, error) {
	switch v := raw.(type) {
	case *Record:
		if v == nil {
			return nil, primitive.ErrNil
		}

		if v.schema == s {
			return v.Clone(), nil
		}

		return s.construct(s.inputs(v.Export()), o, path)

	case OrderedMap:
		return s.construct(s.inputs(v), o, path)
	}

	if node.DispatchValue(raw) != node.DispatcherMap {
		return nil, fmt.Errorf("%w: got %T", errNotRecord, raw)
	}

	m, _ := node.Entries(raw)

	return s.construct(m, o, path)
}

func checkConstraints(f *Field, v any) error {
	switch {
	case f.Kind.IsNumber():
		n, _ := numberOf(v)

		if f.Minimum != nil && n < *f.Minimum {
			return &constraintError{fmt.Sprintf("%v must be at least %v", v, *f.Minimum)}
		}

		if f.ExclusiveMinimum != nil && n <= *f.ExclusiveMinimum {
			return &constraintError{fmt.Sprintf("%v must be greater than %v", v, *f.ExclusiveMinimum)}
		}

		if f.Maximum != nil && n > *f.Maximum {
			return &constraintError{fmt.Sprintf("%v must be at most %v", v, *f.Maximum)}
		}

	case f.Kind == primitive.KindString:
		return checkText(f, v.(string))

	case f.Kind == primitive.KindList:
		return checkLength(f, len(v.([]any)), "items")
	}

	return nil
}

// checkText bounds the rune length of a string.
func checkText(f *Field, s string) error {
	if f.MinLength != nil && !govalidator.MinStringLength(s, strconv.Itoa(*f.MinLength)) {
		return &constraintError{fmt.Sprintf("%q is shorter than %d characters", s, *f.MinLength)}
	}

	if f.MaxLength != nil && !govalidator.MaxStringLength(s, strconv.Itoa(*f.MaxLength)) {
		return &constraintError{fmt.Sprintf("%q is longer than %d characters", s, *f.MaxLength)}
	}

	return nil
}

func checkLength(f *Field, n int, unit string) error {
	if f.MinLength != nil && n < *f.MinLength {
		return &constraintError{fmt.Sprintf("has %d %s, at least %d required", n, unit, *f.MinLength)}
	}

	if f.MaxLength != nil && n > *f.MaxLength {
		return &constraintError{fmt.Sprintf("has %d %s, at most %d allowed", n, unit, *f.MaxLength)}
	}

	return nil
}

func classify(err error) Reason {
	var ce *constraintError

	switch {
	case errors.As(err, &ce), errors.Is(err, primitive.ErrOutOfRange):
		return ReasonOutOfRange
	default:
		return ReasonWrongType
	}
}

func numberOf(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch {
	case !rv.IsValid():
		return 0, false
	case rv.CanInt():
		return float64(rv.Int()), true
	case rv.CanUint():
		return float64(rv.Uint()), true
	case rv.CanFloat():
		return rv.Float(), true
	default:
		return 0, false
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

func isEmptyString(v any) bool {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv = rv.Elem()
	}

	return rv.Kind() == reflect.String && rv.Len() == 0
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *Record:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}

		return out
	default:
		return v
	}
}

func joinPath(prefix, name string) string {
	return common.JoinPath(prefix, name)
}
