package record

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"recordkit/options"
	"recordkit/primitive"
)

// Record is a constructed instance of a Schema. Its field layout is fixed;
// values change only through Set, which keeps derived fields current.
type Record struct {
	schema  *Schema
	values  []any
	repairs []Repair
}

// Repair describes a supplied value that was replaced by its default.
type Repair struct {
	Field   string
	Value   any
	Message string
}

func (r *Record) Schema() *Schema {
	return r.schema
}

func (r *Record) Name() string {
	return r.schema.name
}

// Repairs lists the values replaced by defaults during construction and Set calls.
func (r *Record) Repairs() []Repair {
	return slices.Clone(r.repairs)
}

// Get returns the value of a settable or derived field.
func (r *Record) Get(name string) (any, bool) {
	f, ok := r.schema.lookup(name)
	if !ok {
		return nil, false
	}

	return r.values[f.index], true
}

// Int returns the field as an int, or 0 when it is absent or not an integer.
func (r *Record) Int(name string) int {
	v, _ := r.as(name, primitive.KindInt).(int)
	return v
}

// Float returns the field as a float64, or 0.
func (r *Record) Float(name string) float64 {
	v, _ := r.as(name, primitive.KindFloat64).(float64)
	return v
}

// Bool returns the field as a bool, or false.
func (r *Record) Bool(name string) bool {
	v, _ := r.as(name, primitive.KindBool).(bool)
	return v
}

// Text returns the field as a string, or "".
func (r *Record) Text(name string) string {
	v, _ := r.as(name, primitive.KindString).(string)
	return v
}

// Time returns the field as a time.Time, or the zero time.
func (r *Record) Time(name string) time.Time {
	v, _ := r.as(name, primitive.KindTime).(time.Time)
	return v
}

// List returns the items of a list field.
func (r *Record) List(name string) []any {
	v, _ := r.Get(name)
	items, _ := v.([]any)

	return items
}

// Records returns the items of a list-of-records field.
func (r *Record) Records(name string) []*Record {
	items := r.List(name)
	out := make([]*Record, 0, len(items))

	for _, item := range items {
		if sub, ok := item.(*Record); ok {
			out = append(out, sub)
		}
	}

	return out
}

// Nested returns the value of a record field.
func (r *Record) Nested(name string) *Record {
	v, _ := r.Get(name)
	sub, _ := v.(*Record)

	return sub
}

func (r *Record) as(name string, kind primitive.KindEnum) any {
	v, ok := r.Get(name)
	if !ok || v == nil {
		return nil
	}

	out, err := primitive.Coerce(v, kind, CoercionStrict)
	if err != nil {
		return nil
	}

	return out
}

// Set normalizes raw into the named settable field or init-only input and
// recomputes every derived field. The record is unchanged on failure.
func (r *Record) Set(name string, raw any, opts ...options.Option) error {
	f, ok := r.schema.target(name)
	if !ok {
		return r.schema.unknown(name, raw, "")
	}

	st := newState(r.schema, options.Apply(opts...))

	v, ok := st.resolve(f, raw, name)
	if !ok {
		return st.failure()
	}

	snapshot := slices.Clone(r.values)
	r.values[f.index] = v

	if err := r.derive(""); err != nil {
		r.values = snapshot
		return err
	}

	r.repairs = append(r.repairs, st.repairs()...)

	return nil
}

// Recompute runs every derived field again.
func (r *Record) Recompute() error {
	snapshot := slices.Clone(r.values)

	if err := r.derive(""); err != nil {
		r.values = snapshot
		return err
	}

	return nil
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}

	values := make([]any, len(r.values))
	for i, v := range r.values {
		values[i] = cloneValue(v)
	}

	return &Record{schema: r.schema, values: values, repairs: slices.Clone(r.repairs)}
}

// Equal compares the equality key fields. Records of different schemas are never equal.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}

	if r.schema != other.schema {
		return false
	}

	for _, idx := range r.schema.eqIndex {
		if !equalValues(r.values[idx], other.values[idx]) {
			return false
		}
	}

	return true
}

func equalValues(a, b any) bool {
	switch x := a.(type) {
	case *Record:
		y, ok := b.(*Record)
		return ok && x.Equal(y)

	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}

		for i := range x {
			if !equalValues(x[i], y[i]) {
				return false
			}
		}

		return true

	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)

	default:
		return reflect.DeepEqual(a, b)
	}
}

// String renders the record as Name(field=value, ...).
func (r *Record) String() string {
	if r == nil {
		return "nil"
	}

	var b strings.Builder

	b.WriteString(r.schema.name)
	b.WriteByte('(')

	for i, f := range r.schema.fields {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(f.Name)
		b.WriteByte('=')
		b.WriteString(repr(r.values[f.index]))
	}

	b.WriteByte(')')

	return b.String()
}

func repr(v any) string {
	switch t := v.(type) {
	case nil:
		return "nil"
	case *Record:
		return t.String()
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = repr(item)
		}

		return "[" + strings.Join(parts, ", ") + "]"
	case string:
		return strconv.Quote(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}
