package record

import (
	"fmt"

	"recordkit/primitive"
)

const numeric = primitive.CategorySafeNumber | primitive.CategoryUnsafeNumber

// Sum derives the sum of attr across the records of a list field.
// With an empty attr the list items themselves are summed. An empty list sums to 0.
func Sum(list, attr string) func(r *Record) (any, error) {
	return func(r *Record) (any, error) {
		total := 0.0

		for i, item := range r.List(list) {
			v := item
			if attr != "" {
				sub, ok := item.(*Record)
				if !ok {
					return nil, fmt.Errorf("%s[%d]: %w", list, i, errNotRecord)
				}

				v, _ = sub.Get(attr)
			}

			n, err := primitive.Coerce(v, primitive.KindFloat64, numeric)
			if err != nil {
				return nil, fmt.Errorf("%s[%d].%s: %w", list, i, attr, err)
			}

			total += n.(float64)
		}

		return total, nil
	}
}

// Count derives the number of items of a list field.
func Count(list string) func(r *Record) (any, error) {
	return func(r *Record) (any, error) {
		return len(r.List(list)), nil
	}
}

// Product derives the product of two numeric fields.
func Product(a, b string) func(r *Record) (any, error) {
	return func(r *Record) (any, error) {
		x, err := r.number(a)
		if err != nil {
			return nil, err
		}

		y, err := r.number(b)
		if err != nil {
			return nil, err
		}

		return x * y, nil
	}
}

func (r *Record) number(name string) (float64, error) {
	v, ok := r.Get(name)
	if !ok {
		return 0, fmt.Errorf("%s: %w", name, ErrUnknownField)
	}

	n, err := primitive.Coerce(v, primitive.KindFloat64, numeric)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}

	return n.(float64), nil
}

// derive computes every derived field in declaration order.
func (r *Record) derive(prefix string) error {
	var errs []FieldError

	for _, f := range r.schema.fields {
		if !f.IsDerived() {
			continue
		}

		v, err := f.Derive(r)
		if err == nil {
			v, err = r.schema.derived(f, v)
		}

		if err != nil {
			errs = append(errs, FieldError{
				Field:   joinPath(prefix, f.Name),
				Value:   v,
				Reason:  classify(err),
				Message: err.Error(),
			})

			continue
		}

		r.values[f.index] = v
	}

	if len(errs) > 0 {
		return &ValidationError{Record: r.schema.name, Errors: errs}
	}

	return nil
}

func (s *Schema) derived(f *field, v any) (any, error) {
	if isNil(v) {
		if f.Optional {
			return nil, nil
		}

		return nil, primitive.ErrNil
	}

	if !f.Kind.IsScalar() {
		return v, nil
	}

	return primitive.Coerce(v, f.Kind, s.coercion|CoercionStrict)
}
