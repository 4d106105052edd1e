package record

import (
	"maps"
	"slices"

	"recordkit/options"
)

// Construct builds a record from raw inputs keyed by field or init-only input name.
//
// Phase one normalizes every settable field; phase two computes every derived
// field. Either a complete record is returned or a *ValidationError listing
// every offending input.
func (s *Schema) Construct(raw map[string]any, opts ...options.Option) (*Record, error) {
	return s.construct(raw, options.Apply(opts...), "")
}

// MustConstruct is Construct that panics on invalid input.
func (s *Schema) MustConstruct(raw map[string]any, opts ...options.Option) *Record {
	r, err := s.Construct(raw, opts...)
	if err != nil {
		panic(err)
	}

	return r
}

// Reconstruct builds a record from an exported mapping. Derived fields in the
// mapping are dropped and computed again.
func (s *Schema) Reconstruct(exported OrderedMap, opts ...options.Option) (*Record, error) {
	return s.Construct(s.inputs(exported), opts...)
}

func (s *Schema) construct(raw map[string]any, o options.Options, prefix string) (*Record, error) {
	st := newState(s, o)

	inputs := make(map[string]any, len(raw))
	routed := make(map[string]string)

	for _, name := range slices.Sorted(maps.Keys(raw)) {
		if s.isInitOnly(name) {
			f, _ := s.target(name)
			inputs[f.Name] = raw[name]
			routed[f.Name] = name

			continue
		}

		f, ok := s.lookup(name)
		if !ok || f.IsDerived() {
			st.errs = append(st.errs, s.unknown(name, raw[name], prefix).Errors...)
			continue
		}

		// init-only inputs win over direct values
		if _, ok := routed[f.Name]; ok {
			continue
		}

		inputs[name] = raw[name]
	}

	values := make([]any, len(s.fields))

	for _, f := range s.fields {
		if f.IsDerived() {
			continue
		}

		path := joinPath(prefix, f.Name)
		if in, ok := routed[f.Name]; ok {
			path = joinPath(prefix, in)
		}

		if v, ok := st.resolve(f, inputs[f.Name], path); ok {
			values[f.index] = v
		}
	}

	if len(st.errs) > 0 {
		return nil, st.failure()
	}

	r := &Record{schema: s, values: values}
	if err := r.derive(prefix); err != nil {
		return nil, err
	}

	r.repairs = st.repairs()

	return r, nil
}

// inputs converts an exported mapping back into construction inputs.
func (s *Schema) inputs(exported OrderedMap) map[string]any {
	out := make(map[string]any, len(exported))

	for _, e := range exported {
		if f, ok := s.lookup(e.Key); ok && f.IsDerived() {
			continue
		}

		out[e.Key] = e.Value
	}

	return out
}
