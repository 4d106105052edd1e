package record

import (
	"fmt"
	"slices"

	"recordkit/internal/diagnostic"
	"recordkit/internal/match"
	"recordkit/node"
	"recordkit/options"
	"recordkit/primitive"
)

const (
	// CoercionStrict accepts widening numeric conversions and narrowing ones
	// whose value survives unchanged (20.0 into an int, 20 into a float).
	CoercionStrict = primitive.CategorySafeNumber | primitive.CategoryExactNumber

	// CoercionLax also accepts textual numbers, booleans, timestamps and durations.
	CoercionLax = CoercionStrict |
		primitive.CategoryTextNumber |
		primitive.CategoryNumericBool |
		primitive.CategoryTextualBool |
		primitive.CategoryDatetime |
		primitive.CategoryTimestamp |
		primitive.CategoryDuration

	// CoercionNumeric accepts anything that reads as an integer or a number,
	// including lossy float truncation, but never times or durations.
	CoercionNumeric = primitive.CategorySafeNumber |
		primitive.CategoryUnsafeNumber |
		primitive.CategoryExactNumber |
		primitive.CategoryTextNumber |
		primitive.CategoryNumericBool
)

// ParseCoercion resolves a coercion preset name.
func ParseCoercion(name string) (primitive.CategoryEnum, bool) {
	switch name {
	case "", "strict":
		return CoercionStrict, true
	case "lax":
		return CoercionLax, true
	case "numeric":
		return CoercionNumeric, true
	case "all":
		return primitive.CategoryAll, true
	default:
		return 0, false
	}
}

// Schema is an immutable record declaration. It may be shared freely.
type Schema struct {
	name        string
	description string
	coercion    primitive.CategoryEnum
	fields      []*field
	index       map[string]int
	initOnly    []InitOnly
	equality    []string
	eqIndex     []int
}

type field struct {
	Field

	index     int
	normalize node.Func
	def       any
}

// SchemaOption configures NewSchema.
type SchemaOption func(*Schema)

// WithInitOnly declares constructor-time inputs.
func WithInitOnly(inputs ...InitOnly) SchemaOption {
	return func(s *Schema) {
		s.initOnly = append(s.initOnly, inputs...)
	}
}

// WithEquality replaces the default equality key (every settable, non-bookkeeping field).
func WithEquality(names ...string) SchemaOption {
	return func(s *Schema) {
		s.equality = append([]string(nil), names...)
	}
}

// WithCoercion sets the conversions accepted from raw inputs. Defaults to CoercionStrict.
func WithCoercion(allowed primitive.CategoryEnum) SchemaOption {
	return func(s *Schema) {
		s.coercion = allowed
	}
}

// WithDescription sets the schema description used by DescribeSchema.
func WithDescription(text string) SchemaOption {
	return func(s *Schema) {
		s.description = text
	}
}

// NewSchema validates the declaration table and returns the schema.
// Every problem is reported at once in a *DeclarationError.
func NewSchema(name string, fields []Field, opts ...SchemaOption) (*Schema, error) {
	s := &Schema{
		name:     name,
		coercion: CoercionStrict,
		index:    make(map[string]int, len(fields)),
	}

	for _, opt := range opts {
		opt(s)
	}

	var diags diagnostic.Diagnostics

	if name == "" {
		diags.AddError("empty_name", "record name is empty", name, "", nil)
	}

	for i := range fields {
		f := &field{Field: fields[i], index: len(s.fields)}
		if !s.declare(f, &diags) {
			continue
		}

		s.index[f.Name] = f.index
		s.fields = append(s.fields, f)
	}

	s.declareInitOnly(&diags)
	s.declareEquality(&diags)

	if !diags.HasErrors() {
		s.declareDefaults(&diags)
	}

	if diags.HasErrors() {
		return nil, &DeclarationError{Record: name, Diagnostics: diags}
	}

	return s, nil
}

// MustSchema is NewSchema that panics on an invalid declaration.
func MustSchema(name string, fields []Field, opts ...SchemaOption) *Schema {
	s, err := NewSchema(name, fields, opts...)
	if err != nil {
		panic(err)
	}

	return s
}

func (s *Schema) declare(f *field, diags *diagnostic.Diagnostics) bool {
	fail := func(code, format string, args ...any) bool {
		diags.AddError(code, fmt.Sprintf(format, args...), s.name, f.Name, nil)
		return false
	}

	if f.Name == "" {
		return fail("empty_name", "field name is empty")
	}

	if _, dup := s.index[f.Name]; dup {
		return fail("duplicate_field", "field %q is declared twice", f.Name)
	}

	switch {
	case f.Kind <= 0 || int(f.Kind) >= primitive.KindTotal:
		return fail("unknown_kind", "field kind %d is not valid", f.Kind)
	case f.Kind == primitive.KindPrimitiveEnum:
		return fail("unknown_kind", "kind %s cannot be declared, use its base kind", f.Kind)
	case f.Kind == primitive.KindRecord && f.Schema == nil:
		return fail("missing_schema", "record field requires a nested schema")
	case f.Kind == primitive.KindList && f.Schema == nil && !f.Elem.IsScalar() && f.Elem != primitive.KindAny:
		return fail("missing_schema", "list field requires a nested schema or a scalar element kind")
	}

	if f.IsDerived() {
		switch {
		case f.HasDefault():
			return fail("derived_default", "derived field cannot declare a default")
		case f.Normalize != nil:
			return fail("derived_normalizer", "derived field cannot declare a normalizer")
		case f.OnInvalid != Reject:
			return fail("derived_policy", "derived field cannot declare an invalid value policy")
		}

		return true
	}

	if f.OnInvalid == UseDefault && !f.HasDefault() {
		return fail("policy_without_default", "policy %s requires a default", f.OnInvalid)
	}

	if f.Normalize != nil {
		fn, _, err := node.Adapt(f.Normalize)
		if err != nil {
			return fail("bad_normalizer", "normalizer: %v", err)
		}

		f.normalize = fn
	}

	return true
}

func (s *Schema) declareInitOnly(diags *diagnostic.Diagnostics) {
	seen := make(map[string]struct{}, len(s.initOnly))

	for _, in := range s.initOnly {
		if _, dup := seen[in.Name]; dup {
			diags.AddError("duplicate_input", fmt.Sprintf("init-only input %q is declared twice", in.Name), s.name, in.Name, nil)
			continue
		}

		seen[in.Name] = struct{}{}

		if _, clash := s.index[in.Name]; clash {
			diags.AddError("input_shadows_field", fmt.Sprintf("init-only input %q has the name of a field", in.Name), s.name, in.Name, nil)
		}

		target, ok := s.lookup(in.Into)
		switch {
		case !ok:
			diags.Add(diagnostic.Diagnostic{
				Severity:    diagnostic.DiagnosticError,
				Code:        "unknown_target",
				Message:     fmt.Sprintf("init-only input %q targets unknown field %q", in.Name, in.Into),
				Scope:       s.name,
				FieldPath:   in.Name,
				Suggestions: match.Suggest(in.Into, s.settableNames(), match.DefaultSuggestions),
			})
		case target.IsDerived():
			diags.AddError("derived_target", fmt.Sprintf("init-only input %q targets derived field %q", in.Name, in.Into), s.name, in.Name, nil)
		}
	}
}

func (s *Schema) declareEquality(diags *diagnostic.Diagnostics) {
	if s.equality == nil {
		for _, f := range s.fields {
			if !f.IsDerived() && !f.Bookkeeping {
				s.eqIndex = append(s.eqIndex, f.index)
			}
		}

		return
	}

	for _, name := range s.equality {
		f, ok := s.lookup(name)
		if !ok {
			diags.AddError("unknown_equality_field", fmt.Sprintf("equality key names unknown field %q", name), s.name, name, nil)
			continue
		}

		s.eqIndex = append(s.eqIndex, f.index)
	}
}

func (s *Schema) declareDefaults(diags *diagnostic.Diagnostics) {
	o := options.Apply()

	for _, f := range s.fields {
		if f.Default == nil {
			continue
		}

		v, err := s.value(f, f.Default, o, f.Name)
		if err != nil {
			diags.AddError("bad_default", fmt.Sprintf("default %v: %v", f.Default, err), s.name, f.Name, f.Default)
			continue
		}

		f.def = v
	}
}

// Name returns the record name.
func (s *Schema) Name() string {
	return s.name
}

// Description returns the schema description.
func (s *Schema) Description() string {
	return s.description
}

// Coercion returns the conversions accepted from raw inputs.
func (s *Schema) Coercion() primitive.CategoryEnum {
	return s.coercion
}

// Fields returns the declarations in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Field
	}

	return out
}

// Field returns the declaration of the named field.
func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.lookup(name)
	if !ok {
		return Field{}, false
	}

	return f.Field, true
}

// InitOnly returns the declared constructor-time inputs.
func (s *Schema) InitOnly() []InitOnly {
	return slices.Clone(s.initOnly)
}

// EqualityKey returns the names of the fields compared by Record.Equal.
func (s *Schema) EqualityKey() []string {
	out := make([]string, len(s.eqIndex))
	for i, idx := range s.eqIndex {
		out[i] = s.fields[idx].Name
	}

	return out
}

// Normalize runs the normalization table for a single settable field or
// init-only input and returns the normalized value. Repairs are applied
// silently; failures are returned as a *ValidationError.
func (s *Schema) Normalize(name string, raw any, opts ...options.Option) (any, error) {
	f, ok := s.target(name)
	if !ok {
		return nil, s.unknown(name, raw, "")
	}

	st := newState(s, options.Apply(opts...))

	v, ok := st.resolve(f, raw, name)
	if !ok {
		return nil, st.failure()
	}

	return v, nil
}

func (s *Schema) lookup(name string) (*field, bool) {
	idx, ok := s.index[name]
	if !ok {
		return nil, false
	}

	return s.fields[idx], true
}

// target returns the settable field that receives the named input.
func (s *Schema) target(name string) (*field, bool) {
	for _, in := range s.initOnly {
		if in.Name == name {
			return s.lookup(in.Into)
		}
	}

	f, ok := s.lookup(name)
	if !ok || f.IsDerived() {
		return nil, false
	}

	return f, true
}

func (s *Schema) isInitOnly(name string) bool {
	for _, in := range s.initOnly {
		if in.Name == name {
			return true
		}
	}

	return false
}

func (s *Schema) settableNames() []string {
	names := make([]string, 0, len(s.fields)+len(s.initOnly))
	for _, f := range s.fields {
		if !f.IsDerived() {
			names = append(names, f.Name)
		}
	}

	for _, in := range s.initOnly {
		names = append(names, in.Name)
	}

	return names
}

func (s *Schema) unknown(name string, raw any, prefix string) *ValidationError {
	fe := FieldError{
		Field:       joinPath(prefix, name),
		Value:       raw,
		Reason:      ReasonUnknownField,
		Message:     fmt.Sprintf("%s has no settable field %q", s.name, name),
		Suggestions: match.Suggest(name, s.settableNames(), match.DefaultSuggestions),
	}

	if f, ok := s.lookup(name); ok && f.IsDerived() {
		fe.Message = fmt.Sprintf("field %q is derived and cannot be set", name)
		fe.Suggestions = nil
	}

	return &ValidationError{Record: s.name, Errors: []FieldError{fe}}
}

// allowed resolves the coercion categories: field, then call options, then schema.
func (s *Schema) allowed(f *Field, o options.Options) primitive.CategoryEnum {
	switch {
	case f.Coercion != 0:
		return f.Coercion
	case o.CoercionSet:
		return o.Coercion
	default:
		return s.coercion
	}
}
