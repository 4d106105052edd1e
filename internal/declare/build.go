package declare

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"recordkit/internal/common"
	"recordkit/internal/diagnostic"
	"recordkit/internal/match"
	"recordkit/primitive"
	"recordkit/record"
)

// Version is the supported declaration file version.
const Version = "1"

// normalizers are the custom normalizers a declaration may name.
var normalizers = map[string]any{
	"not_empty": record.StrNotEmpty,
	"trimmed":   record.StrTrimmed,
}

// Build turns a parsed file into record schemas. Records may reference each
// other in any order. Every problem is reported in the returned diagnostics;
// records that could not be built are left out of the catalog.
func Build(f *File) (*Catalog, *diagnostic.Diagnostics) {
	diags := &diagnostic.Diagnostics{}
	cat := &Catalog{schemas: make(map[string]*record.Schema)}

	if f == nil {
		diags.AddError("file_is_nil", "declaration file is nil", "", "", nil)
		return cat, diags
	}

	if f.Version != Version {
		diags.AddError("unsupported_version", fmt.Sprintf("version %q is not supported, want %q", f.Version, Version), "", "", f.Version)
		return cat, diags
	}

	b := &builder{file: f, diags: diags, index: make(map[string]int, len(f.Records))}
	b.indexRecords()

	order, stuck, err := topoSort(len(f.Records), b.deps)
	if err != nil && !errors.Is(err, errCycle) {
		diags.AddError("record_order", err.Error(), "", "", nil)
		return cat, diags
	}

	for _, i := range stuck {
		rd := &f.Records[i]
		diags.AddError("record_cycle", fmt.Sprintf("record %q is in or depends on a reference cycle", rd.Name), rd.Name, "", nil)
	}

	built := make(map[string]*record.Schema, len(order))

	for _, i := range order {
		rd := &f.Records[i]
		if b.skip[i] {
			continue
		}

		if s, ok := b.record(rd, built); ok {
			built[rd.Name] = s
		}
	}

	for i := range f.Records {
		name := f.Records[i].Name
		if s, ok := built[name]; ok && b.index[name] == i {
			cat.order = append(cat.order, name)
			cat.schemas[name] = s
		}
	}

	return cat, diags
}

type builder struct {
	file  *File
	diags *diagnostic.Diagnostics
	index map[string]int
	skip  map[int]bool
}

func (b *builder) indexRecords() {
	b.skip = make(map[int]bool)

	for i := range b.file.Records {
		name := b.file.Records[i].Name

		switch _, dup := b.index[name]; {
		case name == "":
			b.diags.AddError("empty_name", fmt.Sprintf("record #%d has no name", i+1), "", "", nil)
			b.skip[i] = true
		case dup:
			b.diags.AddError("duplicate_record", fmt.Sprintf("record %q is declared twice", name), name, "", nil)
			b.skip[i] = true
		default:
			b.index[name] = i
		}
	}
}

// deps lists the records referenced by the fields of record i.
func (b *builder) deps(i int) []int {
	var out []int

	for _, fd := range b.file.Records[i].Fields {
		for _, ref := range []string{fd.Type, fd.Of} {
			if j, ok := b.index[ref]; ok && !slices.Contains(out, j) {
				out = append(out, j)
			}
		}
	}

	return out
}

func (b *builder) decl(name string) (*RecordDecl, bool) {
	i, ok := b.index[name]
	if !ok {
		return nil, false
	}

	return &b.file.Records[i], true
}

func (b *builder) record(rd *RecordDecl, built map[string]*record.Schema) (*record.Schema, bool) {
	before := len(b.diags.Errors)

	opts := []record.SchemaOption{record.WithDescription(rd.Description)}

	if allowed, ok := record.ParseCoercion(rd.Coercion); ok {
		opts = append(opts, record.WithCoercion(allowed))
	} else {
		b.diags.AddError("unknown_coercion", fmt.Sprintf("coercion %q is not one of strict, lax, numeric, all", rd.Coercion), rd.Name, "", rd.Coercion)
	}

	if !common.IsEmpty(rd.Equality) {
		opts = append(opts, record.WithEquality(rd.Equality...))
	}

	if len(rd.InitOnly) > 0 {
		inputs := make([]record.InitOnly, len(rd.InitOnly))
		for i, in := range rd.InitOnly {
			inputs[i] = record.InitOnly{Name: in.Name, Into: in.Into}
		}

		opts = append(opts, record.WithInitOnly(inputs...))
	}

	fields := make([]record.Field, 0, len(rd.Fields))

	for i := range rd.Fields {
		if f, ok := b.field(rd, &rd.Fields[i], built); ok {
			fields = append(fields, f)
		}
	}

	if len(b.diags.Errors) > before {
		return nil, false
	}

	s, err := record.NewSchema(rd.Name, fields, opts...)
	if err != nil {
		var de *record.DeclarationError
		if errors.As(err, &de) {
			b.diags.Merge(de.Diagnostics)
		} else {
			b.diags.AddError("bad_record", err.Error(), rd.Name, "", nil)
		}

		return nil, false
	}

	return s, true
}

func (b *builder) field(rd *RecordDecl, fd *FieldDecl, built map[string]*record.Schema) (record.Field, bool) {
	ok := true
	fail := func(code, format string, args ...any) {
		b.diags.AddError(code, fmt.Sprintf(format, args...), rd.Name, fd.Name, nil)
		ok = false
	}

	f := record.Field{
		Name:             fd.Name,
		Description:      fd.Description,
		Optional:         fd.Optional,
		NotEmpty:         fd.NotEmpty,
		Bookkeeping:      fd.Bookkeeping,
		Minimum:          fd.Min,
		ExclusiveMinimum: fd.ExclusiveMin,
		Maximum:          fd.Max,
		MinLength:        fd.MinLength,
		MaxLength:        fd.MaxLength,
	}

	if !b.kind(rd, fd, &f, built) {
		ok = false
	}

	switch {
	case fd.Default == "now" && f.Kind == primitive.KindTime:
		f.Factory = func(now time.Time) any { return now }
	default:
		f.Default = fd.Default
	}

	if fd.Optional && fd.Default != nil {
		b.diags.AddWarning("optional_with_default", "optional field declares a default, the default wins", rd.Name, fd.Name, fd.Default)
	}

	if fd.Derive != "" {
		d, err := ParseDerive(fd.Derive)
		if err != nil {
			fail("bad_derive", "%v", err)
		} else if b.checkDerive(rd, fd, d) {
			f.Derive = d.Compile()
		} else {
			ok = false
		}
	}

	if policy, known := record.ParsePolicy(fd.OnInvalid); known {
		f.OnInvalid = policy
	} else {
		fail("unknown_policy", "on_invalid %q is not one of reject, use_default", fd.OnInvalid)
	}

	if fd.Coercion != "" {
		if allowed, known := record.ParseCoercion(fd.Coercion); known {
			f.Coercion = allowed
		} else {
			fail("unknown_coercion", "coercion %q is not one of strict, lax, numeric, all", fd.Coercion)
		}
	}

	if fd.Normalize != "" {
		if fn, known := normalizers[fd.Normalize]; known {
			f.Normalize = fn
		} else {
			b.diags.Add(diagnostic.Diagnostic{
				Severity:    diagnostic.DiagnosticError,
				Code:        "unknown_normalizer",
				Message:     fmt.Sprintf("normalizer %q is not registered", fd.Normalize),
				Scope:       rd.Name,
				FieldPath:   fd.Name,
				Suggestions: match.Suggest(fd.Normalize, mapKeys(normalizers), match.DefaultSuggestions),
			})
			ok = false
		}
	}

	return f, ok
}

// kind resolves Type and Of into the field kind, element kind and nested schema.
func (b *builder) kind(rd *RecordDecl, fd *FieldDecl, f *record.Field, built map[string]*record.Schema) bool {
	if fd.Type == "" {
		b.diags.AddError("missing_type", "field has no type", rd.Name, fd.Name, nil)
		return false
	}

	kind, isKind := primitive.ParseKind(fd.Type)
	ref := fd.Of

	switch {
	case !isKind:
		if _, ok := b.index[fd.Type]; !ok {
			b.unknownType(rd, fd, fd.Type)
			return false
		}

		kind, ref = primitive.KindRecord, fd.Type
	case kind == primitive.KindRecord && ref == "":
		b.diags.AddError("missing_of", "record field requires of: <record name>", rd.Name, fd.Name, nil)
		return false
	case kind == primitive.KindList && ref == "":
		ref = primitive.KindAny.TypeName()
	case kind != primitive.KindRecord && kind != primitive.KindList && ref != "":
		b.diags.AddWarning("unused_of", fmt.Sprintf("of is ignored for type %s", fd.Type), rd.Name, fd.Name, ref)
		ref = ""
	}

	f.Kind = kind

	if ref == "" {
		return true
	}

	if elem, ok := primitive.ParseKind(ref); ok && kind == primitive.KindList {
		f.Elem = elem
		return true
	}

	if _, ok := b.index[ref]; !ok {
		b.unknownType(rd, fd, ref)
		return false
	}

	nested, ok := built[ref]
	if !ok {
		b.diags.AddInfo("record_skipped", fmt.Sprintf("record %q references %q, which was not built", rd.Name, ref), rd.Name, fd.Name, nil)
		return false
	}

	f.Schema = nested

	return true
}

func (b *builder) unknownType(rd *RecordDecl, fd *FieldDecl, name string) {
	candidates := make([]string, 0, primitive.KindTotal+len(b.index))
	for k := primitive.KindEnum(1); int(k) < primitive.KindTotal; k++ {
		if k != primitive.KindPrimitiveEnum {
			candidates = append(candidates, k.TypeName())
		}
	}

	candidates = append(candidates, mapKeys(b.index)...)

	b.diags.Add(diagnostic.Diagnostic{
		Severity:    diagnostic.DiagnosticError,
		Code:        "unknown_type",
		Message:     fmt.Sprintf("type %q is neither a kind nor a declared record", name),
		Scope:       rd.Name,
		FieldPath:   fd.Name,
		Suggestions: match.Suggest(name, candidates, match.DefaultSuggestions),
	})
}

// checkDerive reports derive expressions reading fields that do not exist.
func (b *builder) checkDerive(rd *RecordDecl, fd *FieldDecl, d Derivation) bool {
	names := make([]string, 0, len(rd.Fields))
	for _, other := range rd.Fields {
		names = append(names, other.Name)
	}

	ok := true
	report := func(ref string, candidates []string) {
		b.diags.Add(diagnostic.Diagnostic{
			Severity:    diagnostic.DiagnosticError,
			Code:        "unknown_derive_field",
			Message:     fmt.Sprintf("%s reads unknown field %q", d, ref),
			Scope:       rd.Name,
			FieldPath:   fd.Name,
			Suggestions: match.Suggest(ref, candidates, match.DefaultSuggestions),
		})
		ok = false
	}

	for _, ref := range d.Fields() {
		if !slices.Contains(names, ref) {
			report(ref, names)
		}
	}

	if !ok || d.Attr == "" {
		return ok
	}

	list := rd.Fields[slices.Index(names, d.List)]

	nested, found := b.decl(list.Of)
	if !found {
		nested, found = b.decl(list.Type)
	}

	if !found {
		b.diags.AddError("bad_derive", fmt.Sprintf("%s needs %q to be a list of records", d, d.List), rd.Name, fd.Name, nil)
		return false
	}

	attrs := make([]string, 0, len(nested.Fields))
	for _, other := range nested.Fields {
		attrs = append(attrs, other.Name)
	}

	if !slices.Contains(attrs, d.Attr) {
		report(strings.Join([]string{d.List, d.Attr}, "."), attrs)
	}

	return ok
}

func mapKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	slices.Sort(out)

	return out
}
