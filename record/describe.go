package record

import (
	"recordkit/internal/match"
	"recordkit/jsonschema"
	"recordkit/node"
	"recordkit/primitive"
)

// DescribeSchema produces a JSON-Schema document of the record. Nested record
// schemas are emitted once under "$defs" and referenced with "$ref".
func (s *Schema) DescribeSchema() (*jsonschema.Schema, error) {
	var dealer node.Dealer[*Schema]

	dealer.Done(s)

	root, err := s.describeObject(&dealer)
	if err != nil {
		return nil, err
	}

	root.Schema = jsonschema.Draft

	names := map[string]*Schema{s.name: s}

	for {
		nested, ok := dealer.NextNeeds()
		if !ok {
			break
		}

		if other, taken := names[nested.name]; taken && other != nested {
			return nil, &SchemaExportError{Record: nested.name}
		}

		names[nested.name] = nested

		def, err := nested.describeObject(&dealer)
		if err != nil {
			return nil, err
		}

		if root.Defs == nil {
			root.Defs = make(map[string]*jsonschema.Schema)
		}

		root.Defs[nested.name] = def
	}

	return root, nil
}

func (s *Schema) describeObject(dealer *node.Dealer[*Schema]) (*jsonschema.Schema, error) {
	out := &jsonschema.Schema{
		Title:                s.name,
		Description:          s.description,
		Type:                 "object",
		Properties:           jsonschema.NewProperties(),
		AdditionalProperties: jsonschema.Bool(false),
	}

	for _, f := range s.fields {
		prop, err := s.describeField(f, dealer)
		if err != nil {
			return nil, err
		}

		out.Properties.Set(f.Name, prop)

		if f.IsRequired() {
			out.Required = append(out.Required, f.Name)
		}
	}

	return out, nil
}

func (s *Schema) describeField(f *field, dealer *node.Dealer[*Schema]) (*jsonschema.Schema, error) {
	typ, err := s.describeKind(f, f.Kind, dealer)
	if err != nil {
		return nil, err
	}

	if f.Kind == primitive.KindList {
		if f.MinLength != nil {
			typ.MinItems = jsonschema.Int(*f.MinLength)
		}

		if f.MaxLength != nil {
			typ.MaxItems = jsonschema.Int(*f.MaxLength)
		}
	} else {
		typ.MinLength, typ.MaxLength = f.MinLength, f.MaxLength
	}

	if f.NotEmpty && f.Kind == primitive.KindString && typ.MinLength == nil {
		typ.MinLength = jsonschema.Int(1)
	}

	if f.Minimum != nil {
		typ.Minimum = f.Minimum
	}

	typ.ExclusiveMinimum, typ.Maximum = f.ExclusiveMinimum, f.Maximum

	prop := typ
	if f.Optional && !f.HasDefault() && !f.IsDerived() {
		prop = jsonschema.Nullable(typ)
	}

	prop.Title = match.Title(f.Name)
	prop.Description = f.Description
	prop.ReadOnly = f.IsDerived()
	prop.Default = exportValue(f.def)

	return prop, nil
}

func (s *Schema) describeKind(f *field, kind primitive.KindEnum, dealer *node.Dealer[*Schema]) (*jsonschema.Schema, error) {
	switch {
	case kind.IsInteger():
		out := &jsonschema.Schema{Type: "integer"}
		if kind.IsUnsigned() && f.Minimum == nil && f.ExclusiveMinimum == nil {
			out.Minimum = jsonschema.Float(0)
		}

		return out, nil
	case kind.IsFloat():
		return &jsonschema.Schema{Type: "number"}, nil
	case kind == primitive.KindBool:
		return &jsonschema.Schema{Type: "boolean"}, nil
	case kind == primitive.KindString:
		return &jsonschema.Schema{Type: "string"}, nil
	case kind == primitive.KindTime:
		return &jsonschema.Schema{Type: "string", Format: "date-time"}, nil
	case kind == primitive.KindDuration:
		return &jsonschema.Schema{Type: "string", Format: "duration"}, nil
	case kind == primitive.KindRecord:
		dealer.Needs(f.Schema)
		return jsonschema.RefTo(f.Schema.name), nil
	case kind == primitive.KindList:
		var items *jsonschema.Schema
		if f.Schema != nil {
			dealer.Needs(f.Schema)
			items = jsonschema.RefTo(f.Schema.name)
		} else {
			elem, err := s.describeKind(f, f.Elem, dealer)
			if err != nil {
				return nil, err
			}

			items = elem
		}

		return &jsonschema.Schema{Type: "array", Items: items}, nil
	default:
		return nil, &SchemaExportError{Record: s.name, Field: f.Name, Kind: kind}
	}
}
