package record

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Entry is one exported field.
type Entry struct {
	Key   string
	Value any
}

// OrderedMap is an export in declaration order. Nested records are exported
// as OrderedMaps and lists of records as []any of OrderedMaps.
type OrderedMap []Entry

// Export dumps every field, derived and nested ones included, in declaration order.
func (r *Record) Export() OrderedMap {
	out := make(OrderedMap, len(r.schema.fields))
	for i, f := range r.schema.fields {
		out[i] = Entry{Key: f.Name, Value: exportValue(r.values[f.index])}
	}

	return out
}

// ExportTuple dumps every field value in declaration order. Nested records
// become nested []any tuples.
func (r *Record) ExportTuple() []any {
	out := make([]any, len(r.schema.fields))
	for i, f := range r.schema.fields {
		out[i] = tupleValue(r.values[f.index])
	}

	return out
}

func exportValue(v any) any {
	switch t := v.(type) {
	case *Record:
		return t.Export()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = exportValue(item)
		}

		return out
	default:
		return v
	}
}

func tupleValue(v any) any {
	switch t := v.(type) {
	case *Record:
		return t.ExportTuple()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = tupleValue(item)
		}

		return out
	default:
		return v
	}
}

// Get returns the value of the key.
func (m OrderedMap) Get(key string) (any, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}

	return nil, false
}

// Keys returns the keys in order.
func (m OrderedMap) Keys() []string {
	out := make([]string, len(m))
	for i, e := range m {
		out[i] = e.Key
	}

	return out
}

// ToMap converts the export, nested values included, into plain maps.
func (m OrderedMap) ToMap() map[string]any {
	out := make(map[string]any, len(m))
	for _, e := range m {
		out[e.Key] = plain(e.Value)
	}

	return out
}

func plain(v any) any {
	switch t := v.(type) {
	case OrderedMap:
		return t.ToMap()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plain(item)
		}

		return out
	default:
		return v
	}
}

func (m OrderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}

		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", e.Key, err)
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func (m OrderedMap) MarshalYAML() (any, error) {
	out := &yaml.Node{Kind: yaml.MappingNode}

	for _, e := range m {
		var value yaml.Node
		if err := value.Encode(e.Value); err != nil {
			return nil, fmt.Errorf("field %q: %w", e.Key, err)
		}

		out.Content = append(out.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key}, &value)
	}

	return out, nil
}

func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Export())
}

func (r *Record) MarshalYAML() (any, error) {
	return r.Export().MarshalYAML()
}
