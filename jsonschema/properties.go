package jsonschema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Properties is an insertion-ordered set of property schemas.
type Properties struct {
	keys   []string
	values map[string]*Schema
}

func NewProperties() *Properties {
	return &Properties{values: make(map[string]*Schema)}
}

// Set adds or replaces a property, keeping the original position on replace.
func (p *Properties) Set(name string, s *Schema) {
	if p.values == nil {
		p.values = make(map[string]*Schema)
	}

	if _, ok := p.values[name]; !ok {
		p.keys = append(p.keys, name)
	}

	p.values[name] = s
}

func (p *Properties) Get(name string) (*Schema, bool) {
	if p == nil {
		return nil, false
	}

	s, ok := p.values[name]

	return s, ok
}

func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}

	return append([]string(nil), p.keys...)
}

func (p *Properties) Len() int {
	if p == nil {
		return 0
	}

	return len(p.keys)
}

func (p *Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, key := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}

		v, err := json.Marshal(p.values[key])
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", key, err)
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("properties: expected object, got %v", tok)
	}

	*p = Properties{values: make(map[string]*Schema)}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}

		key, _ := tok.(string)

		var s Schema
		if err := dec.Decode(&s); err != nil {
			return fmt.Errorf("property %q: %w", key, err)
		}

		p.Set(key, &s)
	}

	_, err = dec.Token()

	return err
}

func (p *Properties) MarshalYAML() (any, error) {
	out := &yaml.Node{Kind: yaml.MappingNode}

	for _, key := range p.keys {
		var value yaml.Node
		if err := value.Encode(p.values[key]); err != nil {
			return nil, fmt.Errorf("property %q: %w", key, err)
		}

		out.Content = append(out.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, &value)
	}

	return out, nil
}
