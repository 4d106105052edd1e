// Package jsonschema holds the JSON-Schema-shaped documents produced for record schemas.
package jsonschema

import (
	"encoding/json"
	"strings"
)

// Draft is the dialect written into the root "$schema" keyword.
const Draft = "https://json-schema.org/draft/2020-12/schema"

const defsPrefix = "#/$defs/"

type Schema struct {
	Schema               string             `json:"$schema,omitempty" yaml:"$schema,omitempty"`
	Ref                  string             `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Title                string             `json:"title,omitempty" yaml:"title,omitempty"`
	Description          string             `json:"description,omitempty" yaml:"description,omitempty"`
	Type                 string             `json:"type,omitempty" yaml:"type,omitempty"`
	Format               string             `json:"format,omitempty" yaml:"format,omitempty"`
	Properties           *Properties        `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required             []string           `json:"required,omitempty" yaml:"required,omitempty"`
	Items                *Schema            `json:"items,omitempty" yaml:"items,omitempty"`
	Default              any                `json:"default,omitempty" yaml:"default,omitempty"`
	ReadOnly             bool               `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	Minimum              *float64           `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	ExclusiveMinimum     *float64           `json:"exclusiveMinimum,omitempty" yaml:"exclusiveMinimum,omitempty"`
	Maximum              *float64           `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	MinLength            *int               `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength            *int               `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	MinItems             *int               `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems             *int               `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
	AnyOf                []*Schema          `json:"anyOf,omitempty" yaml:"anyOf,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
	Defs                 map[string]*Schema `json:"$defs,omitempty" yaml:"$defs,omitempty"`
}

// RefTo returns a schema referencing the named definition.
func RefTo(name string) *Schema {
	return &Schema{Ref: defsPrefix + name}
}

// RefName returns the definition name a "$ref" points to.
func (s *Schema) RefName() (string, bool) {
	if s == nil || !strings.HasPrefix(s.Ref, defsPrefix) {
		return "", false
	}

	return strings.TrimPrefix(s.Ref, defsPrefix), true
}

// Resolve follows a local "$ref" against root definitions.
func (s *Schema) Resolve(root *Schema) *Schema {
	name, ok := s.RefName()
	if !ok || root == nil {
		return s
	}

	if def, ok := root.Defs[name]; ok {
		return def
	}

	return s
}

// Nullable wraps the schema so that null is accepted as well.
func Nullable(s *Schema) *Schema {
	return &Schema{AnyOf: []*Schema{s, {Type: "null"}}}
}

// IsRequired reports whether the property is listed as required.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}

	return false
}

// Float returns a pointer to f, for the numeric constraint keywords.
func Float(f float64) *float64 { return &f }

// Int returns a pointer to n, for the length constraint keywords.
func Int(n int) *int { return &n }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// MarshalIndent renders the document as indented JSON.
func (s *Schema) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
