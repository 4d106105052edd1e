package declare

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"recordkit/internal/common"
)

// File is the root of a declaration file.
type File struct {
	Version string       `yaml:"version"`
	Records []RecordDecl `yaml:"records"`
}

// RecordDecl declares one record schema.
type RecordDecl struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Coercion    string         `yaml:"coercion,omitempty"`
	Equality    StringOrArray  `yaml:"equality,omitempty"`
	InitOnly    []InitOnlyDecl `yaml:"init_only,omitempty"`
	Fields      []FieldDecl    `yaml:"fields"`
}

// InitOnlyDecl declares a constructor-time input routed into the field Into.
type InitOnlyDecl struct {
	Name string `yaml:"name"`
	Into string `yaml:"into"`
}

// FieldDecl declares one field.
//
// Type is a kind name (int, float64, string, time, list, ...) or the name of
// another record of the same file. Of names the element of a list: a record
// name or a scalar kind.
type FieldDecl struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Of          string `yaml:"of,omitempty"`
	Description string `yaml:"description,omitempty"`

	// Default is a literal value, or "now" for time fields.
	Default any `yaml:"default,omitempty"`
	// Derive is an expression: sum(list.attr), sum(list), count(list) or product(a, b).
	Derive string `yaml:"derive,omitempty"`

	Optional    bool `yaml:"optional,omitempty"`
	NotEmpty    bool `yaml:"not_empty,omitempty"`
	Bookkeeping bool `yaml:"bookkeeping,omitempty"`

	Min          *float64 `yaml:"min,omitempty"`
	ExclusiveMin *float64 `yaml:"exclusive_min,omitempty"`
	Max          *float64 `yaml:"max,omitempty"`
	MinLength    *int     `yaml:"min_length,omitempty"`
	MaxLength    *int     `yaml:"max_length,omitempty"`

	// OnInvalid is "reject" (default) or "use_default".
	OnInvalid string `yaml:"on_invalid,omitempty"`
	// Coercion overrides the record coercion preset for this field.
	Coercion string `yaml:"coercion,omitempty"`
	// Normalize names a registered normalizer.
	Normalize string `yaml:"normalize,omitempty"`
}

// StringOrArray accepts either a single string or a list of strings.
type StringOrArray []string

func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if common.IsSingle(s) {
		return s[0], nil
	}

	return []string(s), nil
}
