package declare

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"recordkit/internal/match"
	"recordkit/record"
)

var ErrUnknownRecord = errors.New("unknown record")

// Catalog holds the schemas built from a declaration file, in file order.
type Catalog struct {
	order   []string
	schemas map[string]*record.Schema
}

// Names returns the record names in file order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.order)
}

// Lookup returns the schema of the named record.
func (c *Catalog) Lookup(name string) (*record.Schema, bool) {
	s, ok := c.schemas[name]
	return s, ok
}

// Schema is Lookup with an error suggesting the closest record names.
func (c *Catalog) Schema(name string) (*record.Schema, error) {
	if s, ok := c.schemas[name]; ok {
		return s, nil
	}

	err := fmt.Errorf("%w %q", ErrUnknownRecord, name)
	if sugg := match.Suggest(name, c.order, match.DefaultSuggestions); len(sugg) > 0 {
		err = fmt.Errorf("%w (did you mean %s?)", err, strings.Join(sugg, ", "))
	}

	return nil, err
}
