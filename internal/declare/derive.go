package declare

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"recordkit/record"
)

var (
	ErrBadDerive     = errors.New("invalid derive expression")
	ErrUnknownDerive = errors.New("unknown derive function")
)

var callRe = regexp.MustCompile(`^([a-z_]+)\s*\((.*)\)$`)

// Derivation is a parsed derive expression.
type Derivation struct {
	Func string
	// List and Attr are set for sum and count.
	List string
	Attr string
	// Factors are set for product.
	Factors [2]string
}

// ParseDerive parses sum(list.attr), sum(list), count(list) and product(a, b).
func ParseDerive(expr string) (Derivation, error) {
	m := callRe.FindStringSubmatch(strings.TrimSpace(expr))
	if m == nil {
		return Derivation{}, fmt.Errorf("%w: %q", ErrBadDerive, expr)
	}

	d := Derivation{Func: m[1]}
	args := splitArgs(m[2])

	switch d.Func {
	case "sum", "count":
		if len(args) != 1 {
			return Derivation{}, fmt.Errorf("%w: %s takes one argument, got %d", ErrBadDerive, d.Func, len(args))
		}

		d.List, d.Attr, _ = strings.Cut(args[0], ".")
		if d.List == "" || (d.Func == "count" && d.Attr != "") {
			return Derivation{}, fmt.Errorf("%w: %q", ErrBadDerive, expr)
		}

	case "product":
		if len(args) != 2 {
			return Derivation{}, fmt.Errorf("%w: product takes two arguments, got %d", ErrBadDerive, len(args))
		}

		d.Factors = [2]string{args[0], args[1]}

	default:
		return Derivation{}, fmt.Errorf("%w: %q", ErrUnknownDerive, d.Func)
	}

	return d, nil
}

func splitArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return parts
}

// Fields returns the fields of the record the expression reads.
func (d Derivation) Fields() []string {
	if d.Func == "product" {
		return d.Factors[:]
	}

	return []string{d.List}
}

// Compile returns the derive function of the expression.
func (d Derivation) Compile() func(r *record.Record) (any, error) {
	switch d.Func {
	case "sum":
		return record.Sum(d.List, d.Attr)
	case "count":
		return record.Count(d.List)
	default:
		return record.Product(d.Factors[0], d.Factors[1])
	}
}

func (d Derivation) String() string {
	switch {
	case d.Func == "product":
		return fmt.Sprintf("product(%s, %s)", d.Factors[0], d.Factors[1])
	case d.Attr != "":
		return fmt.Sprintf("%s(%s.%s)", d.Func, d.List, d.Attr)
	default:
		return fmt.Sprintf("%s(%s)", d.Func, d.List)
	}
}
