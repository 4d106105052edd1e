package store

import (
	"recordkit/options"
	"recordkit/primitive"
	"recordkit/record"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 15
)

// PaginationSchema never rejects its inputs: anything that is not a positive
// page or a per_page of at least one falls back to the default.
var PaginationSchema = record.MustSchema("Pagination", []record.Field{
	{
		Name:             "page",
		Kind:             primitive.KindInt,
		Default:          DefaultPage,
		ExclusiveMinimum: record.Float(0),
		OnInvalid:        record.UseDefault,
		Coercion:         record.CoercionNumeric,
	},
	{
		Name:      "per_page",
		Kind:      primitive.KindInt,
		Default:   DefaultPerPage,
		Minimum:   record.Float(1),
		OnInvalid: record.UseDefault,
		Coercion:  record.CoercionNumeric,
	},
}, record.WithInitOnly(
	record.InitOnly{Name: "page_input", Into: "page"},
	record.InitOnly{Name: "per_page_input", Into: "per_page"},
))

// Pagination is the typed view of a PaginationSchema record.
type Pagination struct {
	Page    int
	PerPage int
}

// NewPagination normalizes raw page inputs of any type.
func NewPagination(page, perPage any, opts ...options.Option) (Pagination, error) {
	r, err := PaginationSchema.Construct(map[string]any{
		"page_input":     page,
		"per_page_input": perPage,
	}, opts...)
	if err != nil {
		return Pagination{}, err
	}

	return Pagination{Page: r.Int("page"), PerPage: r.Int("per_page")}, nil
}

// Offset is the number of items before the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func (p Pagination) Limit() int {
	return p.PerPage
}
