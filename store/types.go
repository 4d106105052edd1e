// Package store declares the demonstration records: products, orders built
// from them, a pagination request and a minimal input payload.
package store

import (
	"time"

	"recordkit/primitive"
	"recordkit/record"
)

// ProductSchema is a sellable item. Only whole-number safe conversions are accepted.
var ProductSchema = record.MustSchema("Product", productFields())

// OrderSchema holds products and derives its total from their prices.
var OrderSchema = record.MustSchema("Order", orderFields(ProductSchema))

// ValidatedProductSchema is ProductSchema with lax coercion ("1" is accepted as 1).
var ValidatedProductSchema = record.MustSchema("Product", productFields(),
	record.WithCoercion(record.CoercionLax),
	record.WithDescription("A product available for sale."),
)

// ValidatedOrderSchema is OrderSchema with lax coercion. It is the shape used
// for schema export and JSON dumps.
var ValidatedOrderSchema = record.MustSchema("Order", orderFields(ValidatedProductSchema),
	record.WithCoercion(record.CoercionLax),
	record.WithDescription("A client order and the products it contains."),
)

// InputSchema is a payload whose name must be a non-empty string.
var InputSchema = record.MustSchema("Input", []record.Field{
	{Name: "name", Kind: primitive.KindString, Normalize: record.StrNotEmpty},
})

func productFields() []record.Field {
	return []record.Field{
		{Name: "product_id", Kind: primitive.KindInt},
		{Name: "name", Kind: primitive.KindString, NotEmpty: true},
		{Name: "price", Kind: primitive.KindFloat64},
		{Name: "description", Kind: primitive.KindString, Optional: true},
	}
}

func orderFields(product *record.Schema) []record.Field {
	return []record.Field{
		{Name: "order_id", Kind: primitive.KindInt},
		{Name: "client_id", Kind: primitive.KindInt},
		{
			Name:        "total",
			Kind:        primitive.KindFloat64,
			Derive:      record.Sum("products", "price"),
			Description: "Sum of the product prices.",
		},
		{Name: "products", Kind: primitive.KindList, Schema: product, Default: []any{}},
		{
			Name:        "created_at",
			Kind:        primitive.KindTime,
			Factory:     func(now time.Time) any { return now },
			Bookkeeping: true,
		},
	}
}

var catalog = map[string]*record.Schema{
	"Product":          ProductSchema,
	"Order":            OrderSchema,
	"ValidatedProduct": ValidatedProductSchema,
	"ValidatedOrder":   ValidatedOrderSchema,
	"Pagination":       PaginationSchema,
	"Input":            InputSchema,
}

// Names lists the catalog names accepted by Lookup.
func Names() []string {
	return []string{"Product", "Order", "ValidatedProduct", "ValidatedOrder", "Pagination", "Input"}
}

// Lookup returns a demonstration schema by catalog name.
func Lookup(name string) (*record.Schema, bool) {
	s, ok := catalog[name]
	return s, ok
}
