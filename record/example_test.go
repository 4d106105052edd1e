package record_test

import (
	"fmt"

	"recordkit/options"
	"recordkit/primitive"
	"recordkit/record"
)

func ExampleSchema_Construct() {
	r, err := order.Construct(map[string]any{
		"order_id":  1,
		"client_id": 1,
		"products": []any{
			map[string]any{"product_id": 1, "name": "Product 1", "price": 20},
		},
	}, options.WithClock(clock))
	if err != nil {
		panic(err)
	}

	fmt.Println(r)
	fmt.Println(r.Export().Keys())
	fmt.Println(r.ExportTuple()[:4]...)

	// Output:
	// Order(order_id=1, client_id=1, total=20, products=[Product(product_id=1, name="Product 1", price=20)], created_at=2024-01-02T03:04:05Z)
	// [order_id client_id total products created_at]
	// 1 1 20 [[1 Product 1 20]]
}

func ExampleSchema_Construct_initOnly() {
	defaults, _ := pagination.Construct(map[string]any{"page_input": 0, "per_page_input": 0})
	coerced, _ := pagination.Construct(map[string]any{"page_input": "2", "per_page_input": "2"})

	fmt.Println(defaults)
	fmt.Println(coerced)
	fmt.Println(defaults.Equal(coerced))

	// Output:
	// Pagination(page=1, per_page=15)
	// Pagination(page=2, per_page=2)
	// false
}

func ExampleValidationError() {
	_, err := product.Construct(map[string]any{"product_id": "1", "nmae": "Product 1", "price": 20})
	fmt.Println(err)

	// Output:
	// record Product: 3 invalid fields: nmae: unknown_field: Product has no settable field "nmae" (did you mean name?); product_id: wrong_type: cannot convert 1 (KindString) to KindInt: conversion is not allowed; name: missing: required field is not supplied
}

func ExampleSum() {
	cart := record.MustSchema("Cart", []record.Field{
		{Name: "prices", Kind: primitive.KindList, Elem: primitive.KindFloat64},
		{Name: "total", Kind: primitive.KindFloat64, Derive: record.Sum("prices", "")},
	})

	r := cart.MustConstruct(map[string]any{"prices": []float64{20, 5, 7.5}})
	fmt.Println(r.Float("total"))

	// Output:
	// 32.5
}
