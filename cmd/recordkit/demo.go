package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"recordkit/options"
	"recordkit/store"
	"recordkit/warehouse"
)

func (a *App) demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Print the demonstration records",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}

			for _, step := range []struct {
				title string
				run   func(io.Writer, []options.Option) error
			}{
				{"order", demoOrder},
				{"pagination", demoPagination},
				{"validated order", demoValidatedOrder},
				{"input", demoInput},
				{"conventional order", demoConventional},
			} {
				fmt.Fprintf(a.out, "== %s\n", step.title)

				if err := step.run(a.out, opts); err != nil {
					return fmt.Errorf("%s: %w", step.title, err)
				}
			}

			return nil
		},
	}
}

func demoOrderInput(productID any) map[string]any {
	return map[string]any{
		"order_id":  1,
		"client_id": 1,
		"products": []any{
			map[string]any{"product_id": productID, "name": "Product 1", "price": 20},
		},
	}
}

func demoOrder(w io.Writer, opts []options.Option) error {
	r, err := store.OrderSchema.Construct(demoOrderInput(1), opts...)
	if err != nil {
		return err
	}

	export, err := json.Marshal(r.Export())
	if err != nil {
		return err
	}

	tuple, err := json.Marshal(r.ExportTuple())
	if err != nil {
		return err
	}

	fmt.Fprintln(w, r)
	fmt.Fprintln(w, string(export))
	fmt.Fprintln(w, string(tuple))

	return nil
}

func demoPagination(w io.Writer, opts []options.Option) error {
	defaults, err := store.PaginationSchema.Construct(map[string]any{"page_input": 0, "per_page_input": 0}, opts...)
	if err != nil {
		return err
	}

	coerced, err := store.PaginationSchema.Construct(map[string]any{"page_input": "2", "per_page_input": "2"}, opts...)
	if err != nil {
		return err
	}

	again, err := store.PaginationSchema.Construct(map[string]any{"page_input": 0, "per_page_input": 0}, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, defaults)
	fmt.Fprintln(w, coerced)
	fmt.Fprintln(w, defaults.Equal(again))

	return nil
}

func demoValidatedOrder(w io.Writer, opts []options.Option) error {
	r, err := store.ValidatedOrderSchema.Construct(demoOrderInput("1"), opts...)
	if err != nil {
		return err
	}

	doc, err := store.ValidatedOrderSchema.DescribeSchema()
	if err != nil {
		return err
	}

	schema, err := doc.MarshalIndent()
	if err != nil {
		return err
	}

	dump, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return err
	}

	fmt.Fprintln(w, r)
	fmt.Fprintln(w, string(schema))
	fmt.Fprintln(w, string(dump))

	return nil
}

func demoInput(w io.Writer, opts []options.Option) error {
	r, err := store.InputSchema.Construct(map[string]any{"name": "Ana"}, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, r)

	if _, err := store.InputSchema.Construct(map[string]any{"name": ""}, opts...); err != nil {
		fmt.Fprintln(w, err)
	}

	return nil
}

func demoConventional(w io.Writer, _ []options.Option) error {
	o, err := warehouse.FromMap(map[string]any{"order_id": 1, "product_id": 1, "quantity": 2, "price": 10})
	if err != nil {
		return err
	}

	other := warehouse.Order{OrderID: 1, ProductID: 9, Quantity: 1, Price: 99}

	fmt.Fprintln(w, o)
	fmt.Fprintln(w, o.Total())
	fmt.Fprintln(w, o.Equal(other))

	return nil
}
