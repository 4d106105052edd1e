// Package warehouse holds a conventional hand-written order next to the same
// shape declared as a record, for comparison.
package warehouse

import (
	"errors"
	"fmt"
	"strconv"

	"recordkit/primitive"
	"recordkit/record"
)

// Order is written by hand: every field, the total, the rendering and the
// equality are spelled out.
type Order struct {
	OrderID   int
	ProductID int
	Quantity  int
	Price     float64
}

// FromMap builds an Order from keyword data. Missing keys keep their zero value.
func FromMap(data map[string]any) (Order, error) {
	var (
		o    Order
		errs []error
	)

	set := func(key string, kind primitive.KindEnum, assign func(v any)) {
		raw, ok := data[key]
		if !ok || raw == nil {
			return
		}

		v, err := primitive.Coerce(raw, kind, record.CoercionLax)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}

		assign(v)
	}

	set("order_id", primitive.KindInt, func(v any) { o.OrderID = v.(int) })
	set("product_id", primitive.KindInt, func(v any) { o.ProductID = v.(int) })
	set("quantity", primitive.KindInt, func(v any) { o.Quantity = v.(int) })
	set("price", primitive.KindFloat64, func(v any) { o.Price = v.(float64) })

	return o, errors.Join(errs...)
}

func (o Order) Total() float64 {
	return float64(o.Quantity) * o.Price
}

func (o Order) String() string {
	return fmt.Sprintf("Order(order_id=%d, product_id=%d, quantity=%d, price=%s)",
		o.OrderID, o.ProductID, o.Quantity, strconv.FormatFloat(o.Price, 'f', -1, 64))
}

// Equal compares order ids only.
func (o Order) Equal(other Order) bool {
	return o.OrderID == other.OrderID
}

// OrderSchema declares Order as a record. Equality is keyed on order_id and
// total is derived.
var OrderSchema = record.MustSchema("Order", []record.Field{
	{Name: "order_id", Kind: primitive.KindInt},
	{Name: "product_id", Kind: primitive.KindInt},
	{Name: "quantity", Kind: primitive.KindInt, Minimum: record.Float(0)},
	{Name: "price", Kind: primitive.KindFloat64, Minimum: record.Float(0)},
	{Name: "total", Kind: primitive.KindFloat64, Derive: record.Product("quantity", "price")},
},
	record.WithCoercion(record.CoercionLax),
	record.WithEquality("order_id"),
)

// Record converts the hand-written order into an OrderSchema record.
func (o Order) Record() (*record.Record, error) {
	return OrderSchema.Construct(map[string]any{
		"order_id":   o.OrderID,
		"product_id": o.ProductID,
		"quantity":   o.Quantity,
		"price":      o.Price,
	})
}
