package store_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recordkit/options"
	"recordkit/record"
	"recordkit/store"
)

var fixed = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func clock() time.Time { return fixed }

func rawOrder(productID any) map[string]any {
	return map[string]any{
		"order_id":  1,
		"client_id": 1,
		"products": []any{
			map[string]any{"product_id": productID, "name": "Product 1", "price": 20},
		},
	}
}

func TestOrder(t *testing.T) {
	r, err := store.OrderSchema.Construct(rawOrder(1), options.WithClock(clock))
	require.NoError(t, err)

	assert.Equal(t, 20.0, r.Float("total"))
	assert.Equal(t,
		`Order(order_id=1, client_id=1, total=20, products=[Product(product_id=1, name="Product 1", price=20, description=nil)], created_at=2024-01-02T03:04:05Z)`,
		r.String())
	assert.Equal(t, []any{1, 1, 20.0, []any{[]any{1, "Product 1", 20.0, nil}}, fixed}, r.ExportTuple())
}

func TestOrderIsStrict(t *testing.T) {
	_, err := store.OrderSchema.Construct(rawOrder("1"))

	var verr *record.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "products[0].product_id", verr.Errors[0].Field)
	assert.True(t, errors.Is(err, record.ErrWrongType))
}

func TestOrderRejectsNonFinitePrice(t *testing.T) {
	for _, price := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		raw := rawOrder(1)
		raw["products"].([]any)[0].(map[string]any)["price"] = price

		_, err := store.OrderSchema.Construct(raw, options.WithClock(clock))

		var verr *record.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Errors, 1)
		assert.Equal(t, "products[0].price", verr.Errors[0].Field)
		assert.True(t, errors.Is(err, record.ErrOutOfRange))
	}
}

func TestValidatedOrder(t *testing.T) {
	r, err := store.ValidatedOrderSchema.Construct(rawOrder("1"), options.WithClock(clock))
	require.NoError(t, err)

	assert.Equal(t, 1, r.Records("products")[0].Int("product_id"))

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"order_id":1,"client_id":1,"total":20,"products":[{"product_id":1,"name":"Product 1","price":20,"description":null}],"created_at":"2024-01-02T03:04:05Z"}`,
		string(data))
}

func TestValidatedOrderSchemaDescription(t *testing.T) {
	doc, err := store.ValidatedOrderSchema.DescribeSchema()
	require.NoError(t, err)

	assert.Equal(t, []string{"order_id", "client_id", "total", "products", "created_at"}, doc.Properties.Keys())
	assert.Equal(t, []string{"order_id", "client_id"}, doc.Required)

	total, ok := doc.Properties.Get("total")
	require.True(t, ok)
	assert.True(t, total.ReadOnly)
	assert.Equal(t, "number", total.Type)

	products, ok := doc.Properties.Get("products")
	require.True(t, ok)
	assert.Equal(t, "array", products.Type)
	assert.Equal(t, "Product", products.Items.Resolve(doc).Title)

	require.Contains(t, doc.Defs, "Product")
	assert.Equal(t, []string{"product_id", "name", "price"}, doc.Defs["Product"].Required)
}

func TestOrderEqualityIgnoresCreation(t *testing.T) {
	a, err := store.OrderSchema.Construct(rawOrder(1), options.WithClock(clock))
	require.NoError(t, err)

	b, err := store.OrderSchema.Construct(rawOrder(1), options.WithClock(func() time.Time {
		return fixed.Add(time.Hour)
	}))
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(nil))

	require.NoError(t, b.Set("client_id", 2))
	assert.False(t, a.Equal(b))
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name          string
		page, perPage any
		want          store.Pagination
		offset        int
	}{
		{"zeros", 0, 0, store.Pagination{Page: 1, PerPage: 15}, 0},
		{"text", "2", "2", store.Pagination{Page: 2, PerPage: 2}, 2},
		{"garbage", "x", map[string]any{}, store.Pagination{Page: 1, PerPage: 15}, 0},
		{"nil", nil, nil, store.Pagination{Page: 1, PerPage: 15}, 0},
		{"third page", 3, 10, store.Pagination{Page: 3, PerPage: 10}, 20},
		{"time", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), fixed, store.Pagination{Page: 1, PerPage: 15}, 0},
		{"duration", time.Hour, time.Second, store.Pagination{Page: 1, PerPage: 15}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := store.NewPagination(tt.page, tt.perPage)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
			assert.Equal(t, tt.offset, p.Offset())
			assert.Equal(t, tt.want.PerPage, p.Limit())
		})
	}
}

func TestPaginationEquality(t *testing.T) {
	a, err := store.PaginationSchema.Construct(map[string]any{"page_input": 0, "per_page_input": 0})
	require.NoError(t, err)

	b, err := store.PaginationSchema.Construct(map[string]any{"page_input": 0, "per_page_input": 0})
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.Len(t, a.Repairs(), 2)
}

func TestInput(t *testing.T) {
	r, err := store.InputSchema.Construct(map[string]any{"name": "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", r.Text("name"))

	for _, raw := range []map[string]any{{"name": ""}, {}} {
		_, err := store.InputSchema.Construct(raw)

		var verr *record.ValidationError
		require.ErrorAs(t, err, &verr)
		fe, ok := verr.Field("name")
		require.True(t, ok)
		assert.Equal(t, record.ReasonMissing, fe.Reason)
	}
}

func TestLookup(t *testing.T) {
	for _, name := range store.Names() {
		s, ok := store.Lookup(name)
		require.True(t, ok, name)
		assert.NotNil(t, s)
	}

	_, ok := store.Lookup("Customer")
	assert.False(t, ok)
}
