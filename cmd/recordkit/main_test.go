package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recordkit/internal/declare"
	"recordkit/internal/logger"
	"recordkit/record"
)

const now = "2024-01-02T03:04:05Z"

var shop = filepath.Join("..", "..", "examples", "shop")

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	err := NewApp(strings.NewReader(stdin), &out, &errOut).Execute(args)

	return out.String(), errOut.String(), err
}

func TestConstructFormats(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"tuple", "{}", []string{"-o", "tuple"}, "[1,15]\n"},
		{"yaml", "page: 3", []string{"-o", "yaml"}, "page: 3\nper_page: 15\n"},
		{"repr", "page_input: '2'\nper_page_input: x", []string{"-o", "repr"}, "Pagination(page=2, per_page=15)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"construct", "-r", "Pagination"}, tt.args...)

			out, _, err := run(t, tt.stdin, args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestConstructJSON(t *testing.T) {
	out, _, err := run(t, `{"page_input": "0", "per_page_input": 2}`, "construct", "-r", "Pagination")
	require.NoError(t, err)
	assert.JSONEq(t, `{"page": 1, "per_page": 2}`, out)
}

func TestConstructDump(t *testing.T) {
	out, _, err := run(t, "{}", "construct", "-r", "Pagination", "-o", "dump")
	require.NoError(t, err)

	assert.Contains(t, out, "(record.OrderedMap)")
	assert.Contains(t, out, `Key: (string) (len=4) "page"`)
	assert.Contains(t, out, "Value: (int) 15")
}

func TestConstructFromDeclarations(t *testing.T) {
	out, _, err := run(t, "",
		"construct", "--now", now,
		"-d", filepath.Join(shop, "records.yaml"),
		"-r", "Order",
		"-i", filepath.Join(shop, "Order.yaml"),
		"-o", "repr",
	)
	require.NoError(t, err)
	assert.Equal(t,
		`Order(order_id=1, client_id=1, total=27.5, products=[Product(product_id=1, name="Product 1", price=20, description=nil), Product(product_id=2, name="Product 2", price=7.5, description=nil)], created_at=2024-01-02T03:04:05Z)`+"\n",
		out)
}

func TestConstructCoercionOverride(t *testing.T) {
	in := `{"order_id": "1", "client_id": 1}`

	_, _, err := run(t, in, "construct", "-r", "Order")
	require.ErrorIs(t, err, record.ErrWrongType)

	out, _, err := run(t, in, "construct", "-r", "Order", "--coercion", "lax", "-o", "tuple", "--now", now)
	require.NoError(t, err)
	assert.Equal(t, "[1,1,0,[],\""+now+"\"]\n", out)

	_, _, err = run(t, in, "construct", "-r", "Order", "--coercion", "loose")
	require.ErrorContains(t, err, "unknown coercion")
}

func TestConstructRepairsAreLogged(t *testing.T) {
	_, errOut, err := run(t, "page_input: 0", "--debug", "construct", "-r", "Pagination")
	require.NoError(t, err)

	assert.Contains(t, errOut, `msg="value repaired"`)
	assert.Contains(t, errOut, "record=Pagination")
	assert.Contains(t, errOut, "field=page_input")

	_, errOut, err = run(t, "page_input: 0", "construct", "-r", "Pagination")
	require.NoError(t, err)
	assert.Empty(t, errOut)
}

func TestDebugFromEnvironment(t *testing.T) {
	t.Setenv(logger.EnvDebug, "true")

	_, errOut, err := run(t, "{}", "construct", "-r", "Pagination")
	require.NoError(t, err)
	assert.Contains(t, errOut, "logger.initialized")
}

func TestConstructErrors(t *testing.T) {
	_, _, err := run(t, `{product_id: "1", nmae: x, price: 20}`, "construct", "-r", "Product")

	var verr *record.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 3)
	assert.Contains(t, err.Error(), "did you mean name?")

	_, _, err = run(t, "{}", "construct", "-r", "Ordr")
	require.ErrorIs(t, err, declare.ErrUnknownRecord)
	assert.Contains(t, err.Error(), "did you mean Order")

	_, _, err = run(t, "{}", "construct", "-r", "Order", "-o", "xml")
	assert.ErrorContains(t, err, `unknown format "xml"`)

	_, _, err = run(t, "{}", "construct")
	assert.ErrorContains(t, err, `"record" not set`)

	_, _, err = run(t, "[1, 2]", "construct", "-r", "Order")
	assert.ErrorContains(t, err, "failed to parse input")

	_, _, err = run(t, "{}", "--now", "yesterday", "construct", "-r", "Order")
	assert.ErrorContains(t, err, "invalid --now")
}

func TestBadDeclarationFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.yaml")
	require.NoError(t, os.WriteFile(path, []byte("records:\n  - name: Order\n    fields:\n      - {name: total, type: flaot}\n"), 0o600))

	_, _, err := run(t, "{}", "records", "-d", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[unknown_type]")
	assert.Contains(t, err.Error(), "flaot")
}

func TestSchema(t *testing.T) {
	out, _, err := run(t, "", "schema", "-r", "ValidatedOrder")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Order", doc["title"])
	assert.Contains(t, doc["$defs"], "Product")

	out, _, err = run(t, "", "schema", "-r", "Pagination", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "title: Pagination\n")
	assert.Contains(t, out, "properties:\n  page:\n")

	_, _, err = run(t, "", "schema", "-r", "Pagination", "-o", "xml")
	assert.Error(t, err)
}

func TestRecords(t *testing.T) {
	out, _, err := run(t, "", "records")
	require.NoError(t, err)

	assert.Contains(t, out, "Order: order_id int, client_id int, total float64 (derived), products list (optional), created_at time (optional)\n")
	assert.Contains(t, out, "page_input -> page (init-only)")

	out, _, err = run(t, "", "records", "-d", filepath.Join(shop, "records.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Order", "Product"}, names(out))
}

func names(out string) []string {
	var res []string

	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		name, _, _ := strings.Cut(line, ":")
		res = append(res, name)
	}

	return res
}

func TestDemo(t *testing.T) {
	out, _, err := run(t, "", "demo", "--now", now)
	require.NoError(t, err)

	for _, want := range []string{
		"== order\n",
		`Order(order_id=1, client_id=1, total=20, products=[Product(product_id=1, name="Product 1", price=20, description=nil)], created_at=2024-01-02T03:04:05Z)`,
		`{"order_id":1,"client_id":1,"total":20,"products":[{"product_id":1,"name":"Product 1","price":20,"description":null}],"created_at":"2024-01-02T03:04:05Z"}`,
		`[1,1,20,[[1,"Product 1",20,null]],"2024-01-02T03:04:05Z"]`,
		"Pagination(page=1, per_page=15)\nPagination(page=2, per_page=2)\ntrue\n",
		`"$defs": {`,
		`Input(name="Ana")`,
		"name: missing",
		"Order(order_id=1, product_id=1, quantity=2, price=10)\n20\ntrue\n",
	} {
		assert.Contains(t, out, want)
	}
}
