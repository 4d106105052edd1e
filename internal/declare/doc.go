// Package declare loads record declarations from YAML files and builds them
// into record schemas.
//
// # File format
//
//	version: "1"
//	records:
//	  - name: Order
//	    description: A client order.
//	    coercion: lax            # strict (default) | lax | numeric | all
//	    equality: [order_id]     # optional equality key
//	    init_only:
//	      - {name: order_input, into: order_id}
//	    fields:
//	      - {name: order_id, type: int}
//	      - {name: total, type: float64, derive: "sum(products.price)"}
//	      - {name: products, type: list, of: Product, default: []}
//	      - {name: created_at, type: time, default: now, bookkeeping: true}
//
// A field type is a kind name (int, int8..uint64, float32, float64 or float,
// bool, string, time, duration, list, record, any) or the name of another
// record of the file. Records may reference each other in any order; they
// are built in dependency order and reference cycles are reported.
//
// # Derive expressions
//
//   - sum(list.attr): sum of attr across a list of records
//   - sum(list): sum of a list of numbers
//   - count(list): number of items
//   - product(a, b): product of two numeric fields
//
// # Diagnostics
//
// Build never stops at the first problem: unknown types, bad derive
// expressions, cycles and schema declaration errors are all collected in a
// diagnostic.Diagnostics, with "did you mean" suggestions where possible.
package declare
