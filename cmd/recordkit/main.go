// Package main provides the recordkit CLI.
//
// recordkit constructs records from YAML or JSON input, prints their JSON
// schema and runs the built-in demonstrations:
//   - construct: normalize an input into a record and export it
//   - schema: describe a record as a JSON Schema document
//   - records: list the declared records
//   - demo: print the demonstration records
package main

import (
	"fmt"
	"os"
)

func main() {
	app := NewApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
