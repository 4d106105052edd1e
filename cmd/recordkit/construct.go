package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"recordkit/options"
	"recordkit/record"
)

var formats = []string{"json", "yaml", "tuple", "repr", "dump"}

func (a *App) constructCmd() *cobra.Command {
	var (
		name     string
		input    string
		format   string
		coercion string
	)

	cmd := &cobra.Command{
		Use:   "construct",
		Short: "Normalize an input into a record and export it",
		Long: `Construct reads a YAML or JSON mapping of field and init-only input names,
normalizes it into the record and prints the export.

Formats: json (default), yaml, tuple, repr, dump.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if !slices.Contains(formats, format) {
				return fmt.Errorf("unknown format %q, want one of %v", format, formats)
			}

			s, err := a.schema(name)
			if err != nil {
				return err
			}

			raw, err := a.readInput(input)
			if err != nil {
				return err
			}

			opts, err := a.options()
			if err != nil {
				return err
			}

			if coercion != "" {
				allowed, ok := record.ParseCoercion(coercion)
				if !ok {
					return fmt.Errorf("unknown coercion %q, want strict, lax, numeric or all", coercion)
				}

				opts = append(opts, options.WithCoercion(allowed))
			}

			r, err := s.Construct(raw, opts...)
			if err != nil {
				return err
			}

			return a.write(r, format)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&name, "record", "r", "", "Record name")
	flags.StringVarP(&input, "input", "i", "-", "Input file, - for stdin")
	flags.StringVarP(&format, "output", "o", "json", "Output format")
	flags.StringVar(&coercion, "coercion", "", "Override the record coercion: strict, lax, numeric or all")

	_ = cmd.MarkFlagRequired("record")

	return cmd
}

func (a *App) readInput(path string) (map[string]any, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(a.in)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	return raw, nil
}

func (a *App) write(r *record.Record, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)

		if err := enc.Encode(r); err != nil {
			return err
		}

		return enc.Close()

	case "tuple":
		return a.writeJSON(r.ExportTuple(), false)

	case "repr":
		_, err := fmt.Fprintln(a.out, r)
		return err

	case "dump":
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
		cfg.Fdump(a.out, r.Export())

		return nil

	default:
		return a.writeJSON(r, true)
	}
}

func (a *App) writeJSON(v any, indent bool) error {
	var (
		data []byte
		err  error
	)

	if indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(a.out, string(data))

	return err
}
