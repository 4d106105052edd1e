package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *App) schemaCmd() *cobra.Command {
	var name, format string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Describe a record as a JSON Schema document",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			s, err := a.schema(name)
			if err != nil {
				return err
			}

			doc, err := s.DescribeSchema()
			if err != nil {
				return err
			}

			switch format {
			case "json":
				return a.writeJSON(doc, true)
			case "yaml":
				enc := yaml.NewEncoder(a.out)
				enc.SetIndent(2)

				if err := enc.Encode(doc); err != nil {
					return err
				}

				return enc.Close()
			default:
				return fmt.Errorf("unknown format %q, want json or yaml", format)
			}
		},
	}

	cmd.Flags().StringVarP(&name, "record", "r", "", "Record name")
	cmd.Flags().StringVarP(&format, "output", "o", "json", "Output format: json or yaml")

	_ = cmd.MarkFlagRequired("record")

	return cmd
}

func (a *App) recordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "records",
		Short: "List the declared records and their fields",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cat, err := a.catalog()
			if err != nil {
				return err
			}

			for _, name := range cat.Names() {
				s, err := cat.Schema(name)
				if err != nil {
					return err
				}

				var fields []string

				for _, f := range s.Fields() {
					desc := f.Name + " " + f.Kind.TypeName()

					switch {
					case f.IsDerived():
						desc += " (derived)"
					case !f.IsRequired():
						desc += " (optional)"
					}

					fields = append(fields, desc)
				}

				for _, in := range s.InitOnly() {
					fields = append(fields, in.Name+" -> "+in.Into+" (init-only)")
				}

				fmt.Fprintf(a.out, "%s: %s\n", name, strings.Join(fields, ", "))
			}

			return nil
		},
	}
}
