package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/cocafreq"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type schemaDoc struct {
	Table   string          `yaml:"table"`
	File    string          `yaml:"file"`
	Columns cocafreq.Schema `yaml:"columns"`
}

func (a *app) schemaCmd() *cobra.Command {
	var (
		sheetID string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the column names and inferred types of a sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			sheet, err := cocafreq.ParseSheet(sheetID)
			if err != nil {
				return err
			}
			format = strings.ToLower(format)
			if format != "table" && format != "yaml" {
				return fmt.Errorf("%w: unsupported format %q: expected table or yaml", cocafreq.ErrArgument, format)
			}

			ctx := cmd.Context()
			session, err := a.openSession(ctx, sheet)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, session.Close()) }()

			frame, err := session.Sheet(sheet)
			if err != nil {
				return err
			}
			schema := frame.Schema()

			if format == "table" {
				return schema.Render(a.stdout)
			}
			enc := yaml.NewEncoder(a.stdout)
			enc.SetIndent(2)
			if err := enc.Encode(schemaDoc{Table: sheet.TableName(), File: sheet.FileName(), Columns: schema}); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	cmd.Flags().StringVar(&sheetID, "sheet", "1", "sheet to describe, by id (1-4) or table name")
	cmd.Flags().StringVar(&format, "format", "table", "output format: table or yaml")
	return cmd
}
