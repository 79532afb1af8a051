package main

import (
	"errors"

	"github.com/nao1215/cocafreq"
	"github.com/spf13/cobra"
)

func (a *app) sqlCmd() *cobra.Command {
	var (
		sheetIDs []string
		out      outputFlags
	)

	cmd := &cobra.Command{
		Use:   "sql <SQL>",
		Short: "Run a SQL statement over the derived sheet tables",
		Long: `Run a SQL statement over the derived sheet tables.

Sheets are registered as tables named lemmas (1), subgenres (2),
wordForms (3) and forms (4).`,
		Example: `  cocafreq sql 'SELECT lemma, freq FROM lemmas WHERE PoS = ''v'' ORDER BY freq DESC' --limit 10
  cocafreq sql 'SELECT * FROM forms JOIN lemmas USING (rank)' --sheets 1,4 --dist-path out.parquet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			sheets, err := cocafreq.ParseSheets(sheetIDs)
			if err != nil {
				return err
			}
			skip, limit, err := out.skipLimit(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			session, err := a.openSession(ctx, sheets...)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, session.Close()) }()

			frame, err := session.SQL(ctx, args[0])
			if err != nil {
				return err
			}
			if skip != nil || limit != nil {
				s, l := 0, -1
				if skip != nil {
					s = *skip
				}
				if limit != nil {
					l = *limit
				}
				frame = frame.Limit(s, l)
			}
			return a.emit(ctx, frame, &out)
		},
	}

	cmd.Flags().StringSliceVar(&sheetIDs, "sheets", []string{"1"}, "sheets to register, by id (1-4) or table name")
	out.register(cmd)
	return cmd
}
