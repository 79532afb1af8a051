package main

import (
	"errors"

	"github.com/nao1215/cocafreq"
	"github.com/spf13/cobra"
)

type queryFlags struct {
	words   []string
	prefix  bool
	suffix  bool
	pos     []string
	sorted  string
	sheet   string
	columns []string
	all     bool
	out     outputFlags
}

func (a *app) queryCmd() *cobra.Command {
	var f queryFlags

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Filter, sort and page one sheet without writing SQL",
		Example: `  cocafreq query --words dog,cat --pos n
  cocafreq query --sheet 4 --words un --prefix --sorted freq --limit 20
  cocafreq query --sheet 3 --words dog --columns wordFreq --dist-path dog.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			sheet, err := cocafreq.ParseSheet(f.sheet)
			if err != nil {
				return err
			}
			match, err := cocafreq.NewWordMatch(f.words, f.prefix, f.suffix)
			if err != nil {
				return err
			}
			skip, limit, err := f.out.skipLimit(cmd)
			if err != nil {
				return err
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
			frame, err = cocafreq.SimpleQuery(frame, sheet, cocafreq.QueryOptions{
				WordMatch:    match,
				PoS:          f.pos,
				SortedColumn: f.sorted,
				Skip:         skip,
				Limit:        limit,
				Columns:      f.columns,
				AllColumns:   f.all,
			})
			if err != nil {
				return err
			}
			return a.emit(ctx, frame, &f.out)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&f.words, "words", nil, "words to search for in the lemma or word column")
	flags.BoolVar(&f.prefix, "prefix", false, "match words as prefixes")
	flags.BoolVar(&f.suffix, "suffix", false, "match words as suffixes")
	flags.StringSliceVar(&f.pos, "pos", nil, "parts of speech to keep")
	flags.StringVar(&f.sorted, "sorted", "", "column to sort by, descending")
	flags.StringVar(&f.sheet, "sheet", "1", "sheet to query, by id (1-4) or table name")
	flags.StringSliceVar(&f.columns, "columns", nil, "extra columns to show")
	flags.BoolVar(&f.all, "all", false, "show every column of the sheet")
	f.out.register(cmd)
	return cmd
}
