package main

import (
	"context"
	"fmt"

	"github.com/nao1215/cocafreq"
	"github.com/spf13/cobra"
)

// outputFlags are shared by the commands that print or save a frame.
type outputFlags struct {
	distPath string
	skip     int
	limit    int
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.distPath, "dist-path", "", "write the result to this file instead of stdout (csv, tsv, ltsv, parquet, xlsx; optional .gz, .xz, .zst or .lz4)")
	cmd.Flags().IntVar(&o.skip, "skip", 0, "number of rows to skip")
	cmd.Flags().IntVar(&o.limit, "limit", 0, "maximum number of rows to return")
}

// skipLimit returns the flags that were set on the command line.
func (o *outputFlags) skipLimit(cmd *cobra.Command) (skip, limit *int, err error) {
	if cmd.Flags().Changed("skip") {
		if o.skip < 0 {
			return nil, nil, fmt.Errorf("%w: --skip must not be negative", cocafreq.ErrArgument)
		}
		skip = &o.skip
	}
	if cmd.Flags().Changed("limit") {
		if o.limit < 0 {
			return nil, nil, fmt.Errorf("%w: --limit must not be negative", cocafreq.ErrArgument)
		}
		limit = &o.limit
	}
	return skip, limit, nil
}

// emit prints frame as a table or writes it to the destination file.
func (a *app) emit(ctx context.Context, frame *cocafreq.Frame, o *outputFlags) error {
	if o.distPath == "" {
		return frame.Show(ctx, a.stdout)
	}
	return frame.WriteFile(ctx, o.distPath)
}

// openSession loads the derived files of sheets from the data dir.
func (a *app) openSession(ctx context.Context, sheets ...cocafreq.SheetType) (*cocafreq.Session, error) {
	builder, err := cocafreq.NewSessionBuilder().
		WithDataDir(a.dataDir()).
		WithLogger(a.logger).
		AddSheets(sheets...).
		Build(ctx)
	if err != nil {
		return nil, err
	}
	return builder.Open(ctx)
}
