package main

import (
	"fmt"

	"github.com/nao1215/cocafreq"
	"github.com/spf13/cobra"
)

func (a *app) convertCmd() *cobra.Command {
	var (
		source   string
		compress string
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert every worksheet of the workbook into a CSV file",
		Example: `  cocafreq convert
  cocafreq convert --source ~/Downloads/wordFrequency.xlsx --compress zstd`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			compression, err := cocafreq.ParseCompression(compress)
			if err != nil {
				return err
			}

			written, err := cocafreq.ConvertWorkbook(cmd.Context(), cocafreq.ConvertOptions{
				Source:      source,
				OutputDir:   a.dataDir(),
				Compression: compression,
				Logger:      a.logger,
			})
			if err != nil {
				return err
			}
			for _, path := range written {
				fmt.Fprintln(a.stdout, path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "xlsx workbook to convert (default <data-dir>/"+cocafreq.DefaultSourceName+")")
	cmd.Flags().StringVar(&compress, "compress", "none", "compression of the written files: none, gz, xz, zstd or lz4")
	return cmd
}
