// Package cocafreq converts the COCA word-frequency workbook into CSV files
// and queries them with SQL through an in-memory SQLite engine.
//
// # Conversion
//
// ConvertWorkbook reads the four worksheets of wordFrequency.xlsx and writes
// one CSV file per sheet:
//
//	paths, err := cocafreq.ConvertWorkbook(ctx, cocafreq.ConvertOptions{
//	    Source:    "data/wordFrequency.xlsx",
//	    OutputDir: "data",
//	})
//
// # Querying
//
// A Session loads the derived files as tables named after their sheet
// (lemmas, subgenres, wordForms, forms) and hands out lazy Frames:
//
//	builder, err := cocafreq.NewSessionBuilder().
//	    WithDataDir("data").
//	    AddSheet(cocafreq.SheetLemmas).
//	    Build(ctx)
//	if err != nil {
//	    return err
//	}
//	session, err := builder.Open(ctx)
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	frame, _ := session.Sheet(cocafreq.SheetLemmas)
//	match, _ := cocafreq.NewWordMatch([]string{"un"}, true, false)
//	frame, err = cocafreq.SimpleQuery(frame, cocafreq.SheetLemmas, cocafreq.QueryOptions{
//	    WordMatch:    match,
//	    SortedColumn: "freq",
//	})
//	if err != nil {
//	    return err
//	}
//	err = frame.Show(ctx, os.Stdout)
//
// Raw SQL is available through Session.SQL, and any frame can be written to
// CSV, TSV, LTSV, Parquet or XLSX with Frame.WriteFile.
package cocafreq
