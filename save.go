package cocafreq

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const xlsxSheetName = "Sheet1"

// WriteFile collects the frame and writes it to path. The format and
// compression follow the file extension, for example result.tsv.zst or
// result.parquet; anything else is written as CSV.
func (f *Frame) WriteFile(ctx context.Context, path string) error {
	opts, err := DumpOptionsFromPath(path)
	if err != nil {
		return err
	}

	result, err := f.Collect(ctx)
	if err != nil {
		return err
	}

	w, closeFile, err := createFile(path, opts.Compression)
	if err != nil {
		return err
	}
	if err := WriteResult(w, result, opts.Format); err != nil {
		return abortFile(path, closeFile, err)
	}
	if err := closeFile(); err != nil {
		return err
	}

	f.logger.Info("wrote result",
		zap.String("path", path),
		zap.Stringer("format", opts.Format),
		zap.Stringer("compression", opts.Compression),
		zap.Int("rows", len(result.Rows)))
	return nil
}

// WriteResult writes result to w in format, header first.
func WriteResult(w io.Writer, result *Result, format OutputFormat) error {
	switch format {
	case OutputFormatCSV:
		return writeDelimited(w, result, ',')
	case OutputFormatTSV:
		return writeDelimited(w, result, '\t')
	case OutputFormatLTSV:
		return writeLTSV(w, result)
	case OutputFormatParquet:
		return writeParquet(w, result)
	case OutputFormatXLSX:
		return writeXLSX(w, result)
	default:
		return fmt.Errorf("%w: unsupported output format %d", ErrArgument, format)
	}
}

func writeDelimited(w io.Writer, result *Result, delimiter rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delimiter

	if err := writer.Write(result.Columns); err != nil {
		return err
	}
	record := make([]string, len(result.Columns))
	for _, row := range result.Rows {
		for i, v := range row {
			record[i] = formatValue(v)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// writeLTSV writes one "label:value" line per row. Tabs and newlines inside
// values are replaced with spaces.
func writeLTSV(w io.Writer, result *Result) error {
	bw := bufio.NewWriter(w)
	clean := strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")
	for _, row := range result.Rows {
		for i, v := range row {
			if i > 0 {
				if err := bw.WriteByte('\t'); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(clean.Replace(result.Columns[i]) + ":" + clean.Replace(formatValue(v))); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// arrowType picks the narrowest Arrow type holding every non-null value of
// column col.
func arrowType(result *Result, col int) arrow.DataType {
	sawInt, sawFloat := false, false
	for _, row := range result.Rows {
		switch row[col].(type) {
		case nil:
		case int64:
			sawInt = true
		case float64:
			sawFloat = true
		default:
			return arrow.BinaryTypes.String
		}
	}
	switch {
	case sawFloat:
		return arrow.PrimitiveTypes.Float64
	case sawInt:
		return arrow.PrimitiveTypes.Int64
	default:
		return arrow.BinaryTypes.String
	}
}

// nopCloser keeps the parquet writer from closing the destination file.
type nopCloser struct {
	io.Writer
}

func writeParquet(w io.Writer, result *Result) error {
	fields := make([]arrow.Field, len(result.Columns))
	for i, name := range result.Columns {
		fields[i] = arrow.Field{Name: name, Type: arrowType(result, i), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	for _, row := range result.Rows {
		for i, v := range row {
			appendArrowValue(builder.Field(i), v)
		}
	}
	record := builder.NewRecord()
	defer record.Release()

	writer, err := pqarrow.NewFileWriter(schema, nopCloser{w}, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
	if err != nil {
		return err
	}
	if err := writer.Write(record); err != nil {
		return errors.Join(err, writer.Close())
	}
	return writer.Close()
}

func appendArrowValue(b array.Builder, v any) {
	if v == nil {
		b.AppendNull()
		return
	}
	switch builder := b.(type) {
	case *array.Int64Builder:
		builder.Append(v.(int64)) //nolint:forcetypeassert // type chosen by arrowType
	case *array.Float64Builder:
		switch n := v.(type) {
		case int64:
			builder.Append(float64(n))
		case float64:
			builder.Append(n)
		}
	case *array.StringBuilder:
		builder.Append(formatValue(v))
	default:
		b.AppendNull()
	}
}

func writeXLSX(w io.Writer, result *Result) error {
	book := excelize.NewFile()
	defer book.Close() //nolint:errcheck // in-memory workbook

	stream, err := book.NewStreamWriter(xlsxSheetName)
	if err != nil {
		return err
	}

	header := make([]any, len(result.Columns))
	for i, c := range result.Columns {
		header[i] = c
	}
	if err := stream.SetRow("A1", header); err != nil {
		return err
	}

	for r, row := range result.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for i, v := range row {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			values[i] = v
		}
		if err := stream.SetRow(cell, values); err != nil {
			return err
		}
	}
	if err := stream.Flush(); err != nil {
		return err
	}
	return book.Write(w)
}
