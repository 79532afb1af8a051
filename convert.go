package cocafreq

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	// DefaultSourceName is the workbook file name looked up in the data dir.
	DefaultSourceName = "wordFrequency.xlsx"
	// SourceDownloadURL is where the sample workbook can be downloaded.
	SourceDownloadURL = "https://www.wordfrequency.info/samples.asp"
)

// Cell is one worksheet cell: its type and raw value.
type Cell struct {
	Type  excelize.CellType
	Value string
}

var cellErrorNames = map[string]string{
	"#N/A":          "NA",
	"#DIV/0!":       "Div0",
	"#VALUE!":       "Value",
	"#REF!":         "Ref",
	"#NAME?":        "Name",
	"#NUM!":         "Num",
	"#NULL!":        "Null",
	"#GETTING_DATA": "GettingData",
}

// FormatCell renders a cell as CSV text. Numbers with an integral value are
// printed without decimals, other numbers with two; booleans become
// true/false; error values become their short names; everything else is
// copied verbatim.
func FormatCell(c Cell) string {
	if c.Value == "" {
		return ""
	}
	switch c.Type {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		f, err := strconv.ParseFloat(c.Value, 64)
		if err != nil {
			return c.Value
		}
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return strconv.FormatInt(int64(f), 10)
		}
		return fmt.Sprintf("%.2f", f)
	case excelize.CellTypeBool:
		if c.Value == "1" || strings.EqualFold(c.Value, "TRUE") {
			return "true"
		}
		return "false"
	case excelize.CellTypeError:
		if name, ok := cellErrorNames[c.Value]; ok {
			return name
		}
		return c.Value
	default:
		return c.Value
	}
}

// WriteRange writes rows as comma separated lines ending in CRLF. Rows are
// padded to the widest row. Values are not quoted or escaped.
func WriteRange(w io.Writer, rows [][]Cell) error {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	bw := bufio.NewWriter(w)
	for _, row := range rows {
		for i := range width {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if i < len(row) {
				if _, err := bw.WriteString(FormatCell(row[i])); err != nil {
					return err
				}
			}
		}
		if _, err := bw.WriteString("\r\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadSheet reads every row of sheet with raw cell values and types.
func ReadSheet(book *excelize.File, sheet string) ([][]Cell, error) {
	rows, err := book.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	cells := make([][]Cell, len(rows))
	for r, row := range rows {
		cells[r] = make([]Cell, len(row))
		for c, value := range row {
			cell := Cell{Value: value}
			if value != "" {
				axis, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return nil, err
				}
				if cell.Type, err = book.GetCellType(sheet, axis); err != nil {
					return nil, err
				}
			}
			cells[r][c] = cell
		}
	}
	return cells, nil
}

// ConvertOptions configures ConvertWorkbook.
type ConvertOptions struct {
	// Source is the workbook path. Empty means <OutputDir>/wordFrequency.xlsx.
	Source string
	// OutputDir receives one CSV file per sheet.
	OutputDir string
	// Compression is applied to every written file.
	Compression CompressionType
	// Sheets limits conversion to these sheets; empty means all four.
	Sheets []SheetType
	Logger *zap.Logger
}

// ResolveSource returns the workbook to read. An explicit source must be a
// regular file; the default location must exist.
func (o ConvertOptions) ResolveSource() (string, error) {
	if o.Source != "" {
		info, err := os.Stat(o.Source)
		if err != nil || !info.Mode().IsRegular() {
			return "", argError("specified xlsx source path might be wrong: " + o.Source)
		}
		return o.Source, nil
	}

	dir := o.OutputDir
	if dir == "" {
		dir = DefaultDataDir
	}
	path := filepath.Join(dir, DefaultSourceName)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		if err == nil {
			err = errors.New("not a regular file")
		}
		return "", NewErrorContext("find xlsx source", path).
			WithDetails("download it from "+SourceDownloadURL+" and place it at "+path+" or pass --source").
			Error(ErrIO, err)
	}
	return path, nil
}

// ConvertWorkbook writes the sheets of the workbook as CSV files and returns
// the written paths in sheet order.
func ConvertWorkbook(ctx context.Context, opts ConvertOptions) ([]string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.OutputDir == "" {
		opts.OutputDir = DefaultDataDir
	}
	sheetList := opts.Sheets
	if len(sheetList) == 0 {
		sheetList = AllSheets()
	}
	if opts.Compression == CompressionBZ2 {
		return nil, argError("bzip2 output is not supported")
	}

	source, err := opts.ResolveSource()
	if err != nil {
		return nil, err
	}

	book, err := excelize.OpenFile(source)
	if err != nil {
		return nil, NewErrorContext("open workbook", source).Error(ErrXlsx, err)
	}
	defer book.Close() //nolint:errcheck // read-only workbook

	if err := os.MkdirAll(opts.OutputDir, 0o750); err != nil {
		return nil, NewErrorContext("create output dir", opts.OutputDir).Error(ErrIO, err)
	}

	written := make([]string, 0, len(sheetList))
	for _, sheet := range sheetList {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if !sheet.Valid() {
			return written, argError(fmt.Sprintf("invalid sheet %d", int(sheet)))
		}

		path, err := convertSheet(book, sheet, opts)
		if err != nil {
			return written, err
		}
		logger.Info("converted sheet",
			zap.String("sheet", sheet.SheetName()),
			zap.String("path", path))
		written = append(written, path)
	}
	return written, nil
}

func convertSheet(book *excelize.File, sheet SheetType, opts ConvertOptions) (string, error) {
	rows, err := ReadSheet(book, sheet.SheetName())
	if err != nil {
		return "", NewErrorContext("read worksheet", "").WithTable(sheet.SheetName()).Error(ErrXlsx, err)
	}

	path := filepath.Join(opts.OutputDir, sheet.FileName()+opts.Compression.Extension())
	w, closeFile, err := createFile(path, opts.Compression)
	if err != nil {
		return "", err
	}
	if err := WriteRange(w, rows); err != nil {
		return "", abortFile(path, closeFile, err)
	}
	return path, closeFile()
}
