package model

import (
	"compress/bzip2"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// FileType represents supported file types
type FileType int

const (
	// FileTypeCSV represents CSV file type
	FileTypeCSV FileType = iota
	// FileTypeTSV represents TSV file type
	FileTypeTSV
	// FileTypeUnsupported represents unsupported file type
	FileTypeUnsupported
)

// File extensions
const (
	// ExtCSV is the CSV file extension
	ExtCSV = ".csv"
	// ExtTSV is the TSV file extension
	ExtTSV = ".tsv"
	// ExtGZ is the gzip compression extension
	ExtGZ = ".gz"
	// ExtBZ2 is the bzip2 compression extension
	ExtBZ2 = ".bz2"
	// ExtXZ is the xz compression extension
	ExtXZ = ".xz"
	// ExtZSTD is the zstd compression extension
	ExtZSTD = ".zst"
	// ExtLZ4 is the lz4 compression extension
	ExtLZ4 = ".lz4"
)

const (
	csvDelimiter = ','
	tsvDelimiter = '\t'
)

// CompressionExtensions lists the compression suffixes the loader understands,
// in order of preference when several variants of one file exist.
func CompressionExtensions() []string {
	return []string{ExtGZ, ExtBZ2, ExtXZ, ExtZSTD, ExtLZ4}
}

// RemoveCompressionExtension strips one compression suffix from a file name.
func RemoveCompressionExtension(fileName string) string {
	lower := strings.ToLower(fileName)
	for _, ext := range CompressionExtensions() {
		if strings.HasSuffix(lower, ext) {
			return fileName[:len(fileName)-len(ext)]
		}
	}
	return fileName
}

// File represents a derived data file that can be converted to Table
type File struct {
	path     string
	fileType FileType
}

// NewFile creates a new File
func NewFile(path string) *File {
	return &File{
		path:     path,
		fileType: detectFileType(path),
	}
}

// IsSupportedFile checks if the file has a supported extension
func IsSupportedFile(fileName string) bool {
	return detectFileType(fileName) != FileTypeUnsupported
}

// Path returns file path
func (f *File) Path() string {
	return f.path
}

// Type returns file type
func (f *File) Type() FileType {
	return f.fileType
}

// ToTable parses the file into a Table registered under tableName.
// An empty tableName falls back to the name derived from the file path.
func (f *File) ToTable(tableName string) (*Table, error) {
	if tableName == "" {
		tableName = TableFromFilePath(f.path)
	}

	switch f.fileType {
	case FileTypeCSV:
		return f.parseDelimited(tableName, csvDelimiter)
	case FileTypeTSV:
		return f.parseDelimited(tableName, tsvDelimiter)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, f.path)
	}
}

// detectFileType detects file type from extension, considering compressed files
func detectFileType(path string) FileType {
	basePath := RemoveCompressionExtension(path)

	switch strings.ToLower(filepath.Ext(basePath)) {
	case ExtCSV:
		return FileTypeCSV
	case ExtTSV:
		return FileTypeTSV
	default:
		return FileTypeUnsupported
	}
}

// openReader opens file and returns a reader that handles compression
func (f *File) openReader() (io.Reader, func() error, error) {
	file, err := os.Open(f.path) //nolint:gosec // path comes from the session builder
	if err != nil {
		return nil, nil, err
	}

	lower := strings.ToLower(f.path)
	switch {
	case strings.HasSuffix(lower, ExtGZ):
		gzReader, err := gzip.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, nil, err
		}
		return gzReader, func() error {
			_ = gzReader.Close()
			return file.Close()
		}, nil
	case strings.HasSuffix(lower, ExtBZ2):
		return bzip2.NewReader(file), file.Close, nil
	case strings.HasSuffix(lower, ExtXZ):
		xzReader, err := xz.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, nil, err
		}
		return xzReader, file.Close, nil
	case strings.HasSuffix(lower, ExtZSTD):
		decoder, err := zstd.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, nil, err
		}
		return decoder, func() error {
			decoder.Close()
			return file.Close()
		}, nil
	case strings.HasSuffix(lower, ExtLZ4):
		return lz4.NewReader(file), file.Close, nil
	default:
		return file, file.Close, nil
	}
}

// parseDelimited parses CSV or TSV files with specified delimiter.
// Quotes are read leniently because the converter writes values unescaped.
func (f *File) parseDelimited(tableName string, delimiter rune) (*Table, error) {
	reader, closer, err := f.openReader()
	if err != nil {
		return nil, err
	}
	defer closer() //nolint:errcheck // read-only handle

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, f.path)
	}

	if err := validateColumnNames(records[0]); err != nil {
		return nil, err
	}
	header := NewHeader(records[0])

	tableRecords := make([]Record, 0, len(records)-1)
	for _, r := range records[1:] {
		tableRecords = append(tableRecords, NewRecord(r))
	}

	return NewTable(tableName, header, tableRecords), nil
}

// validateColumnNames checks for duplicate column names and returns error if found.
// Column name comparison is case-sensitive.
func validateColumnNames(columns []string) error {
	seen := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		trimmed := strings.TrimSpace(col)
		if _, ok := seen[trimmed]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateColumnName, col)
		}
		seen[trimmed] = struct{}{}
	}
	return nil
}
