package cocafreq

import (
	"path/filepath"
	"strings"

	"github.com/nao1215/cocafreq/domain/model"
)

// OutputFormat represents the output file format
type OutputFormat int

const (
	// OutputFormatCSV represents CSV output format
	OutputFormatCSV OutputFormat = iota
	// OutputFormatTSV represents TSV output format
	OutputFormatTSV
	// OutputFormatLTSV represents LTSV output format
	OutputFormatLTSV
	// OutputFormatParquet represents Apache Parquet output format
	OutputFormatParquet
	// OutputFormatXLSX represents Excel workbook output format
	OutputFormatXLSX
)

// String returns the string representation of OutputFormat
func (f OutputFormat) String() string {
	switch f {
	case OutputFormatTSV:
		return "tsv"
	case OutputFormatLTSV:
		return "ltsv"
	case OutputFormatParquet:
		return "parquet"
	case OutputFormatXLSX:
		return "xlsx"
	default:
		return "csv"
	}
}

// Extension returns the file extension for the format
func (f OutputFormat) Extension() string {
	return "." + f.String()
}

// CompressionType represents the compression type
type CompressionType int

const (
	// CompressionNone represents no compression
	CompressionNone CompressionType = iota
	// CompressionGZ represents gzip compression
	CompressionGZ
	// CompressionBZ2 represents bzip2 compression; readable only
	CompressionBZ2
	// CompressionXZ represents xz compression
	CompressionXZ
	// CompressionZSTD represents zstd compression
	CompressionZSTD
	// CompressionLZ4 represents lz4 frame compression
	CompressionLZ4
)

// String returns the string representation of CompressionType
func (c CompressionType) String() string {
	switch c {
	case CompressionGZ:
		return "gz"
	case CompressionBZ2:
		return "bz2"
	case CompressionXZ:
		return "xz"
	case CompressionZSTD:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "none"
	}
}

// Extension returns the file extension for the compression type
func (c CompressionType) Extension() string {
	switch c {
	case CompressionGZ:
		return model.ExtGZ
	case CompressionBZ2:
		return model.ExtBZ2
	case CompressionXZ:
		return model.ExtXZ
	case CompressionZSTD:
		return model.ExtZSTD
	case CompressionLZ4:
		return model.ExtLZ4
	default:
		return ""
	}
}

// ParseCompression parses a --compress flag value.
func ParseCompression(s string) (CompressionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CompressionNone, nil
	case "gz", "gzip":
		return CompressionGZ, nil
	case "xz":
		return CompressionXZ, nil
	case "zst", "zstd":
		return CompressionZSTD, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return CompressionNone, argError("unsupported compression " + s + ": expected none, gz, xz, zstd or lz4")
	}
}

// DumpOptions describes how a result is written to a file.
type DumpOptions struct {
	// Format specifies the output file format
	Format OutputFormat
	// Compression specifies the compression type
	Compression CompressionType
}

// NewDumpOptions creates default export options (CSV, no compression).
func NewDumpOptions() DumpOptions {
	return DumpOptions{
		Format:      OutputFormatCSV,
		Compression: CompressionNone,
	}
}

// WithFormat sets the output file format.
func (o DumpOptions) WithFormat(format OutputFormat) DumpOptions {
	o.Format = format
	return o
}

// WithCompression adds compression to output files.
func (o DumpOptions) WithCompression(compression CompressionType) DumpOptions {
	o.Compression = compression
	return o
}

// FileExtension returns the complete file extension including compression
func (o DumpOptions) FileExtension() string {
	return o.Format.Extension() + o.Compression.Extension()
}

// DumpOptionsFromPath derives the format and compression from a destination
// file name. Unknown extensions fall back to CSV. Parquet and XLSX carry
// their own compression and cannot be wrapped.
func DumpOptionsFromPath(path string) (DumpOptions, error) {
	opts := NewDumpOptions().WithCompression(DetectCompressionType(path))
	if opts.Compression == CompressionBZ2 {
		return opts, argError("bzip2 output is not supported: " + path)
	}

	base := model.RemoveCompressionExtension(path)
	switch strings.ToLower(filepath.Ext(base)) {
	case ".tsv":
		opts.Format = OutputFormatTSV
	case ".ltsv":
		opts.Format = OutputFormatLTSV
	case ".parquet":
		opts.Format = OutputFormatParquet
	case ".xlsx":
		opts.Format = OutputFormatXLSX
	}

	if opts.Compression != CompressionNone &&
		(opts.Format == OutputFormatParquet || opts.Format == OutputFormatXLSX) {
		return opts, argError(opts.Format.String() + " output cannot be compressed: " + path)
	}
	return opts, nil
}
