package cocafreq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpOptionsFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path        string
		format      OutputFormat
		compression CompressionType
		wantErr     bool
	}{
		{path: "out.csv", format: OutputFormatCSV, compression: CompressionNone},
		{path: "out", format: OutputFormatCSV, compression: CompressionNone},
		{path: "out.txt", format: OutputFormatCSV, compression: CompressionNone},
		{path: "out.TSV", format: OutputFormatTSV, compression: CompressionNone},
		{path: "out.ltsv.gz", format: OutputFormatLTSV, compression: CompressionGZ},
		{path: "out.csv.xz", format: OutputFormatCSV, compression: CompressionXZ},
		{path: "out.tsv.zst", format: OutputFormatTSV, compression: CompressionZSTD},
		{path: "out.csv.lz4", format: OutputFormatCSV, compression: CompressionLZ4},
		{path: "out.parquet", format: OutputFormatParquet, compression: CompressionNone},
		{path: "out.xlsx", format: OutputFormatXLSX, compression: CompressionNone},
		{path: "out.csv.bz2", wantErr: true},
		{path: "out.parquet.gz", wantErr: true},
		{path: "out.xlsx.zst", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			opts, err := DumpOptionsFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.format, opts.Format)
			assert.Equal(t, tt.compression, opts.Compression)
		})
	}
}

func TestDumpOptions(t *testing.T) {
	t.Parallel()

	opts := NewDumpOptions()
	assert.Equal(t, ".csv", opts.FileExtension())
	assert.Equal(t, ".tsv.gz", opts.WithFormat(OutputFormatTSV).WithCompression(CompressionGZ).FileExtension())
	assert.Equal(t, ".parquet", opts.WithFormat(OutputFormatParquet).FileExtension())
	assert.Equal(t, ".csv", opts.FileExtension(), "With* must not modify the receiver")

	assert.Equal(t, "zstd", CompressionZSTD.String())
	assert.Equal(t, ".zst", CompressionZSTD.Extension())
	assert.Equal(t, "", CompressionNone.Extension())
	assert.Equal(t, "xlsx", OutputFormatXLSX.String())
}

func TestParseCompression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    CompressionType
		wantErr bool
	}{
		{in: "", want: CompressionNone},
		{in: "none", want: CompressionNone},
		{in: "GZ", want: CompressionGZ},
		{in: "gzip", want: CompressionGZ},
		{in: "xz", want: CompressionXZ},
		{in: "zstd", want: CompressionZSTD},
		{in: "zst", want: CompressionZSTD},
		{in: "bz2", wantErr: true},
		{in: "lz4", want: CompressionLZ4},
		{in: "brotli", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseCompression(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
