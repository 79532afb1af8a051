package cocafreq

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func TestDetectCompressionType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, CompressionNone, DetectCompressionType("a.csv"))
	assert.Equal(t, CompressionGZ, DetectCompressionType("a.csv.GZ"))
	assert.Equal(t, CompressionBZ2, DetectCompressionType("a.csv.bz2"))
	assert.Equal(t, CompressionXZ, DetectCompressionType("a.csv.xz"))
	assert.Equal(t, CompressionZSTD, DetectCompressionType("a.csv.zst"))
	assert.Equal(t, CompressionLZ4, DetectCompressionType("a.csv.lz4"))
}

func TestCompressionHandler_CreateWriter(t *testing.T) {
	t.Parallel()

	const payload = "rank,lemma\r\n1,the\r\n"

	readers := map[CompressionType]func(io.Reader) (io.Reader, error){
		CompressionNone: func(r io.Reader) (io.Reader, error) { return r, nil },
		CompressionGZ:   func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) },
		CompressionXZ:   func(r io.Reader) (io.Reader, error) { return xz.NewReader(r) },
		CompressionZSTD: func(r io.Reader) (io.Reader, error) {
			d, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return d.IOReadCloser(), nil
		},
		CompressionLZ4: func(r io.Reader) (io.Reader, error) { return lz4.NewReader(r), nil },
	}

	for compression, newReader := range readers {
		t.Run(compression.String(), func(t *testing.T) {
			t.Parallel()

			handler := NewCompressionHandler(compression)
			assert.Equal(t, compression.Extension(), handler.Extension())

			var buf bytes.Buffer
			w, closeWriter, err := handler.CreateWriter(&buf)
			require.NoError(t, err)
			_, err = io.WriteString(w, payload)
			require.NoError(t, err)
			require.NoError(t, closeWriter())

			r, err := newReader(&buf)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			if c, ok := r.(io.Closer); ok {
				require.NoError(t, c.Close())
			}
			assert.Equal(t, payload, string(got))
		})
	}

	t.Run("bzip2 cannot be written", func(t *testing.T) {
		t.Parallel()

		_, _, err := NewCompressionHandler(CompressionBZ2).CreateWriter(io.Discard)
		assert.ErrorIs(t, err, ErrArgument)
	})
}

func TestAbortFile(t *testing.T) {
	t.Parallel()

	for _, compression := range []CompressionType{CompressionNone, CompressionGZ, CompressionLZ4} {
		t.Run(compression.String(), func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "partial.csv"+compression.Extension())
			w, closeFile, err := createFile(path, compression)
			require.NoError(t, err)
			_, err = io.WriteString(w, "rank,lemma\r\n1,")
			require.NoError(t, err)

			writeErr := errors.New("disk full")
			err = abortFile(path, closeFile, writeErr)
			require.ErrorIs(t, err, ErrIO)
			assert.ErrorIs(t, err, writeErr)

			_, statErr := os.Stat(path)
			assert.ErrorIs(t, statErr, fs.ErrNotExist)
		})
	}
}
