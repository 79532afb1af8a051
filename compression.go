package cocafreq

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/nao1215/cocafreq/domain/model"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// CompressionHandler wraps writers with a compression stream.
type CompressionHandler interface {
	// CreateWriter wraps an io.Writer with a compression writer if needed
	CreateWriter(writer io.Writer) (io.Writer, func() error, error)
	// Extension returns the file extension for this compression type (e.g., ".gz")
	Extension() string
}

// compressionHandlerImpl implements the CompressionHandler interface
type compressionHandlerImpl struct {
	compressionType CompressionType
}

// NewCompressionHandler creates a new compression handler for the given compression type
func NewCompressionHandler(compressionType CompressionType) CompressionHandler {
	return &compressionHandlerImpl{compressionType: compressionType}
}

// CreateWriter creates a compression writer based on the compression type
func (h *compressionHandlerImpl) CreateWriter(writer io.Writer) (io.Writer, func() error, error) {
	switch h.compressionType {
	case CompressionNone:
		return writer, func() error { return nil }, nil

	case CompressionGZ:
		gzWriter := gzip.NewWriter(writer)
		return gzWriter, gzWriter.Close, nil

	case CompressionXZ:
		xzWriter, err := xz.NewWriter(writer)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz writer: %w", err)
		}
		return xzWriter, xzWriter.Close, nil

	case CompressionZSTD:
		zstdWriter, err := zstd.NewWriter(writer)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return zstdWriter, zstdWriter.Close, nil

	case CompressionLZ4:
		lz4Writer := lz4.NewWriter(writer)
		return lz4Writer, lz4Writer.Close, nil

	default:
		return nil, nil, fmt.Errorf("%w: %s compression is not supported for writing", ErrArgument, h.compressionType)
	}
}

// Extension returns the file extension for this compression type
func (h *compressionHandlerImpl) Extension() string {
	return h.compressionType.Extension()
}

// DetectCompressionType detects the compression type from a file path
func DetectCompressionType(path string) CompressionType {
	path = strings.ToLower(path)

	switch {
	case strings.HasSuffix(path, model.ExtGZ):
		return CompressionGZ
	case strings.HasSuffix(path, model.ExtBZ2):
		return CompressionBZ2
	case strings.HasSuffix(path, model.ExtXZ):
		return CompressionXZ
	case strings.HasSuffix(path, model.ExtZSTD):
		return CompressionZSTD
	case strings.HasSuffix(path, model.ExtLZ4):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// createFile creates path and returns a writer compressing with
// compressionType. The returned close function flushes the compressor
// before closing the file.
func createFile(path string, compressionType CompressionType) (io.Writer, func() error, error) {
	handler := NewCompressionHandler(compressionType)

	file, err := os.Create(path) //nolint:gosec // output path is chosen by the user
	if err != nil {
		return nil, nil, NewErrorContext("create", path).Error(ErrIO, err)
	}

	writer, cleanup, err := handler.CreateWriter(file)
	if err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return nil, nil, err
	}

	closeAll := func() error {
		var cleanupErr error
		if cleanup != nil {
			cleanupErr = cleanup()
		}
		if syncErr := file.Sync(); syncErr != nil && cleanupErr == nil {
			cleanupErr = syncErr
		}
		if closeErr := file.Close(); closeErr != nil && cleanupErr == nil {
			cleanupErr = closeErr
		}
		if cleanupErr != nil {
			return NewErrorContext("write", path).Error(ErrIO, cleanupErr)
		}
		return nil
	}
	return writer, closeAll, nil
}

// abortFile closes and removes a file whose content could not be written.
func abortFile(path string, closeFile func() error, writeErr error) error {
	errs := []error{NewErrorContext("write", path).Error(ErrIO, writeErr), closeFile()}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		errs = append(errs, NewErrorContext("remove", path).Error(ErrIO, err))
	}
	return errors.Join(errs...)
}
