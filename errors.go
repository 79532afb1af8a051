package cocafreq

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrArgument indicates an invalid flag combination, sheet, column or enum value
	ErrArgument = errors.New("cocafreq: invalid argument")

	// ErrIO indicates a missing source or derived file, or a failed write
	ErrIO = errors.New("cocafreq: i/o error")

	// ErrXlsx indicates a malformed workbook or a missing worksheet
	ErrXlsx = errors.New("cocafreq: xlsx error")

	// ErrQuery indicates invalid SQL, an execution failure or an unknown column
	ErrQuery = errors.New("cocafreq: query error")
)

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation string
	FilePath  string
	TableName string
	Details   string
}

// NewErrorContext creates a new error context
func NewErrorContext(operation, filePath string) *ErrorContext {
	return &ErrorContext{
		Operation: operation,
		FilePath:  filePath,
	}
}

// WithTable adds table context to the error
func (ec *ErrorContext) WithTable(tableName string) *ErrorContext {
	ec.TableName = tableName
	return ec
}

// WithDetails adds details to the error context
func (ec *ErrorContext) WithDetails(details string) *ErrorContext {
	ec.Details = details
	return ec
}

// Error creates a formatted error with context. The sentinel kind is kept in
// the chain so callers can still match it with errors.Is.
func (ec *ErrorContext) Error(kind, baseErr error) error {
	parts := []string{ec.Operation + " failed"}

	if ec.FilePath != "" {
		parts = append(parts, "file: "+ec.FilePath)
	}
	if ec.TableName != "" {
		parts = append(parts, "table: "+ec.TableName)
	}
	if ec.Details != "" {
		parts = append(parts, "details: "+ec.Details)
	}

	context := strings.Join(parts, ", ")
	if baseErr != nil {
		return fmt.Errorf("%w: %s: %w", kind, context, baseErr)
	}
	return fmt.Errorf("%w: %s", kind, context)
}

// argError returns an ErrArgument carrying msg.
func argError(msg string) error {
	return fmt.Errorf("%w: %s", ErrArgument, msg)
}

// queryError wraps an engine failure as ErrQuery.
func queryError(err error) error {
	return fmt.Errorf("%w: %w", ErrQuery, err)
}
