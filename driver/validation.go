package driver

import (
	"errors"
	"strings"
)

// MaxColumnCount defines the maximum number of columns allowed in a table
const MaxColumnCount = 2000

// MaxValueLength defines the maximum length of a single field value
const MaxValueLength = 65536

var (
	// ErrTooManyColumns is returned when a file has too many columns
	ErrTooManyColumns = errors.New("too many columns")

	// ErrInvalidPath is returned when a path is empty or contains a null byte
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidIdentifier is returned when a table name cannot be used as an SQL identifier
	ErrInvalidIdentifier = errors.New("invalid SQL identifier")
)

// ValidatePath rejects paths that can never name a readable file.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrInvalidPath
	}
	if strings.Contains(path, "\x00") {
		return ErrInvalidPath
	}
	return nil
}

// ValidateTableName checks a table name supplied through the DSN.
func ValidateTableName(name string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, "\x00;=") {
		return ErrInvalidIdentifier
	}
	return nil
}

// ValidateColumnCount checks if the number of columns is within acceptable limits
func ValidateColumnCount(columnCount int) error {
	if columnCount > MaxColumnCount {
		return ErrTooManyColumns
	}
	return nil
}

// ValidateFieldValue truncates oversized values and strips null bytes.
func ValidateFieldValue(value string) string {
	if len(value) > MaxValueLength {
		value = value[:MaxValueLength]
	}
	return strings.ReplaceAll(value, "\x00", "")
}

// QuoteIdentifier quotes an SQL identifier with double quotes, doubling any
// embedded quote.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
