package model

import "errors"

var (
	// ErrDuplicateColumnName is returned when a file contains duplicate column names
	ErrDuplicateColumnName = errors.New("duplicate column name")
	// ErrEmptyFile is returned when a file has no header row
	ErrEmptyFile = errors.New("empty file")
	// ErrUnsupportedFile is returned for extensions the loader cannot parse
	ErrUnsupportedFile = errors.New("unsupported file type")
)
