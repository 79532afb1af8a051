package driver

import "errors"

// Predefined errors
var (
	// ErrNoPathsProvided is returned when the DSN names no files
	ErrNoPathsProvided = errors.New("cocafreq driver: no paths provided")

	// ErrInvalidDSNEntry is returned when a DSN entry cannot be parsed
	ErrInvalidDSNEntry = errors.New("cocafreq driver: invalid DSN entry")

	// ErrStmtExecContextNotSupported is returned when statement does not support ExecContext
	ErrStmtExecContextNotSupported = errors.New("cocafreq driver: statement does not support ExecContext")

	// ErrBeginTxNotSupported is returned when underlying connection does not support BeginTx
	ErrBeginTxNotSupported = errors.New("cocafreq driver: underlying connection does not support BeginTx")

	// ErrPrepareContextNotSupported is returned when underlying connection does not support PrepareContext
	ErrPrepareContextNotSupported = errors.New("cocafreq driver: underlying connection does not support PrepareContext")

	// ErrDuplicateColumnName is returned when a file contains duplicate column names
	ErrDuplicateColumnName = errors.New("cocafreq driver: duplicate column name")

	// ErrDuplicateTableName is returned when two DSN entries would create the same table
	ErrDuplicateTableName = errors.New("cocafreq driver: duplicate table name")
)
