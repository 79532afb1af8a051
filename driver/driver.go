// Package driver provides the cocafreq SQL driver implementation for database/sql.
//
// The DSN is a semicolon separated list of entries. Each entry is either
// `table=path` or a bare `path`, in which case the table name is the file
// name without its extensions:
//
//	db, err := sql.Open("cocafreq", "lemmas=data/wordFrequencyFirst.csv;forms=data/wordFrequencyFourth.csv.zst")
//
// Every connection owns a private in-memory SQLite database, so callers that
// need a consistent view should pin the pool to a single connection.
package driver

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nao1215/cocafreq/domain/model"
	"modernc.org/sqlite"
)

const (
	dsnSeparator   = ";"
	entrySeparator = "="
)

// Driver implements database/sql/driver.Driver interface for corpus files.
type Driver struct{}

// Connector implements database/sql/driver.Connector interface.
// It holds the parsed DSN and loads every entry on Connect.
type Connector struct {
	driver  *Driver
	dsn     string
	entries []Entry
}

// Entry is one table to load: the table name and the file backing it.
type Entry struct {
	Table string
	Path  string
}

// Connection implements database/sql/driver.Conn interface.
// It wraps an underlying SQLite connection that contains loaded file data.
type Connection struct {
	conn driver.Conn
}

// Transaction implements database/sql/driver.Tx interface.
type Transaction struct {
	tx driver.Tx
}

// NewDriver creates a new cocafreq driver
func NewDriver() *Driver {
	return &Driver{}
}

// Open implements driver.Driver interface
func (d *Driver) Open(dsn string) (driver.Conn, error) {
	connector, err := d.OpenConnector(dsn)
	if err != nil {
		return nil, err
	}
	return connector.Connect(context.Background())
}

// OpenConnector implements driver.DriverContext interface.
// The DSN is parsed eagerly so that malformed entries fail at sql.Open time.
func (d *Driver) OpenConnector(dsn string) (driver.Connector, error) {
	entries, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	return &Connector{
		driver:  d,
		dsn:     dsn,
		entries: entries,
	}, nil
}

// ParseDSN splits a DSN into table entries and rejects duplicate table names.
func ParseDSN(dsn string) ([]Entry, error) {
	entries := make([]Entry, 0, strings.Count(dsn, dsnSeparator)+1)
	seen := make(map[string]string)

	for _, raw := range strings.Split(dsn, dsnSeparator) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		entry := Entry{Path: raw}
		if name, path, ok := strings.Cut(raw, entrySeparator); ok {
			entry = Entry{Table: strings.TrimSpace(name), Path: strings.TrimSpace(path)}
			if err := ValidateTableName(entry.Table); err != nil {
				return nil, fmt.Errorf("%w: %q: %w", ErrInvalidDSNEntry, raw, err)
			}
		} else {
			entry.Table = model.TableFromFilePath(raw)
		}

		if err := ValidatePath(entry.Path); err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidDSNEntry, raw, err)
		}
		if !model.IsSupportedFile(entry.Path) {
			return nil, fmt.Errorf("%w: %s", model.ErrUnsupportedFile, entry.Path)
		}

		// SQLite identifiers are case-insensitive.
		key := strings.ToLower(entry.Table)
		if existing, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %s (from %s and %s)", ErrDuplicateTableName, entry.Table, existing, entry.Path)
		}
		seen[key] = entry.Path
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, ErrNoPathsProvided
	}
	return entries, nil
}

// Connect implements driver.Connector interface
func (c *Connector) Connect(ctx context.Context) (driver.Conn, error) {
	sqliteDriver := &sqlite.Driver{}
	conn, err := sqliteDriver.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory database: %w", err)
	}

	for _, entry := range c.entries {
		if err := c.loadEntry(ctx, conn, entry); err != nil {
			return nil, errors.Join(fmt.Errorf("failed to load %s: %w", entry.Path, err), conn.Close())
		}
	}

	return &Connection{conn: conn}, nil
}

// Driver implements driver.Connector interface
func (c *Connector) Driver() driver.Driver {
	return c.driver
}

// loadEntry parses one file and loads it into the database
func (c *Connector) loadEntry(ctx context.Context, conn driver.Conn, entry Entry) error {
	if _, err := os.Stat(entry.Path); err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}

	table, err := model.NewFile(entry.Path).ToTable(entry.Table)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateColumnName) {
			return fmt.Errorf("%w: %w", ErrDuplicateColumnName, err)
		}
		return fmt.Errorf("failed to parse file: %w", err)
	}
	if err := ValidateColumnCount(len(table.Header())); err != nil {
		return err
	}

	if err := c.createTable(ctx, conn, table); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	if err := c.insertRecords(ctx, conn, table); err != nil {
		return fmt.Errorf("failed to insert records: %w", err)
	}
	return nil
}

// createTable creates the typed table schema
func (c *Connector) createTable(ctx context.Context, conn driver.Conn, table *model.Table) error {
	return c.exec(ctx, conn, buildCreateTableQuery(table), nil)
}

// buildCreateTableQuery constructs a CREATE TABLE query for the given table
func buildCreateTableQuery(table *model.Table) string {
	columns := make([]string, 0, len(table.ColumnInfo()))
	for _, col := range table.ColumnInfo() {
		columns = append(columns, QuoteIdentifier(col.Name)+" "+col.Type.String())
	}
	return fmt.Sprintf(
		`CREATE TABLE %s (%s)`,
		QuoteIdentifier(table.Name()),
		strings.Join(columns, ", "),
	)
}

// buildInsertQuery constructs an INSERT query for the given table
func buildInsertQuery(table *model.Table) string {
	return fmt.Sprintf(
		`INSERT INTO %s VALUES (%s)`,
		QuoteIdentifier(table.Name()),
		buildPlaceholders(len(table.Header())),
	)
}

// buildPlaceholders creates placeholder string for prepared statements
func buildPlaceholders(count int) string {
	if count == 0 {
		return ""
	}
	return strings.Repeat("?, ", count-1) + "?"
}

// insertRecords inserts all records in one transaction with a prepared statement
func (c *Connector) insertRecords(ctx context.Context, conn driver.Conn, table *model.Table) (err error) {
	if len(table.Records()) == 0 {
		return nil
	}

	beginner, ok := conn.(driver.ConnBeginTx)
	if !ok {
		return ErrBeginTxNotSupported
	}
	tx, err := beginner.BeginTx(ctx, driver.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	stmt, err := prepare(ctx, conn, buildInsertQuery(table))
	if err != nil {
		return err
	}
	defer stmt.Close() //nolint:errcheck // statement is discarded after the loop

	width := len(table.Header())
	for _, record := range table.Records() {
		if err := execStmt(ctx, stmt, recordToNamedValues(record, width)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// recordToNamedValues converts a record to bound values. Empty and missing
// fields become NULL; extra fields are dropped.
func recordToNamedValues(record model.Record, width int) []driver.NamedValue {
	args := make([]driver.NamedValue, width)
	for i := range args {
		args[i] = driver.NamedValue{Ordinal: i + 1}
		if i < len(record) && record[i] != "" {
			args[i].Value = ValidateFieldValue(record[i])
		}
	}
	return args
}

// exec prepares and executes a single statement
func (c *Connector) exec(ctx context.Context, conn driver.Conn, query string, args []driver.NamedValue) error {
	stmt, err := prepare(ctx, conn, query)
	if err != nil {
		return err
	}
	defer stmt.Close() //nolint:errcheck // single use statement
	return execStmt(ctx, stmt, args)
}

func prepare(ctx context.Context, conn driver.Conn, query string) (driver.Stmt, error) {
	if preparer, ok := conn.(driver.ConnPrepareContext); ok {
		return preparer.PrepareContext(ctx, query)
	}
	return conn.Prepare(query)
}

func execStmt(ctx context.Context, stmt driver.Stmt, args []driver.NamedValue) error {
	execer, ok := stmt.(driver.StmtExecContext)
	if !ok {
		return ErrStmtExecContextNotSupported
	}
	_, err := execer.ExecContext(ctx, args)
	return err
}

// Close implements driver.Conn interface
func (conn *Connection) Close() error {
	if conn.conn != nil {
		return conn.conn.Close()
	}
	return nil
}

// Begin implements driver.Conn interface (deprecated, use BeginTx instead)
func (conn *Connection) Begin() (driver.Tx, error) {
	return conn.BeginTx(context.Background(), driver.TxOptions{})
}

// BeginTx implements driver.ConnBeginTx interface
func (conn *Connection) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	beginner, ok := conn.conn.(driver.ConnBeginTx)
	if !ok {
		return nil, ErrBeginTxNotSupported
	}
	tx, err := beginner.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Transaction{tx: tx}, nil
}

// Commit implements driver.Tx interface
func (t *Transaction) Commit() error {
	return t.tx.Commit()
}

// Rollback implements driver.Tx interface
func (t *Transaction) Rollback() error {
	return t.tx.Rollback()
}

// Prepare implements driver.Conn interface
func (conn *Connection) Prepare(query string) (driver.Stmt, error) {
	return conn.PrepareContext(context.Background(), query)
}

// PrepareContext implements driver.ConnPrepareContext interface
func (conn *Connection) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	preparer, ok := conn.conn.(driver.ConnPrepareContext)
	if !ok {
		return nil, ErrPrepareContextNotSupported
	}
	return preparer.PrepareContext(ctx, query)
}
