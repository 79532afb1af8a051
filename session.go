package cocafreq

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/cocafreq/domain/model"
	"github.com/nao1215/cocafreq/driver"
	"go.uber.org/zap"
)

// DefaultDataDir is where derived files are read from and written to.
const DefaultDataDir = "./data"

// SessionBuilder configures which tables a Session loads.
// The typical usage pattern is:
//
//	builder, err := cocafreq.NewSessionBuilder().
//		WithDataDir("./data").
//		AddSheets(cocafreq.SheetLemmas, cocafreq.SheetForms).
//		Build(ctx)
//	if err != nil {
//		return err
//	}
//	session, err := builder.Open(ctx)
//	if err != nil {
//		return err
//	}
//	defer session.Close()
type SessionBuilder struct {
	dataDir string
	sheets  []SheetType
	files   []driver.Entry
	logger  *zap.Logger

	// entries is filled by Build
	entries []driver.Entry
}

// NewSessionBuilder creates a builder reading from DefaultDataDir.
func NewSessionBuilder() *SessionBuilder {
	return &SessionBuilder{
		dataDir: DefaultDataDir,
		logger:  zap.NewNop(),
	}
}

// WithDataDir sets the directory holding the derived sheet files.
func (b *SessionBuilder) WithDataDir(dir string) *SessionBuilder {
	b.dataDir = dir
	return b
}

// WithLogger sets the logger used by the session and its frames.
func (b *SessionBuilder) WithLogger(logger *zap.Logger) *SessionBuilder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// AddSheet registers one sheet under its table name.
func (b *SessionBuilder) AddSheet(sheet SheetType) *SessionBuilder {
	b.sheets = append(b.sheets, sheet)
	return b
}

// AddSheets registers several sheets.
func (b *SessionBuilder) AddSheets(sheets ...SheetType) *SessionBuilder {
	b.sheets = append(b.sheets, sheets...)
	return b
}

// AddFile registers an arbitrary CSV or TSV file (optionally compressed) as
// table. An empty table name is derived from the file name.
func (b *SessionBuilder) AddFile(table, path string) *SessionBuilder {
	if table == "" {
		table = model.TableFromFilePath(path)
	}
	b.files = append(b.files, driver.Entry{Table: table, Path: path})
	return b
}

// Build validates the configuration and resolves every file on disk.
// Returns the same builder for method chaining.
func (b *SessionBuilder) Build(_ context.Context) (*SessionBuilder, error) {
	if len(b.sheets) == 0 && len(b.files) == 0 {
		return nil, argError("at least one sheet or file must be provided")
	}

	b.entries = make([]driver.Entry, 0, len(b.sheets)+len(b.files))
	seen := make(map[SheetType]bool, len(b.sheets))
	for _, sheet := range b.sheets {
		if !sheet.Valid() {
			return nil, argError(fmt.Sprintf("invalid sheet %d", int(sheet)))
		}
		if seen[sheet] {
			continue
		}
		seen[sheet] = true

		path, err := ResolveSheetFile(b.dataDir, sheet)
		if err != nil {
			return nil, err
		}
		b.entries = append(b.entries, driver.Entry{Table: sheet.TableName(), Path: path})
	}

	for _, file := range b.files {
		info, err := os.Stat(file.Path)
		if err != nil {
			return nil, NewErrorContext("open", file.Path).WithTable(file.Table).Error(ErrIO, err)
		}
		if info.IsDir() || !model.IsSupportedFile(file.Path) {
			return nil, argError("unsupported file: " + file.Path)
		}
		b.entries = append(b.entries, file)
	}

	for _, e := range b.entries {
		if strings.Contains(e.Path, ";") {
			return nil, argError("file path must not contain ';': " + e.Path)
		}
		if err := driver.ValidateTableName(e.Table); err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrArgument, e.Table, err)
		}
	}
	if _, err := driver.ParseDSN(b.dsn()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArgument, err)
	}
	return b, nil
}

// ResolveSheetFile finds the derived file of sheet in dir, preferring the
// plain CSV over compressed variants.
func ResolveSheetFile(dir string, sheet SheetType) (string, error) {
	plain := filepath.Join(dir, sheet.FileName())
	candidates := []string{plain}
	for _, ext := range model.CompressionExtensions() {
		candidates = append(candidates, plain+ext)
	}

	for _, path := range candidates {
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return path, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", NewErrorContext("open sheet", path).WithTable(sheet.TableName()).Error(ErrIO, err)
		}
	}

	return "", NewErrorContext("open sheet", plain).
		WithTable(sheet.TableName()).
		WithDetails("derived file not found, run `cocafreq convert` first").
		Error(ErrIO, fs.ErrNotExist)
}

func (b *SessionBuilder) dsn() string {
	parts := make([]string, len(b.entries))
	for i, e := range b.entries {
		parts[i] = e.Table + "=" + e.Path
	}
	return strings.Join(parts, ";")
}

// Open loads every resolved file into a fresh engine.
// This method can only be called after Build() has been successfully executed.
func (b *SessionBuilder) Open(ctx context.Context) (*Session, error) {
	if len(b.entries) == 0 {
		return nil, argError("no tables to load, did you call Build()?")
	}

	db, err := sql.Open(DriverName, b.dsn())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArgument, err)
	}
	// The database lives in the memory of a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Join(
			NewErrorContext("load tables", b.dataDir).Error(ErrIO, err),
			db.Close(),
		)
	}

	session := &Session{
		db:     db,
		logger: b.logger,
		tables: make(map[string]tableInfo, len(b.entries)),
	}
	for _, e := range b.entries {
		schema, err := session.tableSchema(ctx, e.Table)
		if err != nil {
			return nil, errors.Join(err, db.Close())
		}
		session.tables[strings.ToLower(e.Table)] = tableInfo{name: e.Table, schema: schema}
		session.order = append(session.order, e.Table)
		b.logger.Info("loaded table",
			zap.String("table", e.Table),
			zap.String("path", e.Path),
			zap.Int("columns", len(schema)))
	}
	return session, nil
}

type tableInfo struct {
	name   string
	schema Schema
}

// Session is an opened engine with registered tables.
type Session struct {
	db     *sql.DB
	logger *zap.Logger
	tables map[string]tableInfo
	order  []string
}

// Tables returns the registered table names in load order.
func (s *Session) Tables() []string {
	return append([]string(nil), s.order...)
}

// Sheet returns a frame over the table of sheet.
func (s *Session) Sheet(sheet SheetType) (*Frame, error) {
	if !sheet.Valid() {
		return nil, argError(fmt.Sprintf("invalid sheet %d", int(sheet)))
	}
	return s.Table(sheet.TableName())
}

// Table returns a frame over a registered table. Lookup ignores case.
func (s *Session) Table(name string) (*Frame, error) {
	info, ok := s.tables[strings.ToLower(name)]
	if !ok {
		return nil, argError("table " + name + " is not registered")
	}
	return newFrame(s.db, s.logger, driver.QuoteIdentifier(info.name), nil, info.schema), nil
}

// SQL returns a frame over the result of a raw query. The statement is
// checked eagerly by reading its result columns.
func (s *Session) SQL(ctx context.Context, query string) (*Frame, error) {
	query = strings.TrimSpace(query)
	for strings.HasSuffix(query, ";") {
		query = strings.TrimSpace(strings.TrimSuffix(query, ";"))
	}
	if query == "" {
		return nil, argError("empty SQL statement")
	}

	// The newline ends a trailing line comment before the closing paren.
	source := "(" + query + "\n)"
	s.logger.Debug("probing query", zap.String("sql", query))
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+source+" LIMIT 0")
	if err != nil {
		return nil, queryError(err)
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, queryError(err)
	}
	schema := make(Schema, len(types))
	for i, ct := range types {
		schema[i] = Field{Name: ct.Name(), Type: ct.DatabaseTypeName()}
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(err)
	}
	return newFrame(s.db, s.logger, source, nil, schema), nil
}

// Close releases the engine.
func (s *Session) Close() error {
	return s.db.Close()
}

func (s *Session) tableSchema(ctx context.Context, table string) (Schema, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, type FROM pragma_table_info(?) ORDER BY cid`, table)
	if err != nil {
		return nil, queryError(err)
	}
	defer rows.Close()

	var schema Schema
	for rows.Next() {
		var f Field
		if err := rows.Scan(&f.Name, &f.Type); err != nil {
			return nil, queryError(err)
		}
		schema = append(schema, f)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(err)
	}
	if len(schema) == 0 {
		return nil, fmt.Errorf("%w: table %s has no columns", ErrQuery, table)
	}
	return schema, nil
}
