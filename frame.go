package cocafreq

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nao1215/cocafreq/driver"
	"go.uber.org/zap"
)

// Field is one column of a Schema.
type Field struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Schema is the ordered list of columns a Frame produces.
type Schema []Field

// HasColumn reports whether the schema has a column with exactly this name.
func (s Schema) HasColumn(name string) bool {
	return slices.ContainsFunc(s, func(f Field) bool { return f.Name == name })
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Render writes the schema as a table.
func (s Schema) Render(w io.Writer) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Column", "Type"})
	for _, f := range s {
		t.AppendRow(table.Row{f.Name, f.Type})
	}
	t.SetStyle(table.StyleDefault)
	t.Render()
	return nil
}

// stage tracks the last clause applied, in SQL evaluation order.
type stage int

const (
	stageScan stage = iota
	stageFiltered
	stageSorted
	stageLimited
	stageProjected
)

type sortKey struct {
	column string
}

// Frame is a lazy, immutable query plan. Every operation returns a new
// Frame; nothing runs until Collect, Show or WriteFile.
type Frame struct {
	db     *sql.DB
	logger *zap.Logger

	source     string
	sourceArgs []any
	schema     Schema

	stage   stage
	where   Expr
	orderBy []sortKey
	offset  int
	fetch   int // negative means no cap
	project []string
}

func newFrame(db *sql.DB, logger *zap.Logger, source string, args []any, schema Schema) *Frame {
	return &Frame{
		db:         db,
		logger:     logger,
		source:     source,
		sourceArgs: args,
		schema:     schema,
		fetch:      -1,
	}
}

// Schema returns the columns the frame produces.
func (f *Frame) Schema() Schema {
	if f.project == nil {
		return slices.Clone(f.schema)
	}
	out := make(Schema, 0, len(f.project))
	for _, name := range f.project {
		for _, field := range f.schema {
			if field.Name == name {
				out = append(out, field)
				break
			}
		}
	}
	return out
}

// SQL renders the frame as a single SELECT statement and its arguments.
func (f *Frame) SQL() (string, []any) {
	var b sqlBuilder
	b.write("SELECT ")
	if f.project == nil {
		b.write("*")
	} else {
		quoted := make([]string, len(f.project))
		for i, name := range f.project {
			quoted[i] = driver.QuoteIdentifier(name)
		}
		b.write(strings.Join(quoted, ", "))
	}
	b.write(" FROM " + f.source)
	b.args = append(b.args, f.sourceArgs...)

	if f.where != nil {
		b.write(" WHERE ")
		f.where.render(&b)
	}
	if len(f.orderBy) > 0 {
		keys := make([]string, len(f.orderBy))
		for i, k := range f.orderBy {
			keys[i] = driver.QuoteIdentifier(k.column) + " DESC NULLS LAST"
		}
		b.write(" ORDER BY " + strings.Join(keys, ", "))
	}
	if f.stage >= stageLimited && (f.fetch >= 0 || f.offset > 0) {
		b.write(" LIMIT " + strconv.Itoa(f.fetch))
		if f.offset > 0 {
			b.write(" OFFSET " + strconv.Itoa(f.offset))
		}
	}
	return b.sb.String(), b.args
}

// at returns a copy ready for an operation of stage s, wrapping the current
// plan as a subquery when s would otherwise be evaluated out of order.
func (f *Frame) at(s stage) *Frame {
	if f.stage <= s {
		c := *f
		c.orderBy = slices.Clone(f.orderBy)
		c.project = slices.Clone(f.project)
		c.stage = s
		return &c
	}
	wrapped := f.wrap()
	wrapped.stage = s
	return wrapped
}

// wrap turns the current plan into the source of a fresh frame.
func (f *Frame) wrap() *Frame {
	query, args := f.SQL()
	return newFrame(f.db, f.logger, "("+query+")", args, f.Schema())
}

// Filter keeps rows for which predicate holds.
func (f *Frame) Filter(predicate Expr) *Frame {
	if f.stage == stageSorted {
		// WHERE runs before ORDER BY whatever the call order.
		c := f.at(stageSorted)
		c.where = conjoin(c.where, predicate)
		return c
	}
	c := f.at(stageFiltered)
	c.where = conjoin(c.where, predicate)
	return c
}

func conjoin(a, b Expr) Expr {
	if a == nil {
		return b
	}
	return And(a, b)
}

// Sort orders rows by column descending with nulls last. A later sort takes
// precedence over an earlier one.
func (f *Frame) Sort(column string) (*Frame, error) {
	if !f.Schema().HasColumn(column) {
		return nil, fmt.Errorf("%w: no column %q to sort by", ErrQuery, column)
	}
	c := f.at(stageSorted)
	c.orderBy = append([]sortKey{{column: column}}, c.orderBy...)
	return c, nil
}

// Limit skips skip rows and returns at most fetch rows. A negative fetch
// means no cap.
func (f *Frame) Limit(skip, fetch int) *Frame {
	if skip < 0 {
		skip = 0
	}
	if fetch < 0 {
		fetch = -1
	}
	base := f
	if f.stage == stageLimited {
		base = f.wrap()
	}
	c := base.at(stageLimited)
	c.offset = skip
	c.fetch = fetch
	return c
}

// Select projects the given columns in order.
func (f *Frame) Select(columns ...string) (*Frame, error) {
	schema := f.Schema()
	for _, col := range columns {
		if !schema.HasColumn(col) {
			return nil, fmt.Errorf("%w: no column %q to select", ErrQuery, col)
		}
	}
	c := f.at(stageProjected)
	c.project = slices.Clone(columns)
	return c, nil
}

// Result holds collected rows.
type Result struct {
	Columns []string
	Rows    [][]any
}

// Collect runs the query and returns every row.
func (f *Frame) Collect(ctx context.Context) (*Result, error) {
	query, args := f.SQL()
	f.logger.Debug("executing query", zap.String("sql", query), zap.Any("args", args))

	rows, err := f.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, queryError(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, queryError(err)
	}

	result := &Result{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, queryError(err)
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(err)
	}
	return result, nil
}

// Show collects the frame and prints it as a table.
func (f *Frame) Show(ctx context.Context, w io.Writer) error {
	result, err := f.Collect(ctx)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	header := make(table.Row, len(result.Columns))
	for i, c := range result.Columns {
		header[i] = c
	}
	t.AppendHeader(header)
	for _, r := range result.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = formatValue(v)
		}
		t.AppendRow(row)
	}
	t.SetStyle(table.StyleDefault)
	t.Render()
	return nil
}

// formatValue renders a scanned SQL value as text.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
