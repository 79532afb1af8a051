package cocafreq

import (
	"strings"

	"github.com/nao1215/cocafreq/driver"
)

// Expr is a boolean or scalar expression rendered into SQL with bound
// arguments. Build one with Col, Lit and the combinators below.
type Expr interface {
	render(b *sqlBuilder)
}

// sqlBuilder accumulates SQL text and its positional arguments.
type sqlBuilder struct {
	sb   strings.Builder
	args []any
}

func (b *sqlBuilder) write(s string) {
	b.sb.WriteString(s)
}

func (b *sqlBuilder) bind(v any) {
	b.sb.WriteByte('?')
	b.args = append(b.args, v)
}

// RenderExpr renders e as an SQL fragment and its arguments.
func RenderExpr(e Expr) (string, []any) {
	var b sqlBuilder
	e.render(&b)
	return b.sb.String(), b.args
}

type column struct{ name string }

// Col references a column by its unqualified name.
func Col(name string) Expr { return column{name: name} }

func (c column) render(b *sqlBuilder) { b.write(driver.QuoteIdentifier(c.name)) }

type literal struct{ value any }

// Lit is a literal value bound as an argument.
func Lit(v any) Expr { return literal{value: v} }

func (l literal) render(b *sqlBuilder) { b.bind(l.value) }

type inList struct {
	expr   Expr
	values []Expr
}

// InList tests membership of e in values. An empty list matches nothing.
func InList(e Expr, values ...Expr) Expr { return inList{expr: e, values: values} }

func (in inList) render(b *sqlBuilder) {
	in.expr.render(b)
	b.write(" IN (")
	for i, v := range in.values {
		if i > 0 {
			b.write(", ")
		}
		v.render(b)
	}
	b.write(")")
}

type affix struct {
	expr   Expr
	value  string
	suffix bool
}

// StartsWith tests whether e begins with prefix, case-sensitively.
func StartsWith(e Expr, prefix string) Expr { return affix{expr: e, value: prefix} }

// EndsWith tests whether e ends with suffix, case-sensitively.
func EndsWith(e Expr, suffix string) Expr { return affix{expr: e, value: suffix, suffix: true} }

// LIKE folds ASCII case in SQLite, so affixes compare substrings instead.
func (a affix) render(b *sqlBuilder) {
	if a.value == "" {
		a.expr.render(b)
		b.write(" IS NOT NULL")
		return
	}
	b.write("substr(")
	a.expr.render(b)
	if a.suffix {
		b.write(", -length(")
	} else {
		b.write(", 1, length(")
	}
	b.bind(a.value)
	b.write(")) = ")
	b.bind(a.value)
}

type binary struct {
	op          string
	left, right Expr
}

// Eq tests equality.
func Eq(left, right Expr) Expr { return binary{op: "=", left: left, right: right} }

// And is the logical conjunction of left and right.
func And(left, right Expr) Expr { return binary{op: "AND", left: left, right: right} }

// Or is the logical disjunction of left and right.
func Or(left, right Expr) Expr { return binary{op: "OR", left: left, right: right} }

func (e binary) render(b *sqlBuilder) {
	b.write("(")
	e.left.render(b)
	b.write(" " + e.op + " ")
	e.right.render(b)
	b.write(")")
}

// AnyOf folds exprs with Or. It returns nil for no expressions.
func AnyOf(exprs ...Expr) Expr {
	var acc Expr
	for _, e := range exprs {
		if acc == nil {
			acc = e
			continue
		}
		acc = Or(acc, e)
	}
	return acc
}
