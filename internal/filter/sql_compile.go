package filter

import (
	"fmt"
	"strings"
)

// Dialect selects how compiled SQL writes bound parameters.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

func (d Dialect) String() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// ParseDialect maps a dialect name to a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pg":
		return DialectPostgres, nil
	}
	return 0, fmt.Errorf("unknown SQL dialect %q (expected sqlite or postgres)", name)
}

// param is the SQL written for one numeric parameter. Postgres cannot infer a
// type for a bare parameter compared with another parameter, so it gets a cast.
func (d Dialect) param() string {
	if d == DialectPostgres {
		return "CAST(? AS DOUBLE PRECISION)"
	}
	return "?"
}

// SQL is a compiled boolean expression. Where uses ? placeholders; Args holds
// one float64 per placeholder, in order.
type SQL struct {
	Where string
	Args  []any

	conds Conditions
}

// Inline renders the expression with numeric literals written as decimal text.
// The result is for display; execute Where with Args instead.
func (s SQL) Inline() string {
	return InlineSQL(s.conds)
}

type sqlCompiler struct {
	sb      strings.Builder
	args    []any
	dialect Dialect
	inline  bool
}

// CompileSQL compiles conditions into a WHERE expression for SQLite.
func CompileSQL(conds Conditions) SQL {
	return CompileSQLDialect(conds, DialectSQLite)
}

// CompileSQLDialect compiles conditions into a WHERE expression for d. The
// conditions are folded left to right exactly like Evaluate, each step wrapped in
// parentheses: ((c1 OR c2) AND c3).
func CompileSQLDialect(conds Conditions, d Dialect) SQL {
	c := &sqlCompiler{dialect: d}
	c.writeConditions(conds)
	return SQL{Where: c.sb.String(), Args: c.args, conds: conds}
}

// InlineSQL compiles conditions with literals embedded as text.
func InlineSQL(conds Conditions) string {
	c := &sqlCompiler{inline: true}
	c.writeConditions(conds)
	return c.sb.String()
}

// CompileExpr compiles a single operand for SQLite.
func CompileExpr(expr Expr) (string, []any) {
	c := &sqlCompiler{}
	c.writeExpr(expr)
	return c.sb.String(), c.args
}

// CompileCondition compiles a single condition for SQLite as
// "(<left> <comparator> <right>)".
func CompileCondition(cond Condition) (string, []any) {
	c := &sqlCompiler{}
	c.writeCondition(cond)
	return c.sb.String(), c.args
}

func (c *sqlCompiler) writeConditions(conds Conditions) {
	if len(conds) == 0 {
		// Matches nothing, like Evaluate.
		c.sb.WriteString("(1 = 0)")
		return
	}
	// One opening parenthesis per fold step, closed after each right operand.
	for i := 1; i < len(conds); i++ {
		c.sb.WriteByte('(')
	}
	c.writeCondition(conds[0])
	for _, cond := range conds[1:] {
		if cond.Logical == LogicalOr {
			c.sb.WriteString(" OR ")
		} else {
			c.sb.WriteString(" AND ")
		}
		c.writeCondition(cond)
		c.sb.WriteByte(')')
	}
}

func (c *sqlCompiler) writeCondition(cond Condition) {
	c.sb.WriteByte('(')
	c.writeExpr(cond.Left)
	c.sb.WriteByte(' ')
	c.sb.WriteString(cond.Comparator.String())
	c.sb.WriteByte(' ')
	c.writeExpr(cond.Right)
	c.sb.WriteByte(')')
}

func (c *sqlCompiler) writeExpr(expr Expr) {
	switch e := expr.(type) {
	case NumberLiteral:
		c.writeNumber(e.Value)
	case FieldRef:
		// Field names come from the closed vocabulary, never from free text.
		c.sb.WriteString(e.Name)
	case ArithmeticExpr:
		c.sb.WriteByte('(')
		c.writeExpr(e.Left)
		c.sb.WriteByte(' ')
		c.sb.WriteString(e.Op.String())
		c.sb.WriteByte(' ')
		if e.Op == ArithDiv {
			c.sb.WriteString("(CASE WHEN ")
			c.writeExpr(e.Right)
			c.sb.WriteString(" = 0 THEN NULL ELSE ")
			c.writeExpr(e.Right)
			c.sb.WriteString(" END)")
		} else {
			c.writeExpr(e.Right)
		}
		c.sb.WriteByte(')')
	}
}

func (c *sqlCompiler) writeNumber(v float64) {
	if c.inline {
		c.sb.WriteString(formatNumber(v))
		return
	}
	c.sb.WriteString(c.dialect.param())
	c.args = append(c.args, v)
}
