// Package filter implements the screener filter expression language: parsing,
// in-memory evaluation and SQL compilation of stock screening conditions such as
//
//	market_cap > 500 AND roe_per + roce_per > 30
package filter

import (
	"strconv"
	"strings"
)

// Expr is an operand of a condition. It is one of NumberLiteral, FieldRef or
// ArithmeticExpr.
type Expr interface {
	exprNode()
	String() string
}

// NumberLiteral is a numeric constant. A trailing % is dropped without scaling,
// so "20%" has Value 20.
type NumberLiteral struct {
	Value float64
	Text  string // source text, including any %
}

func (NumberLiteral) exprNode() {}

func (n NumberLiteral) String() string { return formatNumber(n.Value) }

// FieldRef references a vocabulary field.
type FieldRef struct {
	Name string
}

func (FieldRef) exprNode() {}

func (f FieldRef) String() string { return f.Name }

// ArithOp is an arithmetic operator.
type ArithOp int

const (
	ArithAdd ArithOp = iota // +
	ArithSub                // -
	ArithMul                // *
	ArithDiv                // /
)

func (op ArithOp) String() string {
	switch op {
	case ArithSub:
		return "-"
	case ArithMul:
		return "*"
	case ArithDiv:
		return "/"
	default:
		return "+"
	}
}

// ArithmeticExpr is a single-level binary expression. Left is always a field;
// Right is a NumberLiteral or a FieldRef.
type ArithmeticExpr struct {
	Left  FieldRef
	Op    ArithOp
	Right Expr
}

func (ArithmeticExpr) exprNode() {}

func (a ArithmeticExpr) String() string {
	return a.Left.String() + " " + a.Op.String() + " " + a.Right.String()
}

// Comparator is a comparison operator.
type Comparator int

const (
	CompareGt  Comparator = iota // >
	CompareLt                    // <
	CompareEq                    // =
	CompareGte                   // >=
	CompareLte                   // <=
	CompareNeq                   // !=
)

func (c Comparator) String() string {
	switch c {
	case CompareLt:
		return "<"
	case CompareEq:
		return "="
	case CompareGte:
		return ">="
	case CompareLte:
		return "<="
	case CompareNeq:
		return "!="
	default:
		return ">"
	}
}

// ParseComparator maps operator text to a Comparator.
func ParseComparator(s string) (Comparator, bool) {
	switch s {
	case ">":
		return CompareGt, true
	case "<":
		return CompareLt, true
	case "=":
		return CompareEq, true
	case ">=":
		return CompareGte, true
	case "<=":
		return CompareLte, true
	case "!=":
		return CompareNeq, true
	}
	return 0, false
}

// ParseArithOp maps operator text to an ArithOp.
func ParseArithOp(s string) (ArithOp, bool) {
	switch s {
	case "+":
		return ArithAdd, true
	case "-":
		return ArithSub, true
	case "*":
		return ArithMul, true
	case "/":
		return ArithDiv, true
	}
	return 0, false
}

// LogicalOp joins a condition to the one before it.
type LogicalOp int

const (
	LogicalNone LogicalOp = iota // first condition only
	LogicalAnd
	LogicalOr
)

func (op LogicalOp) String() string {
	switch op {
	case LogicalAnd:
		return "AND"
	case LogicalOr:
		return "OR"
	default:
		return ""
	}
}

// Condition is one parsed clause.
type Condition struct {
	Left       Expr
	Comparator Comparator
	Right      Expr
	Logical    LogicalOp // operator joining this condition to the previous one
	Clause     string    // verbatim clause text
}

func (c Condition) String() string {
	return c.Left.String() + " " + c.Comparator.String() + " " + c.Right.String()
}

// Conditions is a parsed query: a non-empty list whose first element has
// LogicalNone and whose other elements have LogicalAnd or LogicalOr.
//
// The list is combined strictly left to right. "a OR b AND c" means
// "(a OR b) AND c"; AND does not bind tighter than OR.
type Conditions []Condition

// String renders the conditions back into query syntax.
func (cs Conditions) String() string {
	var sb strings.Builder
	for i, c := range cs {
		if i > 0 {
			sb.WriteByte(' ')
			sb.WriteString(c.Logical.String())
			sb.WriteByte(' ')
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
