package filter

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per failure kind. A *ParseError unwraps to its kind, so
// callers can use errors.Is(err, ErrInvalidField).
var (
	ErrEmptyQuery            = errors.New("empty query")
	ErrNoConditions          = errors.New("no conditions")
	ErrMalformedClause       = errors.New("malformed clause")
	ErrInvalidOperator       = errors.New("invalid operator")
	ErrInvalidField          = errors.New("invalid field")
	ErrInvalidExpression     = errors.New("invalid expression")
	ErrEmptyExpression       = errors.New("empty expression")
	ErrInvalidNumericLiteral = errors.New("invalid numeric literal")
)

// ParseError describes why a query could not be parsed.
type ParseError struct {
	Kind   error  // one of the Err* sentinels
	Token  string // offending substring
	Clause string // clause the token belongs to, if any
	Pos    int    // byte offset of Token in the query
}

func (e *ParseError) Error() string {
	switch {
	case e.Token != "" && e.Clause != "" && e.Token != e.Clause:
		return fmt.Sprintf("%v %q in clause %q", e.Kind, e.Token, e.Clause)
	case e.Token != "":
		return fmt.Sprintf("%v %q", e.Kind, e.Token)
	case e.Clause != "":
		return fmt.Sprintf("%v in clause %q", e.Kind, e.Clause)
	default:
		return e.Kind.Error()
	}
}

func (e *ParseError) Unwrap() error { return e.Kind }

// KindName returns a stable name for the error kind (e.g. "InvalidField").
func (e *ParseError) KindName() string {
	switch e.Kind {
	case ErrEmptyQuery:
		return "EmptyQuery"
	case ErrNoConditions:
		return "NoConditions"
	case ErrMalformedClause:
		return "MalformedClause"
	case ErrInvalidOperator:
		return "InvalidOperator"
	case ErrInvalidField:
		return "InvalidField"
	case ErrInvalidExpression:
		return "InvalidExpression"
	case ErrEmptyExpression:
		return "EmptyExpression"
	case ErrInvalidNumericLiteral:
		return "InvalidNumericLiteral"
	default:
		return "Unknown"
	}
}

func newParseError(kind error, tok Token, clause string) *ParseError {
	return &ParseError{Kind: kind, Token: tok.Value, Clause: clause, Pos: tok.Pos}
}
