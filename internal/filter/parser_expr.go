package filter

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// decimalLiteral is the only number shape a query accepts. strconv alone
// would also take hex floats, underscores, "Inf" and "NaN".
var decimalLiteral = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?%?$`)

// parseSide parses one operand of a clause. pos is where the operand would
// start, used for errors on empty operands.
func (p *parser) parseSide(toks []Token, c Clause, pos int) (Expr, error) {
	if len(toks) == 0 {
		return nil, &ParseError{Kind: ErrEmptyExpression, Clause: c.Text, Pos: pos}
	}

	// field (+|-|*|/) operand
	if len(toks) >= 3 && toks[0].Type == TokenIdent && toks[1].Type == TokenArith {
		field, err := p.parseField(toks[0], c)
		if err != nil {
			return nil, err
		}
		op, _ := ParseArithOp(toks[1].Value)
		right, ok, err := p.parseOperand(toks[2:], c)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, p.invalidExpression(toks, c)
		}
		return ArithmeticExpr{Left: field, Op: op, Right: right}, nil
	}

	expr, ok, err := p.parseOperand(toks, c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.invalidExpression(toks, c)
	}
	return expr, nil
}

// parseOperand parses a bare field or number, including a negated number.
// ok is false when toks has any other shape.
func (p *parser) parseOperand(toks []Token, c Clause) (Expr, bool, error) {
	switch {
	case len(toks) == 1 && toks[0].Type == TokenNumber:
		n, err := parseNumber(toks[0], c, false)
		return n, err == nil, err
	case len(toks) == 2 && toks[0].Type == TokenArith && toks[0].Value == "-" && toks[1].Type == TokenNumber && toks[1].Pos == toks[0].End():
		n, err := parseNumber(toks[1], c, true)
		if err == nil {
			n.Text = "-" + n.Text
		}
		return n, err == nil, err
	case len(toks) == 1 && toks[0].Type == TokenIdent:
		f, err := p.parseField(toks[0], c)
		return f, err == nil, err
	}
	return nil, false, nil
}

func (p *parser) parseField(tok Token, c Clause) (FieldRef, error) {
	if !p.vocab.Contains(tok.Value) {
		return FieldRef{}, newParseError(ErrInvalidField, tok, c.Text)
	}
	return FieldRef{Name: tok.Value}, nil
}

func parseNumber(tok Token, c Clause, negate bool) (NumberLiteral, error) {
	if !decimalLiteral.MatchString(tok.Value) {
		return NumberLiteral{}, newParseError(ErrInvalidNumericLiteral, tok, c.Text)
	}
	text := strings.TrimSuffix(tok.Value, "%")
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return NumberLiteral{}, newParseError(ErrInvalidNumericLiteral, tok, c.Text)
	}
	if negate {
		v = -v
	}
	return NumberLiteral{Value: v, Text: tok.Value}, nil
}

func (p *parser) invalidExpression(toks []Token, c Clause) error {
	start, end := toks[0].Pos, toks[len(toks)-1].End()
	return &ParseError{
		Kind:   ErrInvalidExpression,
		Token:  p.input[start:end],
		Clause: c.Text,
		Pos:    start,
	}
}
