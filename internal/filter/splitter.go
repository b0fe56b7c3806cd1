package filter

import "strings"

// Clause is the verbatim text of one "operand comparator operand" unit along
// with its tokens.
type Clause struct {
	Text   string
	Pos    int
	Tokens []Token
}

// SplitClauses splits a query on AND/OR keywords (any case, word bounded).
// It returns the clauses in order and the operators between them, so
// len(ops) == len(clauses)-1.
func SplitClauses(query string) ([]Clause, []LogicalOp, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil, &ParseError{Kind: ErrEmptyQuery}
	}

	var (
		clauses []Clause
		ops     []LogicalOp
		opToks  []Token
		current []Token
	)
	flush := func() {
		clauses = append(clauses, newClause(query, current))
		current = nil
	}

	for _, tok := range Tokenize(query) {
		switch tok.Type {
		case TokenAnd:
			flush()
			ops = append(ops, LogicalAnd)
			opToks = append(opToks, tok)
		case TokenOr:
			flush()
			ops = append(ops, LogicalOr)
			opToks = append(opToks, tok)
		default:
			current = append(current, tok)
		}
	}
	flush()

	nonEmpty := 0
	for _, c := range clauses {
		if len(c.Tokens) > 0 {
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		return nil, nil, &ParseError{Kind: ErrNoConditions, Token: strings.TrimSpace(query)}
	}

	// A dangling operator leaves an empty clause next to it.
	for i, c := range clauses {
		if len(c.Tokens) > 0 {
			continue
		}
		op := opToks[0]
		if i > 0 {
			op = opToks[i-1]
		}
		return nil, nil, newParseError(ErrMalformedClause, op, "")
	}

	return clauses, ops, nil
}

func newClause(query string, toks []Token) Clause {
	if len(toks) == 0 {
		return Clause{}
	}
	start, end := toks[0].Pos, toks[len(toks)-1].End()
	return Clause{Text: query[start:end], Pos: start, Tokens: toks}
}
