package filter

// parseClause parses "operand comparator operand".
func (p *parser) parseClause(c Clause) (Condition, error) {
	opIdx := -1
	for i, tok := range c.Tokens {
		if tok.Type == TokenComparator || tok.Type == TokenOperator {
			opIdx = i
			break
		}
	}
	if opIdx < 0 {
		return Condition{}, &ParseError{Kind: ErrMalformedClause, Token: c.Text, Clause: c.Text, Pos: c.Pos}
	}

	opTok := c.Tokens[opIdx]
	cmp, ok := ParseComparator(opTok.Value)
	if !ok {
		return Condition{}, newParseError(ErrInvalidOperator, opTok, c.Text)
	}

	left, err := p.parseSide(c.Tokens[:opIdx], c, opTok.Pos)
	if err != nil {
		return Condition{}, err
	}
	right, err := p.parseSide(c.Tokens[opIdx+1:], c, opTok.End())
	if err != nil {
		return Condition{}, err
	}

	return Condition{
		Left:       left,
		Comparator: cmp,
		Right:      right,
		Clause:     c.Text,
	}, nil
}
