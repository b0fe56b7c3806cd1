package filter

import "testing"

func TestLexerTokens(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		tokens []Token
	}{
		{
			name:  "simple comparison",
			input: "market_cap > 500",
			tokens: []Token{
				{Type: TokenIdent, Value: "market_cap", Pos: 0},
				{Type: TokenComparator, Value: ">", Pos: 11},
				{Type: TokenNumber, Value: "500", Pos: 13},
			},
		},
		{
			name:  "multi-character comparators are one token",
			input: "a>=1 b<=2 c!=3",
			tokens: []Token{
				{Type: TokenIdent, Value: "a", Pos: 0},
				{Type: TokenComparator, Value: ">=", Pos: 1},
				{Type: TokenNumber, Value: "1", Pos: 3},
				{Type: TokenIdent, Value: "b", Pos: 5},
				{Type: TokenComparator, Value: "<=", Pos: 6},
				{Type: TokenNumber, Value: "2", Pos: 8},
				{Type: TokenIdent, Value: "c", Pos: 10},
				{Type: TokenComparator, Value: "!=", Pos: 11},
				{Type: TokenNumber, Value: "3", Pos: 13},
			},
		},
		{
			name:  "unknown operator run",
			input: "a == 1",
			tokens: []Token{
				{Type: TokenIdent, Value: "a", Pos: 0},
				{Type: TokenOperator, Value: "==", Pos: 2},
				{Type: TokenNumber, Value: "1", Pos: 5},
			},
		},
		{
			name:  "logical keywords in any case",
			input: "and Or AND or",
			tokens: []Token{
				{Type: TokenAnd, Value: "and", Pos: 0},
				{Type: TokenOr, Value: "Or", Pos: 4},
				{Type: TokenAnd, Value: "AND", Pos: 7},
				{Type: TokenOr, Value: "or", Pos: 11},
			},
		},
		{
			name:  "keyword inside identifier is not split",
			input: "operand android",
			tokens: []Token{
				{Type: TokenIdent, Value: "operand", Pos: 0},
				{Type: TokenIdent, Value: "android", Pos: 8},
			},
		},
		{
			name:  "arithmetic and percent",
			input: "roe_per*2/20%",
			tokens: []Token{
				{Type: TokenIdent, Value: "roe_per", Pos: 0},
				{Type: TokenArith, Value: "*", Pos: 7},
				{Type: TokenNumber, Value: "2", Pos: 8},
				{Type: TokenArith, Value: "/", Pos: 9},
				{Type: TokenNumber, Value: "20%", Pos: 10},
			},
		},
		{
			name:  "odd words and characters",
			input: "abc% (",
			tokens: []Token{
				{Type: TokenWord, Value: "abc%", Pos: 0},
				{Type: TokenError, Value: "(", Pos: 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) != len(tt.tokens) {
				t.Fatalf("got %d tokens %+v, want %d", len(got), got, len(tt.tokens))
			}
			for i, want := range tt.tokens {
				if got[i] != want {
					t.Errorf("token %d = %+v, want %+v", i, got[i], want)
				}
			}
		})
	}
}

func TestLexerEOF(t *testing.T) {
	l := NewLexer("   ")
	if tok := l.NextToken(); tok.Type != TokenEOF {
		t.Fatalf("expected EOF, got %v", tok.Type)
	}
}
