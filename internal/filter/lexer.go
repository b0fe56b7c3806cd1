package filter

import (
	"strings"
	"unicode"
)

// TokenType represents the type of a lexer token.
type TokenType int

const (
	TokenEOF        TokenType = iota
	TokenIdent                // market_cap, roe_per
	TokenNumber               // 500, 1.5, 20%
	TokenComparator           // > < = >= <= !=
	TokenOperator             // any other run of <>=! such as == or =>
	TokenArith                // + - * /
	TokenAnd                  // AND (any case)
	TokenOr                   // OR (any case)
	TokenWord                 // word that is neither identifier nor number, e.g. abc%
	TokenError                // unexpected character
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenIdent:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenComparator:
		return "comparator"
	case TokenOperator:
		return "operator"
	case TokenArith:
		return "arithmetic operator"
	case TokenAnd:
		return "AND"
	case TokenOr:
		return "OR"
	case TokenWord:
		return "word"
	default:
		return "error"
	}
}

// Token represents a lexer token.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

// End returns the byte offset just past the token.
func (t Token) End() int { return t.Pos + len(t.Value) }

// Lexer tokenizes a query string.
type Lexer struct {
	input string
	pos   int
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos}
	}

	start := l.pos
	ch := l.input[l.pos]

	switch {
	case isOperatorChar(ch):
		// Longest run wins, so ">=" is never read as ">" followed by "=".
		for l.pos < len(l.input) && isOperatorChar(l.input[l.pos]) {
			l.pos++
		}
		value := l.input[start:l.pos]
		if IsComparator(value) {
			return Token{Type: TokenComparator, Value: value, Pos: start}
		}
		return Token{Type: TokenOperator, Value: value, Pos: start}
	case IsArithmetic(string(ch)):
		l.pos++
		return Token{Type: TokenArith, Value: string(ch), Pos: start}
	case isWordChar(ch):
		return l.scanWord()
	default:
		l.pos++
		return Token{Type: TokenError, Value: string(ch), Pos: start}
	}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
		l.pos++
	}
}

func (l *Lexer) scanWord() Token {
	start := l.pos
	for l.pos < len(l.input) && isWordChar(l.input[l.pos]) {
		l.pos++
	}
	value := l.input[start:l.pos]

	first := value[0]
	switch {
	case isIdentStart(first) && isIdentifier(value):
		switch strings.ToUpper(value) {
		case "AND":
			return Token{Type: TokenAnd, Value: value, Pos: start}
		case "OR":
			return Token{Type: TokenOr, Value: value, Pos: start}
		}
		return Token{Type: TokenIdent, Value: value, Pos: start}
	case isDigit(first) || first == '.':
		return Token{Type: TokenNumber, Value: value, Pos: start}
	default:
		return Token{Type: TokenWord, Value: value, Pos: start}
	}
}

// Tokenize returns every token of input, excluding the trailing EOF.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var toks []Token
	for {
		tok := l.NextToken()
		if tok.Type == TokenEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func isOperatorChar(ch byte) bool {
	return ch == '<' || ch == '>' || ch == '=' || ch == '!'
}

func isWordChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '.' || ch == '%'
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentifier(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isIdentStart(s[i]) && !isDigit(s[i]) {
			return false
		}
	}
	return s != ""
}
