package filter

import (
	"errors"
	"testing"
)

func TestParseConditions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Conditions
	}{
		{
			name:  "field against number",
			input: "market_cap > 500",
			want: Conditions{
				{Left: FieldRef{Name: "market_cap"}, Comparator: CompareGt, Right: NumberLiteral{Value: 500, Text: "500"}, Clause: "market_cap > 500"},
			},
		},
		{
			name:  "two conditions joined by AND",
			input: "market_cap > 500 AND current_price < 15",
			want: Conditions{
				{Left: FieldRef{Name: "market_cap"}, Comparator: CompareGt, Right: NumberLiteral{Value: 500, Text: "500"}, Clause: "market_cap > 500"},
				{Left: FieldRef{Name: "current_price"}, Comparator: CompareLt, Right: NumberLiteral{Value: 15, Text: "15"}, Logical: LogicalAnd, Clause: "current_price < 15"},
			},
		},
		{
			name:  "field against field",
			input: "high > low",
			want: Conditions{
				{Left: FieldRef{Name: "high"}, Comparator: CompareGt, Right: FieldRef{Name: "low"}, Clause: "high > low"},
			},
		},
		{
			name:  "arithmetic on the left",
			input: "roe_per + roce_per > 30",
			want: Conditions{
				{
					Left:       ArithmeticExpr{Left: FieldRef{Name: "roe_per"}, Op: ArithAdd, Right: FieldRef{Name: "roce_per"}},
					Comparator: CompareGt,
					Right:      NumberLiteral{Value: 30, Text: "30"},
					Clause:     "roe_per + roce_per > 30",
				},
			},
		},
		{
			name:  "arithmetic with a number on the right side",
			input: "current_price <= high_52w * 0.8",
			want: Conditions{
				{
					Left:       FieldRef{Name: "current_price"},
					Comparator: CompareLte,
					Right:      ArithmeticExpr{Left: FieldRef{Name: "high_52w"}, Op: ArithMul, Right: NumberLiteral{Value: 0.8, Text: "0.8"}},
					Clause:     "current_price <= high_52w * 0.8",
				},
			},
		},
		{
			name:  "percent suffix is stripped without scaling",
			input: "roe_per >= 20%",
			want: Conditions{
				{Left: FieldRef{Name: "roe_per"}, Comparator: CompareGte, Right: NumberLiteral{Value: 20, Text: "20%"}, Clause: "roe_per >= 20%"},
			},
		},
		{
			name:  "negative literal",
			input: "price_ret_daily_5d > -2.5",
			want: Conditions{
				{Left: FieldRef{Name: "price_ret_daily_5d"}, Comparator: CompareGt, Right: NumberLiteral{Value: -2.5, Text: "-2.5"}, Clause: "price_ret_daily_5d > -2.5"},
			},
		},
		{
			name:  "no whitespace around operators",
			input: "debt_to_equity<0.5",
			want: Conditions{
				{Left: FieldRef{Name: "debt_to_equity"}, Comparator: CompareLt, Right: NumberLiteral{Value: 0.5, Text: "0.5"}, Clause: "debt_to_equity<0.5"},
			},
		},
		{
			name:  "lower case logical operators",
			input: "beta < 1 or beta != 2",
			want: Conditions{
				{Left: FieldRef{Name: "beta"}, Comparator: CompareLt, Right: NumberLiteral{Value: 1, Text: "1"}, Clause: "beta < 1"},
				{Left: FieldRef{Name: "beta"}, Comparator: CompareNeq, Right: NumberLiteral{Value: 2, Text: "2"}, Logical: LogicalOr, Clause: "beta != 2"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d conditions, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("condition %d = %#v\nwant %#v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseLogicalOperatorInvariant(t *testing.T) {
	conds, err := Parse("high > 1 AND low > 1 OR beta > 1 and roe_per > 1")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := []LogicalOp{LogicalNone, LogicalAnd, LogicalOr, LogicalAnd}
	if len(conds) != len(want) {
		t.Fatalf("got %d conditions, want %d", len(conds), len(want))
	}
	for i, op := range want {
		if conds[i].Logical != op {
			t.Errorf("condition %d logical = %v, want %v", i, conds[i].Logical, op)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		kind      error
		wantToken string
	}{
		{name: "empty", input: "", kind: ErrEmptyQuery},
		{name: "whitespace", input: "   ", kind: ErrEmptyQuery},
		{name: "only operators", input: "AND OR", kind: ErrNoConditions},
		{name: "dangling operator", input: "market_cap > 5 AND", kind: ErrMalformedClause, wantToken: "AND"},
		{name: "leading operator", input: "OR market_cap > 5", kind: ErrMalformedClause, wantToken: "OR"},
		{name: "no comparator", input: "market_cap 500", kind: ErrMalformedClause, wantToken: "market_cap 500"},
		{name: "double equals", input: "market_cap == 500", kind: ErrInvalidOperator, wantToken: "=="},
		{name: "reversed operator", input: "market_cap => 500", kind: ErrInvalidOperator, wantToken: "=>"},
		{name: "sql not equals", input: "market_cap <> 500", kind: ErrInvalidOperator, wantToken: "<>"},
		{name: "unknown field", input: "unknown_field > 5", kind: ErrInvalidField, wantToken: "unknown_field"},
		{name: "unknown field in arithmetic", input: "foo + roe_per > 5", kind: ErrInvalidField, wantToken: "foo"},
		{name: "unknown field on the right of arithmetic", input: "roe_per + foo > 5", kind: ErrInvalidField, wantToken: "foo"},
		{name: "two arithmetic operators", input: "roe_per + roce_per + beta > 5", kind: ErrInvalidExpression, wantToken: "roe_per + roce_per + beta"},
		{name: "number on the left of arithmetic", input: "5 + roe_per > 5", kind: ErrInvalidExpression, wantToken: "5 + roe_per"},
		{name: "parentheses", input: "(roe_per > 5)", kind: ErrInvalidExpression, wantToken: "(roe_per"},
		{name: "string literal", input: "roe_per > 'x'", kind: ErrInvalidExpression, wantToken: "'x'"},
		{name: "second comparator", input: "roe_per > beta > 1", kind: ErrInvalidExpression, wantToken: "beta > 1"},
		{name: "empty left side", input: "> 5", kind: ErrEmptyExpression},
		{name: "empty right side", input: "roe_per >", kind: ErrEmptyExpression},
		{name: "bad number", input: "roe_per > 1.2.3", kind: ErrInvalidNumericLiteral, wantToken: "1.2.3"},
		{name: "number with letters", input: "roe_per > 12abc", kind: ErrInvalidNumericLiteral, wantToken: "12abc"},
		{name: "overflowing number", input: "roe_per > 1e999", kind: ErrInvalidNumericLiteral, wantToken: "1e999"},
		{name: "hex float", input: "market_cap > 0x1p3", kind: ErrInvalidNumericLiteral, wantToken: "0x1p3"},
		{name: "digit separators", input: "market_cap > 1_000", kind: ErrInvalidNumericLiteral, wantToken: "1_000"},
		{name: "percent in the middle", input: "roe_per > 2%0", kind: ErrInvalidNumericLiteral, wantToken: "2%0"},
		{name: "space after minus", input: "market_cap > - 5", kind: ErrInvalidExpression, wantToken: "- 5"},
		{name: "space after minus in arithmetic", input: "roe_per - - 5 > 1", kind: ErrInvalidExpression, wantToken: "roe_per - - 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conds, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) = %v, want error", tt.input, conds)
			}
			if conds != nil {
				t.Errorf("expected no conditions on error, got %v", conds)
			}
			if !errors.Is(err, tt.kind) {
				t.Fatalf("error = %v, want kind %v", err, tt.kind)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not a *ParseError", err)
			}
			if tt.wantToken != "" && pe.Token != tt.wantToken {
				t.Errorf("token = %q, want %q", pe.Token, tt.wantToken)
			}
		})
	}
}

func TestParseErrorCarriesClause(t *testing.T) {
	_, err := Parse("market_cap > 5 AND roe_per > abc")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.KindName() != "InvalidField" {
		t.Errorf("kind = %s, want InvalidField", pe.KindName())
	}
	if pe.Clause != "roe_per > abc" {
		t.Errorf("clause = %q", pe.Clause)
	}
	if pe.Pos != 29 {
		t.Errorf("pos = %d, want 29", pe.Pos)
	}
}

func TestParseCustomVocabulary(t *testing.T) {
	vocab := NewVocabulary("debt", "equity")
	conds, err := vocab.Parse("debt / equity > 1")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if _, ok := conds[0].Left.(ArithmeticExpr); !ok {
		t.Fatalf("left = %T, want ArithmeticExpr", conds[0].Left)
	}
	if _, err := vocab.Parse("market_cap > 1"); !errors.Is(err, ErrInvalidField) {
		t.Fatalf("expected InvalidField for a field outside the vocabulary, got %v", err)
	}
}

func TestConditionsString(t *testing.T) {
	conds := MustParse("roe_per+roce_per>30 and market_cap >= 20%")
	if got := conds.String(); got != "roe_per + roce_per > 30 AND market_cap >= 20" {
		t.Errorf("String() = %q", got)
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustParse("nope > 1")
}

func TestDefaultVocabulary(t *testing.T) {
	v := DefaultVocabulary()
	for _, f := range []string{"market_cap", "roe_per", "roce_per", "high_52w", "ev_fcf_ttm"} {
		if !v.Contains(f) {
			t.Errorf("expected %s in default vocabulary", f)
		}
	}
	if v.Contains("debt") {
		t.Error("debt should not be a default field")
	}
	if got := v.Describe("roe_per"); got != "ROE % (return on equity TTM)" {
		t.Errorf("Describe(roe_per) = %q", got)
	}
	if got := v.Describe("roa_rfy"); got != "roa_rfy" {
		t.Errorf("Describe(roa_rfy) = %q, want field name fallback", got)
	}
	if v.Fields()[0] != "market_cap" {
		t.Errorf("Fields()[0] = %q, want market_cap", v.Fields()[0])
	}
}

func TestOperatorWhitelists(t *testing.T) {
	for _, op := range []string{">", "<", "=", ">=", "<=", "!="} {
		if !IsComparator(op) {
			t.Errorf("IsComparator(%q) = false", op)
		}
	}
	for _, op := range []string{"==", "=>", "<>", "!", "+"} {
		if IsComparator(op) {
			t.Errorf("IsComparator(%q) = true", op)
		}
	}
	for _, op := range []string{"+", "-", "*", "/"} {
		if !IsArithmetic(op) {
			t.Errorf("IsArithmetic(%q) = false", op)
		}
	}
	for _, op := range []string{"%", "^", ">"} {
		if IsArithmetic(op) {
			t.Errorf("IsArithmetic(%q) = true", op)
		}
	}
}

func TestParseNumberShapes(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"market_cap > 500", 500},
		{"market_cap > 2.", 2},
		{"market_cap > .5", 0.5},
		{"market_cap > 1e3", 1000},
		{"roe_per > 20%", 20},
		{"beta > -0.5", -0.5},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			conds, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			lit, ok := conds[0].Right.(NumberLiteral)
			if !ok || lit.Value != tt.want {
				t.Errorf("right = %#v, want %v", conds[0].Right, tt.want)
			}
		})
	}
}
