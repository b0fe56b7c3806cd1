package filter

import (
	"encoding/json"
	"testing"
)

func TestEvaluateQueries(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		record Record
		want   bool
	}{
		{"both conditions hold", "market_cap > 500 AND current_price < 15", Record{"market_cap": 600, "current_price": 10}, true},
		{"first condition fails", "market_cap > 500 AND current_price < 15", Record{"market_cap": 400, "current_price": 10}, false},
		{"field vs field true", "high > low", Record{"high": 120, "low": 100}, true},
		{"field vs field false", "high > low", Record{"high": 90, "low": 100}, false},
		{"arithmetic sum", "roe_per + roce_per > 30", Record{"roe_per": 18, "roce_per": 15}, true},
		{"arithmetic sum below", "roe_per + roce_per > 30", Record{"roe_per": 10, "roce_per": 15}, false},
		{"subtraction", "high - low >= 20", Record{"high": 120, "low": 100}, true},
		{"multiplication by literal", "current_price < high_52w * 0.8", Record{"current_price": 70, "high_52w": 100}, true},
		{"division", "market_cap / ent_value > 0.5", Record{"market_cap": 60, "ent_value": 100}, true},
		{"percent literal", "roe_per >= 20%", Record{"roe_per": 20}, true},
		{"string values are parsed", "market_cap > 500", Record{"market_cap": " 600.5 "}, true},
		{"json numbers are parsed", "market_cap > 500", Record{"market_cap": json.Number("501")}, true},
		{"missing field is false", "market_cap > 500", Record{}, false},
		{"missing field is false for !=", "market_cap != 500", Record{}, false},
		{"non-numeric field is false", "market_cap < 500", Record{"market_cap": "n/a"}, false},
		{"nil value is false", "market_cap < 500", Record{"market_cap": nil}, false},
		{"missing field inside arithmetic", "roe_per + roce_per > 0", Record{"roe_per": 18}, false},
		{"or rescues a missing field", "market_cap > 500 OR beta < 1", Record{"beta": 0.5}, true},
		{"literal vs literal", "5 > 3", Record{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conds, err := Parse(tt.query)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.query, err)
			}
			if got := Evaluate(conds, tt.record); got != tt.want {
				t.Errorf("Evaluate(%q, %v) = %v, want %v", tt.query, tt.record, got, tt.want)
			}
			if got := conds.Match(tt.record); got != tt.want {
				t.Errorf("Match = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateDivisionByZero(t *testing.T) {
	vocab := NewVocabulary("debt", "equity")
	conds, err := vocab.Parse("debt / equity > 1")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if Evaluate(conds, Record{"debt": 10, "equity": 0}) {
		t.Error("division by zero must not satisfy the condition")
	}
	if _, ok := EvaluateExpr(Record{"debt": 10, "equity": 0}, conds[0].Left); ok {
		t.Error("division by zero must yield an absent value")
	}
	if !Evaluate(conds, Record{"debt": 10, "equity": 5}) {
		t.Error("10 / 5 > 1 should hold")
	}

	neq, err := vocab.Parse("debt / 0 != 1")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if Evaluate(neq, Record{"debt": 10}) {
		t.Error("absent value must not satisfy !=")
	}
}

func TestEvaluateConditionEquality(t *testing.T) {
	vocab := NewVocabulary("x")
	tests := []struct {
		query string
		x     float64
		want  bool
	}{
		{"x = 10.0", 10.00005, true},
		{"x = 10.0", 10.1, false},
		{"x != 10.0", 10.00005, false},
		{"x != 10.0", 10.1, true},
		{"x >= 10", 10, true},
		{"x <= 10", 10, true},
		{"x < 10", 10, false},
		{"x > 10", 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			conds, err := vocab.Parse(tt.query)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if got := EvaluateCondition(Record{"x": tt.x}, conds[0]); got != tt.want {
				t.Errorf("x=%v: got %v, want %v", tt.x, got, tt.want)
			}
		})
	}
}

// AND does not bind tighter than OR: "A OR B AND C" is "(A OR B) AND C".
func TestEvaluateFoldsLeftToRight(t *testing.T) {
	vocab := NewVocabulary("a", "b", "c")
	conds, err := vocab.Parse("a > 0 OR b > 0 AND c > 0")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	tests := []struct {
		name    string
		a, b, c float64
		want    bool
	}{
		{"A true, B false, C true", 1, 0, 1, true},
		{"A false, B false, C true", 0, 0, 1, false}, // standard precedence would give true
		{"A true, B false, C false", 1, 0, 0, false}, // standard precedence would give true
		{"A false, B true, C true", 0, 1, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{"a": tt.a, "b": tt.b, "c": tt.c}
			if got := Evaluate(conds, rec); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateEmptyConditions(t *testing.T) {
	if Evaluate(nil, Record{"x": 1}) {
		t.Error("empty condition list should match nothing")
	}
}
