package filter

import (
	"reflect"
	"strings"
	"testing"
)

func TestCompileSQL(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		where  string
		args   []any
		inline string
	}{
		{
			name:   "single condition",
			query:  "market_cap > 500",
			where:  "(market_cap > ?)",
			args:   []any{500.0},
			inline: "(market_cap > 500)",
		},
		{
			name:   "two conditions",
			query:  "market_cap > 500 AND current_price < 15",
			where:  "((market_cap > ?) AND (current_price < ?))",
			args:   []any{500.0, 15.0},
			inline: "((market_cap > 500) AND (current_price < 15))",
		},
		{
			name:   "field vs field has no args",
			query:  "high > low",
			where:  "(high > low)",
			inline: "(high > low)",
		},
		{
			name:   "arithmetic",
			query:  "roe_per + roce_per > 30",
			where:  "((roe_per + roce_per) > ?)",
			args:   []any{30.0},
			inline: "((roe_per + roce_per) > 30)",
		},
		{
			name:   "division by field is guarded",
			query:  "market_cap / ent_value > 1",
			where:  "((market_cap / (CASE WHEN ent_value = 0 THEN NULL ELSE ent_value END)) > ?)",
			args:   []any{1.0},
			inline: "((market_cap / (CASE WHEN ent_value = 0 THEN NULL ELSE ent_value END)) > 1)",
		},
		{
			name:   "division by literal binds it twice",
			query:  "market_cap / 2.5 <= 100",
			where:  "((market_cap / (CASE WHEN ? = 0 THEN NULL ELSE ? END)) <= ?)",
			args:   []any{2.5, 2.5, 100.0},
			inline: "((market_cap / (CASE WHEN 2.5 = 0 THEN NULL ELSE 2.5 END)) <= 100)",
		},
		{
			name:   "left to right fold",
			query:  "beta > 1 OR beta < 0 AND roe_per != 20%",
			where:  "(((beta > ?) OR (beta < ?)) AND (roe_per != ?))",
			args:   []any{1.0, 0.0, 20.0},
			inline: "(((beta > 1) OR (beta < 0)) AND (roe_per != 20))",
		},
		{
			name:   "negative literal",
			query:  "price_ret_daily_5d >= -1.5",
			where:  "(price_ret_daily_5d >= ?)",
			args:   []any{-1.5},
			inline: "(price_ret_daily_5d >= -1.5)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conds := MustParse(tt.query)
			got := CompileSQL(conds)
			if got.Where != tt.where {
				t.Errorf("Where = %q\nwant    %q", got.Where, tt.where)
			}
			if !reflect.DeepEqual(got.Args, tt.args) {
				t.Errorf("Args = %#v, want %#v", got.Args, tt.args)
			}
			if inline := got.Inline(); inline != tt.inline {
				t.Errorf("Inline = %q\nwant     %q", inline, tt.inline)
			}
			if strings.Count(got.Where, "?") != len(got.Args) {
				t.Errorf("placeholder count %d != arg count %d", strings.Count(got.Where, "?"), len(got.Args))
			}
		})
	}
}

func TestCompileSQLDivisionByZeroInline(t *testing.T) {
	conds, err := NewVocabulary("debt", "equity").Parse("debt / equity > 1")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := "((debt / (CASE WHEN equity = 0 THEN NULL ELSE equity END)) > 1)"
	if got := InlineSQL(conds); got != want {
		t.Errorf("InlineSQL = %q, want %q", got, want)
	}
}

func TestCompileSQLPostgresDialect(t *testing.T) {
	got := CompileSQLDialect(MustParse("5 > 3 AND market_cap > 500"), DialectPostgres)
	want := "((CAST(? AS DOUBLE PRECISION) > CAST(? AS DOUBLE PRECISION)) AND (market_cap > CAST(? AS DOUBLE PRECISION)))"
	if got.Where != want {
		t.Errorf("Where = %q\nwant    %q", got.Where, want)
	}
	if len(got.Args) != 3 {
		t.Errorf("got %d args, want 3", len(got.Args))
	}
}

func TestCompileExprAndCondition(t *testing.T) {
	conds := MustParse("high - low > 10")

	expr, args := CompileExpr(conds[0].Left)
	if expr != "(high - low)" || len(args) != 0 {
		t.Errorf("CompileExpr = %q %v", expr, args)
	}

	cond, args := CompileCondition(conds[0])
	if cond != "((high - low) > ?)" {
		t.Errorf("CompileCondition = %q", cond)
	}
	if !reflect.DeepEqual(args, []any{10.0}) {
		t.Errorf("args = %#v", args)
	}
}

func TestCompileSQLEmpty(t *testing.T) {
	if got := CompileSQL(nil).Where; got != "(1 = 0)" {
		t.Errorf("Where = %q, want (1 = 0)", got)
	}
}

func TestParseDialect(t *testing.T) {
	for _, name := range []string{"", "sqlite", "SQLite3"} {
		if d, err := ParseDialect(name); err != nil || d != DialectSQLite {
			t.Errorf("ParseDialect(%q) = %v, %v", name, d, err)
		}
	}
	for _, name := range []string{"postgres", "pg", "PostgreSQL"} {
		if d, err := ParseDialect(name); err != nil || d != DialectPostgres {
			t.Errorf("ParseDialect(%q) = %v, %v", name, d, err)
		}
	}
	if _, err := ParseDialect("mysql"); err == nil {
		t.Error("expected error for mysql")
	}
}
