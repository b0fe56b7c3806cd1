package pgstore

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stockscreen/screener/internal/filter"
	"github.com/stockscreen/screener/internal/index"
)

func TestBuildQuery(t *testing.T) {
	conds := filter.MustParse("market_cap > 500 AND roe_per + roce_per > 30")
	query, args, err := BuildQuery(conds, "stocks", index.ScreenOptions{Limit: 10, Symbols: []string{"TCS"}})
	if err != nil {
		t.Fatalf("BuildQuery: %v", err)
	}

	for _, want := range []string{
		`SELECT "symbol", "name", "market_cap", "roce_per", "roe_per"`,
		`FROM "stocks"`,
		"(market_cap > CAST($1 AS DOUBLE PRECISION))",
		"((roe_per + roce_per) > CAST($2 AS DOUBLE PRECISION))",
		`"symbol" IN ($3)`,
		`ORDER BY "symbol" ASC`,
		"LIMIT $4",
	} {
		if !strings.Contains(query, want) {
			t.Errorf("query missing %q:\n%s", want, query)
		}
	}

	if len(args) != 4 {
		t.Fatalf("got %d args, want 4: %v", len(args), args)
	}
	if args[0] != 500.0 || args[2] != "TCS" {
		t.Errorf("unexpected args %v", args)
	}
	if _, ok := args[3].(int64); !ok {
		t.Errorf("limit arg should be int64, got %T", args[3])
	}
}

func TestBuildQueryRequiresTable(t *testing.T) {
	if _, _, err := BuildQuery(filter.MustParse("beta > 1"), "", index.ScreenOptions{}); err == nil {
		t.Fatal("expected error without table")
	}
}

func TestConnectRejectsBadDSN(t *testing.T) {
	if _, err := Connect(context.Background(), "not a dsn ::", "stocks"); err == nil {
		t.Fatal("expected error for malformed dsn")
	}
	if _, err := Connect(context.Background(), "postgres://localhost/x", ""); err == nil {
		t.Fatal("expected error without table")
	}
}

// Runs only when SCREENER_TEST_POSTGRES_DSN points at a scratch database.
func TestScreenAgainstPostgres(t *testing.T) {
	dsn := os.Getenv("SCREENER_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SCREENER_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	store, err := Connect(ctx, dsn, "screener_test_stocks")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer store.Close()

	setup := []string{
		`DROP TABLE IF EXISTS screener_test_stocks`,
		`CREATE TABLE screener_test_stocks (symbol TEXT PRIMARY KEY, name TEXT, market_cap NUMERIC, ent_value BIGINT)`,
		`INSERT INTO screener_test_stocks VALUES ('A', 'Alpha', 200, 100), ('B', 'Beta', 200, 0), ('C', NULL, 50, 100)`,
	}
	for _, stmt := range setup {
		if _, err := store.Pool.Exec(ctx, stmt); err != nil {
			t.Fatalf("setup %q: %v", stmt, err)
		}
	}
	defer store.Pool.Exec(ctx, `DROP TABLE IF EXISTS screener_test_stocks`)

	got, err := store.Screen(ctx, filter.MustParse("market_cap / ent_value > 1"), index.ScreenOptions{})
	if err != nil {
		t.Fatalf("screen: %v", err)
	}
	if len(got) != 1 || got[0].Symbol != "A" || got[0].Values["market_cap"] != 200 {
		t.Fatalf("screen = %+v, want only A", got)
	}
}
