package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/stockscreen/screener/internal/filter"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"stocks.csv", FormatCSV},
		{"STOCKS.JSON", FormatJSON},
		{"dir/stocks.parquet", FormatParquet},
		{"stocks.pq", FormatParquet},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.path)
		if err != nil || got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, %v; want %q", tt.path, got, err, tt.want)
		}
	}
	if _, err := DetectFormat("stocks.xlsx"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestReadCSV(t *testing.T) {
	input := "Symbol,Name,market_cap,roe_per\n" +
		"TCS,Tata Consultancy,1200000,45.2\n" +
		"INFY,Infosys,,30\n" +
		",Nameless,10,10\n"

	rows, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Symbol != "TCS" || rows[0].Name != "Tata Consultancy" {
		t.Errorf("unexpected identity %+v", rows[0])
	}
	if v, ok := rows[0].Values.Number("roe_per"); !ok || v != 45.2 {
		t.Errorf("roe_per = %v, %v", v, ok)
	}
	if _, ok := rows[1].Values["market_cap"]; ok {
		t.Error("empty cells should be left out")
	}
}

func TestReadCSVEmpty(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(""))
	if err != nil || len(rows) != 0 {
		t.Fatalf("ReadCSV(\"\") = %v, %v", rows, err)
	}
}

func TestParseJSON(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		rows, err := ParseJSON([]byte(`[
			{"nse_code": "RELIANCE", "company_name": "Reliance Industries", "market_cap": 1800000, "beta": null, "tags": ["energy"]},
			{"ticker": "HDFCBANK", "roe_per": "17.5"}
		]`))
		if err != nil {
			t.Fatalf("ParseJSON: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}
		if rows[0].Symbol != "RELIANCE" || rows[0].Name != "Reliance Industries" {
			t.Errorf("unexpected identity %+v", rows[0])
		}
		if v, ok := rows[0].Values.Number("market_cap"); !ok || v != 1800000 {
			t.Errorf("market_cap = %v, %v", v, ok)
		}
		if _, ok := rows[0].Values.Number("beta"); ok {
			t.Error("null should be absent")
		}
		if _, ok := rows[0].Values["tags"]; ok {
			t.Error("nested values should be dropped")
		}
		if v, ok := rows[1].Values.Number("roe_per"); !ok || v != 17.5 {
			t.Errorf("roe_per = %v, %v", v, ok)
		}
	})

	t.Run("single object", func(t *testing.T) {
		rows, err := ParseJSON([]byte(`{"symbol": "TCS", "pe_ttm": 30}`))
		if err != nil {
			t.Fatalf("ParseJSON: %v", err)
		}
		if len(rows) != 1 || rows[0].Symbol != "TCS" {
			t.Fatalf("unexpected rows %+v", rows)
		}
	})

	t.Run("errors", func(t *testing.T) {
		for _, input := range []string{`{`, `42`, `[1, 2]`} {
			if _, err := ParseJSON([]byte(input)); err == nil {
				t.Errorf("ParseJSON(%s) expected error", input)
			}
		}
	})
}

type parquetStock struct {
	Symbol    string  `parquet:"symbol"`
	Name      string  `parquet:"name"`
	MarketCap float64 `parquet:"market_cap"`
	Volume    int64   `parquet:"volume"`
}

func TestLoadParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stocks.parquet")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	writer := parquet.NewGenericWriter[parquetStock](f)
	if _, err := writer.Write([]parquetStock{
		{Symbol: "TCS", Name: "Tata Consultancy", MarketCap: 1200000, Volume: 1500},
		{Symbol: "INFY", Name: "Infosys", MarketCap: 600000, Volume: 3000},
	}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}

	rows, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1].Symbol != "INFY" || rows[1].Name != "Infosys" {
		t.Errorf("unexpected identity %+v", rows[1])
	}
	if v, ok := rows[0].Values.Number("volume"); !ok || v != 1500 {
		t.Errorf("volume = %v, %v", v, ok)
	}

	conds := filter.MustParse("market_cap > 1000000")
	if !conds.Match(rows[0].Values) || conds.Match(rows[1].Values) {
		t.Error("parquet values should be screenable")
	}
}

func TestLoadDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "stocks.csv")
	if err := os.WriteFile(csvPath, []byte("symbol,beta\nTCS,0.6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	rows, err := Load(csvPath)
	if err != nil || len(rows) != 1 {
		t.Fatalf("Load csv = %v, %v", rows, err)
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
