// Package testutil provides reusable test utilities for screener tests.
package testutil

import (
	"sort"
	"strconv"
	"strings"

	"github.com/stockscreen/screener/internal/dataset"
	"github.com/stockscreen/screener/internal/filter"
)

type sampleStock struct {
	symbol string
	name   string
	values map[string]float64
}

// A small universe with the edge cases screens care about: a zero
// enterprise value (division by zero), missing fields and negative returns.
var sampleStocks = []sampleStock{
	{"TCS", "Tata Consultancy Services", map[string]float64{
		"market_cap": 1200000, "current_price": 3500, "high": 3550, "low": 3480,
		"roe_per": 45, "roce_per": 55, "ent_value": 1150000, "beta": 0.6,
		"debt_to_equity": 0.05, "high_52w": 4200,
	}},
	{"INFY", "Infosys", map[string]float64{
		"market_cap": 600000, "current_price": 1450, "high": 1470, "low": 1430,
		"roe_per": 30, "roce_per": 38, "ent_value": 580000, "beta": 0.8,
		"debt_to_equity": 0.1, "high_52w": 1900,
	}},
	{"RELIANCE", "Reliance Industries", map[string]float64{
		"market_cap": 1800000, "current_price": 2600, "high": 2650, "low": 2580,
		"roe_per": 9, "roce_per": 10, "ent_value": 2000000, "beta": 1.1,
		"debt_to_equity": 0.4, "high_52w": 3200,
	}},
	{"ZOMATO", "Zomato", map[string]float64{
		"market_cap": 200000, "current_price": 180, "high": 190, "low": 170,
		"roe_per": -2, "roce_per": 1, "ent_value": 0, "beta": 1.6,
		"debt_to_equity": 0, "high_52w": 230,
	}},
	{"YESBANK", "Yes Bank", map[string]float64{
		"market_cap": 60000, "current_price": 22, "high": 23, "low": 21.5,
		"roce_per": 4, "ent_value": 90000, "beta": 1.9, "high_52w": 32,
	}},
	{"PAYTM", "One 97 Communications", map[string]float64{
		"market_cap": 30000, "current_price": 450, "high": 460, "low": 440,
		"roe_per": -15, "roce_per": -12, "high_52w": 1000,
	}},
	{"SBIN", "State Bank of India", map[string]float64{
		"market_cap": 700000, "current_price": 780, "high": 790, "low": 770,
		"roe_per": 17, "roce_per": 5, "ent_value": 720000, "beta": 1.2,
		"debt_to_equity": 1.5, "high_52w": 910,
	}},
	{"WIPRO", "Wipro", map[string]float64{
		"market_cap": 250000, "current_price": 480, "high": 485, "low": 474,
		"roe_per": 15, "roce_per": 18, "ent_value": 240000, "beta": 0.9,
		"debt_to_equity": 0.2, "high_52w": 560,
	}},
}

// SampleRows returns a fresh copy of the sample universe.
func SampleRows() []dataset.Row {
	rows := make([]dataset.Row, 0, len(sampleStocks))
	for _, s := range sampleStocks {
		rec := make(filter.Record, len(s.values)+2)
		rec["symbol"] = s.symbol
		rec["name"] = s.name
		for k, v := range s.values {
			rec[k] = v
		}
		rows = append(rows, dataset.Row{Symbol: s.symbol, Name: s.name, Values: rec})
	}
	return rows
}

// SampleSymbols returns the sample symbols sorted.
func SampleSymbols() []string {
	out := make([]string, 0, len(sampleStocks))
	for _, s := range sampleStocks {
		out = append(out, s.symbol)
	}
	sort.Strings(out)
	return out
}

// SampleCSV renders the sample universe as CSV with a header row.
// Missing values are empty cells.
func SampleCSV() string {
	fields := sampleFieldNames()

	var sb strings.Builder
	sb.WriteString("symbol,name," + strings.Join(fields, ",") + "\n")
	for _, s := range sampleStocks {
		sb.WriteString(s.symbol + ",\"" + s.name + "\"")
		for _, f := range fields {
			sb.WriteByte(',')
			if v, ok := s.values[f]; ok {
				sb.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// MatchingSymbols evaluates conds over the sample universe in memory and
// returns the sorted symbols that match.
func MatchingSymbols(conds filter.Conditions) []string {
	var out []string
	for _, row := range SampleRows() {
		if conds.Match(row.Values) {
			out = append(out, row.Symbol)
		}
	}
	sort.Strings(out)
	return out
}

func sampleFieldNames() []string {
	set := make(map[string]struct{})
	for _, s := range sampleStocks {
		for k := range s.values {
			set[k] = struct{}{}
		}
	}
	return filter.SortedFields(set)
}
