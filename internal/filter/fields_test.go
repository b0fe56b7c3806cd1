package filter

import (
	"reflect"
	"testing"
)

func TestUsedFields(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"market_cap > 500 AND roe_per + roce_per > 30", []string{"market_cap", "roce_per", "roe_per"}},
		{"high > low OR high > 5", []string{"high", "low"}},
		{"current_price < high_52w * 0.8", []string{"current_price", "high_52w"}},
		{"market_cap / ent_value > 1 AND 5 > 3", []string{"ent_value", "market_cap"}},
		{"5 > 3", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := UsedFields(MustParse(tt.query))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("UsedFields = %v, want %v", got, tt.want)
			}
			if !reflect.DeepEqual(MustParse(tt.query).Fields(), tt.want) {
				t.Errorf("Fields() disagrees with UsedFields")
			}
		})
	}
}
