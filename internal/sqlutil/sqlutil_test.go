package sqlutil

import (
	"reflect"
	"testing"
)

func TestInClauseArgs(t *testing.T) {
	ph, args := InClauseArgs([]string{"TCS", "INFY", "WIPRO"})
	if ph != "?, ?, ?" {
		t.Errorf("placeholders = %q", ph)
	}
	if !reflect.DeepEqual(args, []any{"TCS", "INFY", "WIPRO"}) {
		t.Errorf("args = %v", args)
	}

	ph, args = InClauseArgs([]string(nil))
	if ph != "NULL" || args != nil {
		t.Errorf("empty: %q %v", ph, args)
	}
}

func TestNormalizeArgs(t *testing.T) {
	got := NormalizeArgs([]any{uint(5), uint64(7), 1.5, "x"})
	want := []any{int64(5), int64(7), 1.5, "x"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeArgs = %#v, want %#v", got, want)
	}
}
