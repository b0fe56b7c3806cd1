package lastresults

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidNumber is returned for selections that are not result numbers.
var ErrInvalidNumber = errors.New("invalid result number")

// maxRange caps a single "a-b" selection.
const maxRange = 1000

// ParseSelection turns selections such as "3", "1,4", "2-5" or "1,3-5 7"
// into 1-indexed result numbers. Duplicates are dropped and the first
// occurrence keeps its position.
func ParseSelection(args ...string) ([]int, error) {
	fields := strings.FieldsFunc(strings.Join(args, ","), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: nothing selected", ErrInvalidNumber)
	}

	var out []int
	seen := make(map[int]bool)
	add := func(n int) {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}

	for _, f := range fields {
		lo, hi, isRange := strings.Cut(f, "-")
		first, err := positive(lo)
		if err != nil {
			return nil, err
		}
		if !isRange {
			add(first)
			continue
		}
		last, err := positive(hi)
		if err != nil {
			return nil, err
		}
		if last < first {
			return nil, fmt.Errorf("%w: range %q runs backwards", ErrInvalidNumber, f)
		}
		if last-first >= maxRange {
			return nil, fmt.Errorf("%w: range %q selects more than %d results", ErrInvalidNumber, f, maxRange)
		}
		for n := first; n <= last; n++ {
			add(n)
		}
	}
	return out, nil
}

func positive(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: %d (numbering starts at 1)", ErrInvalidNumber, n)
	}
	return n, nil
}
