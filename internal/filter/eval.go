package filter

import "math"

// EqualityEpsilon is the tolerance used by = and != in the evaluator.
const EqualityEpsilon = 0.0001

// EvaluateExpr computes the value of expr for record. The bool is false when a
// referenced field is missing or non-numeric, or when the expression divides by
// zero; an absent operand makes the whole arithmetic expression absent.
func EvaluateExpr(record Record, expr Expr) (float64, bool) {
	switch e := expr.(type) {
	case NumberLiteral:
		return e.Value, true
	case FieldRef:
		return record.Number(e.Name)
	case ArithmeticExpr:
		l, ok := record.Number(e.Left.Name)
		if !ok {
			return 0, false
		}
		r, ok := EvaluateExpr(record, e.Right)
		if !ok {
			return 0, false
		}
		var out float64
		switch e.Op {
		case ArithAdd:
			out = l + r
		case ArithSub:
			out = l - r
		case ArithMul:
			out = l * r
		case ArithDiv:
			if r == 0 {
				return 0, false
			}
			out = l / r
		}
		if math.IsNaN(out) || math.IsInf(out, 0) {
			return 0, false
		}
		return out, true
	}
	return 0, false
}

// EvaluateCondition reports whether record satisfies cond. An absent value on
// either side never satisfies any comparator, != included.
func EvaluateCondition(record Record, cond Condition) bool {
	l, ok := EvaluateExpr(record, cond.Left)
	if !ok {
		return false
	}
	r, ok := EvaluateExpr(record, cond.Right)
	if !ok {
		return false
	}
	return compareNumbers(l, cond.Comparator, r)
}

func compareNumbers(l float64, cmp Comparator, r float64) bool {
	switch cmp {
	case CompareGt:
		return l > r
	case CompareLt:
		return l < r
	case CompareGte:
		return l >= r
	case CompareLte:
		return l <= r
	case CompareEq:
		return math.Abs(l-r) < EqualityEpsilon
	case CompareNeq:
		return math.Abs(l-r) >= EqualityEpsilon
	}
	return false
}

// Evaluate folds the conditions strictly left to right:
// acc = c0; acc = acc AND/OR ci. An empty list matches nothing.
func Evaluate(conds Conditions, record Record) bool {
	if len(conds) == 0 {
		return false
	}
	acc := EvaluateCondition(record, conds[0])
	for _, c := range conds[1:] {
		v := EvaluateCondition(record, c)
		if c.Logical == LogicalOr {
			acc = acc || v
		} else {
			acc = acc && v
		}
	}
	return acc
}

// Match reports whether record satisfies the conditions.
func (cs Conditions) Match(record Record) bool {
	return Evaluate(cs, record)
}
