package filter

// UsedFields returns the distinct fields referenced by the conditions, sorted.
// Callers use it to select only the columns a screen needs.
func UsedFields(conds Conditions) []string {
	set := make(map[string]struct{})
	for _, c := range conds {
		collectFields(c.Left, set)
		collectFields(c.Right, set)
	}
	return SortedFields(set)
}

// Fields returns the distinct fields referenced by the conditions, sorted.
func (cs Conditions) Fields() []string {
	return UsedFields(cs)
}

func collectFields(expr Expr, set map[string]struct{}) {
	switch e := expr.(type) {
	case FieldRef:
		set[e.Name] = struct{}{}
	case ArithmeticExpr:
		set[e.Left.Name] = struct{}{}
		collectFields(e.Right, set)
	}
}
