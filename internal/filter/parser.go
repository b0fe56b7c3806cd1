package filter

import "fmt"

type parser struct {
	vocab *Vocabulary
	input string
}

// Parse parses a screener query against the default stock vocabulary.
func Parse(input string) (Conditions, error) {
	return DefaultVocabulary().Parse(input)
}

// Parse parses a screener query, accepting only fields from v.
// On failure the error is a *ParseError and no conditions are returned.
func (v *Vocabulary) Parse(input string) (Conditions, error) {
	clauses, ops, err := SplitClauses(input)
	if err != nil {
		return nil, err
	}

	p := &parser{vocab: v, input: input}
	conds := make(Conditions, 0, len(clauses))
	for i, c := range clauses {
		cond, err := p.parseClause(c)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			cond.Logical = ops[i-1]
		}
		conds = append(conds, cond)
	}
	return conds, nil
}

// MustParse is like Parse but panics on error. Intended for static queries.
func MustParse(input string) Conditions {
	conds, err := Parse(input)
	if err != nil {
		panic(fmt.Sprintf("filter: MustParse(%q): %v", input, err))
	}
	return conds
}
