package filtering

import (
	"fmt"
	"strings"
)

// ClauseBuilder renders compiled conditions into a parameterized SQL WHERE
// fragment with positional placeholders. Only column expressions from the
// allow-lists are interpolated into the text; every value travels as an
// argument.
type ClauseBuilder struct {
	args []any
}

// NewClauseBuilder starts a builder whose placeholders continue after the
// given existing arguments.
func NewClauseBuilder(existing ...any) *ClauseBuilder {
	return &ClauseBuilder{args: existing}
}

// Args returns the accumulated argument list.
func (b *ClauseBuilder) Args() []any {
	return b.args
}

// AppendConditions renders each condition and returns the clauses, consuming
// placeholder positions as it goes.
func (b *ClauseBuilder) AppendConditions(conditions []Condition) []string {
	clauses := make([]string, 0, len(conditions))
	for _, cond := range conditions {
		clauses = append(clauses, b.render(cond))
	}
	return clauses
}

// AppendSearch renders the OR-search groups. An impossible search renders to
// FALSE, preserving the all-words-required semantics.
func (b *ClauseBuilder) AppendSearch(search Search) []string {
	if search.Impossible {
		return []string{"FALSE"}
	}
	return b.AppendConditions(search.Groups)
}

func (b *ClauseBuilder) render(cond Condition) string {
	if len(cond.Or) > 0 {
		parts := make([]string, 0, len(cond.Or))
		for _, alt := range cond.Or {
			parts = append(parts, b.render(alt))
		}
		if len(parts) == 1 {
			return parts[0]
		}
		return "(" + strings.Join(parts, " OR ") + ")"
	}

	switch cond.Op {
	case OpEquals:
		return fmt.Sprintf("%s = %s", cond.Column, b.placeholder(cond.Args[0]))
	case OpContains:
		return fmt.Sprintf("%s ILIKE %s", cond.Column, b.placeholder(likePattern(cond.Args[0])))
	case OpIn:
		placeholders := make([]string, 0, len(cond.Args))
		for _, arg := range cond.Args {
			placeholders = append(placeholders, b.placeholder(arg))
		}
		return fmt.Sprintf("%s IN (%s)", cond.Column, strings.Join(placeholders, ","))
	case OpAfter:
		return fmt.Sprintf("%s >= %s", cond.Column, b.placeholder(cond.Args[0]))
	case OpBefore:
		return fmt.Sprintf("%s < %s", cond.Column, b.placeholder(cond.Args[0]))
	case OpIsNull:
		if isNull, _ := cond.Args[0].(bool); isNull {
			return cond.Column + " IS NULL"
		}
		return cond.Column + " IS NOT NULL"
	default:
		return "TRUE"
	}
}

func (b *ClauseBuilder) placeholder(arg any) string {
	b.args = append(b.args, arg)
	return fmt.Sprintf("$%d", len(b.args))
}

func likePattern(arg any) string {
	return "%" + fmt.Sprintf("%v", arg) + "%"
}
