package filtering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClauseBuilderOps(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	builder := NewClauseBuilder()
	clauses := builder.AppendConditions([]Condition{
		{Column: "t.status_id", Op: OpEquals, Args: []any{"7"}},
		{Column: "t.subject", Op: OpContains, Args: []any{"printer"}},
		{Column: "t.priority_id", Op: OpIn, Args: []any{"1", "2"}},
		{Column: "t.created_at", Op: OpAfter, Args: []any{day}},
		{Column: "t.created_at", Op: OpBefore, Args: []any{day}},
		{Column: "t.agent_id", Op: OpIsNull, Args: []any{true}},
		{Column: "t.closed_at", Op: OpIsNull, Args: []any{false}},
	})

	assert.Equal(t, []string{
		"t.status_id = $1",
		"t.subject ILIKE $2",
		"t.priority_id IN ($3,$4)",
		"t.created_at >= $5",
		"t.created_at < $6",
		"t.agent_id IS NULL",
		"t.closed_at IS NOT NULL",
	}, clauses)
	assert.Equal(t, []any{"7", "%printer%", "1", "2", day, day}, builder.Args())
}

func TestClauseBuilderOrGroup(t *testing.T) {
	builder := NewClauseBuilder()
	clauses := builder.AppendConditions([]Condition{{Or: []Condition{
		{Column: "t.subject", Op: OpContains, Args: []any{"printer"}},
		{Column: "t.subject", Op: OpContains, Args: []any{"scanner"}},
	}}})

	require.Len(t, clauses, 1)
	assert.Equal(t, "(t.subject ILIKE $1 OR t.subject ILIKE $2)", clauses[0])
}

func TestClauseBuilderSingleMemberGroupUnwrapped(t *testing.T) {
	builder := NewClauseBuilder()
	clauses := builder.AppendConditions([]Condition{{Or: []Condition{
		{Column: "t.subject", Op: OpContains, Args: []any{"printer"}},
	}}})
	assert.Equal(t, []string{"t.subject ILIKE $1"}, clauses)
}

func TestClauseBuilderContinuesNumbering(t *testing.T) {
	builder := NewClauseBuilder(int64(9))
	clauses := builder.AppendConditions([]Condition{
		{Column: "t.status_id", Op: OpEquals, Args: []any{"7"}},
	})
	assert.Equal(t, []string{"t.status_id = $2"}, clauses)
	assert.Equal(t, []any{int64(9), "7"}, builder.Args())
}

func TestClauseBuilderImpossibleSearch(t *testing.T) {
	builder := NewClauseBuilder()
	clauses := builder.AppendSearch(Search{Impossible: true})
	assert.Equal(t, []string{"FALSE"}, clauses)
	assert.Empty(t, builder.Args())
}

func TestClauseBuilderCompiledRoundTrip(t *testing.T) {
	conds, err := CompileAnd(map[string]any{"status_id": "1,7"}, testRules())
	require.NoError(t, err)

	builder := NewClauseBuilder()
	clauses := builder.AppendConditions(conds)
	assert.Equal(t, []string{"t.status_id IN ($1,$2)"}, clauses)
	assert.Equal(t, []any{"1", "7"}, builder.Args())
}
