package filtering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func testRules() Rules {
	return Rules{
		DateFields: map[string]string{
			"created_at": "t.created_at",
			"closed_at":  "t.closed_at",
		},
		AndFields: map[string]string{
			"id":               "t.id",
			"subject":          "t.subject",
			"status_id":        "t.status_id",
			"agent_id":         "t.agent_id",
			"agent_id_isnull":  "t.agent_id",
			"closed_at_isnull": "t.closed_at",
			"requester":        "req.full_name",
		},
		OrderFields: map[string]string{
			"id":         "t.id",
			"created_at": "t.created_at",
		},
		SearchFields: []SearchField{
			{Name: "id", Column: "t.id", Exact: true},
			{Name: "subject", Column: "t.subject"},
			{Name: "requester", Column: "req.full_name"},
		},
		DefaultOrder: "t.created_at DESC",
	}
}

func TestParseFilterJSON(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		parsed, err := ParseFilterJSON("  ")
		require.NoError(t, err)
		assert.Nil(t, parsed)
	})

	t.Run("object", func(t *testing.T) {
		parsed, err := ParseFilterJSON(`{"status_id": "7"}`)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"status_id": "7"}, parsed)
	})

	t.Run("malformed is a 400", func(t *testing.T) {
		_, err := ParseFilterJSON(`{"status_id":`)
		require.Error(t, err)
		domainErr := apperrors.ToDomainError(err)
		assert.Equal(t, "INVALID_FILTER", domainErr.Code)
		assert.Equal(t, 400, domainErr.HTTPStatus)
	})

	t.Run("non-object is a 400", func(t *testing.T) {
		_, err := ParseFilterJSON(`[1,2]`)
		require.Error(t, err)
	})
}

func TestCompileAndUnknownField(t *testing.T) {
	_, err := CompileAnd(map[string]any{"password": "x"}, testRules())
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "INVALID_FILTER", domainErr.Code)
	assert.Contains(t, domainErr.Info, "password")
}

func TestCompileAndDateBounds(t *testing.T) {
	conds, err := CompileAnd(map[string]any{"created_at_after": "2026-03-10"}, testRules())
	require.NoError(t, err)
	require.Len(t, conds, 1)
	assert.Equal(t, OpAfter, conds[0].Op)
	assert.Equal(t, "t.created_at", conds[0].Column)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), conds[0].Args[0])

	conds, err = CompileAnd(map[string]any{"created_at_before": "2026-03-10"}, testRules())
	require.NoError(t, err)
	require.Len(t, conds, 1)
	assert.Equal(t, OpBefore, conds[0].Op)
	// Exclusive bound at the start of the next day keeps the whole end day.
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), conds[0].Args[0])
}

func TestCompileAndDateBoundErrors(t *testing.T) {
	_, err := CompileAnd(map[string]any{"subject_after": "2026-03-10"}, testRules())
	require.Error(t, err, "non-date field must not accept range suffixes")

	_, err = CompileAnd(map[string]any{"created_at_after": "not-a-date"}, testRules())
	require.Error(t, err)
}

func TestCompileAndIsNull(t *testing.T) {
	conds, err := CompileAnd(map[string]any{"agent_id_isnull": "1"}, testRules())
	require.NoError(t, err)
	require.Len(t, conds, 1)
	assert.Equal(t, OpIsNull, conds[0].Op)
	assert.Equal(t, true, conds[0].Args[0])

	conds, err = CompileAnd(map[string]any{"closed_at_isnull": "0"}, testRules())
	require.NoError(t, err)
	assert.Equal(t, false, conds[0].Args[0])

	_, err = CompileAnd(map[string]any{"agent_id_isnull": "maybe"}, testRules())
	require.Error(t, err)
}

func TestCompileAndStringSemantics(t *testing.T) {
	t.Run("plain field is substring", func(t *testing.T) {
		conds, err := CompileAnd(map[string]any{"subject": "printer"}, testRules())
		require.NoError(t, err)
		require.Len(t, conds, 1)
		assert.Equal(t, OpContains, conds[0].Op)
	})

	t.Run("id field is equality", func(t *testing.T) {
		conds, err := CompileAnd(map[string]any{"status_id": "7"}, testRules())
		require.NoError(t, err)
		assert.Equal(t, OpEquals, conds[0].Op)
	})

	t.Run("comma on id field is IN", func(t *testing.T) {
		conds, err := CompileAnd(map[string]any{"status_id": "1,2,7"}, testRules())
		require.NoError(t, err)
		require.Len(t, conds, 1)
		assert.Equal(t, OpIn, conds[0].Op)
		assert.Equal(t, []any{"1", "2", "7"}, conds[0].Args)
	})

	t.Run("comma on plain field is an OR of substrings", func(t *testing.T) {
		conds, err := CompileAnd(map[string]any{"subject": "printer, scanner"}, testRules())
		require.NoError(t, err)
		require.Len(t, conds, 1)
		require.Len(t, conds[0].Or, 2)
		assert.Equal(t, OpContains, conds[0].Or[0].Op)
		assert.Equal(t, "printer", conds[0].Or[0].Args[0])
		assert.Equal(t, "scanner", conds[0].Or[1].Args[0])
	})
}

func TestCompileAndListSemantics(t *testing.T) {
	t.Run("string list is one OR group", func(t *testing.T) {
		conds, err := CompileAnd(map[string]any{"subject": []any{"printer", "scanner"}}, testRules())
		require.NoError(t, err)
		require.Len(t, conds, 1)
		assert.Len(t, conds[0].Or, 2)
	})

	t.Run("list of lists is AND of OR groups", func(t *testing.T) {
		conds, err := CompileAnd(map[string]any{"subject": []any{
			[]any{"printer", "scanner"},
			[]any{"broken"},
		}}, testRules())
		require.NoError(t, err)
		require.Len(t, conds, 2)
		assert.Len(t, conds[0].Or, 2)
		assert.Len(t, conds[1].Or, 1)
	})

	t.Run("trailing type hint is stripped from final element", func(t *testing.T) {
		conds, err := CompileAnd(map[string]any{"subject": []any{"printer", "scanner:i"}}, testRules())
		require.NoError(t, err)
		require.Len(t, conds, 1)
		require.Len(t, conds[0].Or, 2)
		assert.Equal(t, "scanner", conds[0].Or[1].Args[0])
	})

	t.Run("numeric list is IN", func(t *testing.T) {
		conds, err := CompileAnd(map[string]any{"status_id": []any{float64(1), float64(7)}}, testRules())
		require.NoError(t, err)
		require.Len(t, conds, 1)
		assert.Equal(t, OpIn, conds[0].Op)
	})

	t.Run("empty list compiles to nothing", func(t *testing.T) {
		conds, err := CompileAnd(map[string]any{"subject": []any{}}, testRules())
		require.NoError(t, err)
		assert.Empty(t, conds)
	})
}

func TestCompileSearch(t *testing.T) {
	rules := testRules()

	t.Run("one group per word", func(t *testing.T) {
		search := CompileSearch("printer broken", rules.SearchFields)
		assert.False(t, search.Impossible)
		require.Len(t, search.Groups, 2)
		// Each word matches every substring field.
		assert.Len(t, search.Groups[0].Or, 2)
	})

	t.Run("numeric word adds exact id match", func(t *testing.T) {
		search := CompileSearch("42", rules.SearchFields)
		require.Len(t, search.Groups, 1)
		require.Len(t, search.Groups[0].Or, 3)
		assert.Equal(t, OpEquals, search.Groups[0].Or[0].Op)
		assert.Equal(t, int64(42), search.Groups[0].Or[0].Args[0])
	})

	t.Run("word with no eligible field is impossible", func(t *testing.T) {
		search := CompileSearch("hello", []SearchField{{Name: "id", Column: "t.id", Exact: true}})
		assert.True(t, search.Impossible)
	})

	t.Run("blank search is empty", func(t *testing.T) {
		search := CompileSearch("   ", rules.SearchFields)
		assert.Empty(t, search.Groups)
		assert.False(t, search.Impossible)
	})
}

func TestCompileOrder(t *testing.T) {
	rules := testRules()

	order, err := CompileOrder("", rules)
	require.NoError(t, err)
	assert.Equal(t, "t.created_at DESC", order)

	order, err = CompileOrder("id", rules)
	require.NoError(t, err)
	assert.Equal(t, "t.id ASC", order)

	order, err = CompileOrder("-created_at", rules)
	require.NoError(t, err)
	assert.Equal(t, "t.created_at DESC", order)

	_, err = CompileOrder("password", rules)
	require.Error(t, err)
	_, err = CompileOrder("-password", rules)
	require.Error(t, err)
}
