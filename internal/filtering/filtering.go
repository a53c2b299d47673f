package filtering

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// Op enumerates the predicate variants a compiled condition can carry.
// Client-supplied field names are resolved through allow-list maps before any
// SQL text is produced, so no client input ever reaches the query string.
type Op int

const (
	OpEquals Op = iota
	OpContains
	OpIn
	OpAfter
	OpBefore
	OpIsNull
)

// Condition is one node of the compiled filter: a SQL column expression, an
// operator, and its arguments. Or groups alternatives: a condition with a
// non-empty Or slice matches when any member matches.
type Condition struct {
	Column string
	Op     Op
	Args   []any
	Or     []Condition
}

// Rules carries the allow-lists for one entity. Map keys are the client-facing
// field names; values are the SQL column expressions they compile to.
type Rules struct {
	DateFields   map[string]string
	AndFields    map[string]string
	OrderFields  map[string]string
	SearchFields []SearchField
	DefaultOrder string
}

// SearchField is one column participating in the OR search. Exact marks the
// identifier field: purely numeric words match it by equality instead of
// substring.
type SearchField struct {
	Name   string
	Column string
	Exact  bool
}

// ParseFilterJSON decodes a client-supplied filter blob, requiring a JSON
// object. Malformed input is a 400, never a 500.
func ParseFilterJSON(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, apperrors.NewInvalidFilter("invalid filter format", fmt.Sprintf("filter is not a valid JSON object: %v", err))
	}
	return parsed, nil
}

// CompileAnd turns an AND-filter map into a list of conditions, all of which
// must hold. The first structural error aborts compilation.
func CompileAnd(filters map[string]any, rules Rules) ([]Condition, error) {
	if len(filters) == 0 {
		return nil, nil
	}
	conditions := make([]Condition, 0, len(filters))
	// Iteration order over the map is not significant: every condition is
	// ANDed and validation errors do not depend on position.
	for field, value := range filters {
		switch {
		case strings.HasSuffix(field, "_after"):
			cond, err := compileDateBound(field, strings.TrimSuffix(field, "_after"), value, OpAfter, rules)
			if err != nil {
				return nil, err
			}
			conditions = append(conditions, cond)
		case strings.HasSuffix(field, "_before"):
			cond, err := compileDateBound(field, strings.TrimSuffix(field, "_before"), value, OpBefore, rules)
			if err != nil {
				return nil, err
			}
			conditions = append(conditions, cond)
		default:
			compiled, err := compileAndField(field, value, rules)
			if err != nil {
				return nil, err
			}
			conditions = append(conditions, compiled...)
		}
	}
	return conditions, nil
}

func compileDateBound(field, base string, value any, op Op, rules Rules) (Condition, error) {
	column, ok := rules.DateFields[base]
	if !ok {
		return Condition{}, apperrors.NewInvalidFilter("invalid filter", fmt.Sprintf("field %q does not support date range filtering", base))
	}
	day, err := parseDay(value)
	if err != nil {
		return Condition{}, apperrors.NewInvalidFilter("invalid date format", fmt.Sprintf("invalid value for %q, expected YYYY-MM-DD", field))
	}
	if op == OpAfter {
		// Inclusive lower bound at the start of the given day.
		return Condition{Column: column, Op: OpAfter, Args: []any{day}}, nil
	}
	// Exclusive upper bound at the start of the following day, making the
	// whole end day inclusive.
	return Condition{Column: column, Op: OpBefore, Args: []any{day.AddDate(0, 0, 1)}}, nil
}

func parseDay(value any) (time.Time, error) {
	str := fmt.Sprintf("%v", value)
	if t, err := time.Parse("2006-01-02", str); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()), nil
}

func compileAndField(field string, value any, rules Rules) ([]Condition, error) {
	column, ok := rules.AndFields[field]
	if !ok {
		return nil, apperrors.NewInvalidFilter("invalid filter", fmt.Sprintf("filtering by field %q is not allowed", field))
	}

	switch v := value.(type) {
	case string:
		return compileStringValue(field, column, v)
	case []any:
		return compileListValue(column, v)
	default:
		return []Condition{{Column: column, Op: OpEquals, Args: []any{value}}}, nil
	}
}

// isExactField reports whether a field matches by equality rather than
// substring: the identifier and foreign-key id columns, plus _isnull probes.
func isExactField(field string) bool {
	return field == "id" || strings.HasSuffix(field, "_id")
}

func compileStringValue(field, column, value string) ([]Condition, error) {
	if strings.HasSuffix(field, "_isnull") {
		flag, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, apperrors.NewInvalidFilter("invalid filter", fmt.Sprintf("value for %q must be 0 or 1", field))
		}
		return []Condition{{Column: column, Op: OpIsNull, Args: []any{flag != 0}}}, nil
	}
	if isExactField(field) {
		if strings.Contains(value, ",") {
			parts := splitCommaList(value)
			if len(parts) == 0 {
				return nil, nil
			}
			return []Condition{{Column: column, Op: OpIn, Args: toAnySlice(parts)}}, nil
		}
		return []Condition{{Column: column, Op: OpEquals, Args: []any{value}}}, nil
	}
	if strings.Contains(value, ",") {
		parts := splitCommaList(value)
		if len(parts) == 0 {
			return nil, nil
		}
		group := make([]Condition, 0, len(parts))
		for _, part := range parts {
			group = append(group, Condition{Column: column, Op: OpContains, Args: []any{part}})
		}
		return []Condition{{Or: group}}, nil
	}
	return []Condition{{Column: column, Op: OpContains, Args: []any{value}}}, nil
}

func compileListValue(column string, value []any) ([]Condition, error) {
	if len(value) == 0 {
		return nil, nil
	}

	// A trailing ":<hint>" segment on the final string element coerces value
	// parsing. Documented edge case from the original filter grammar, not a
	// general contract.
	if last, ok := value[len(value)-1].(string); ok {
		if idx := strings.LastIndex(last, ":"); idx > 0 && idx == len(last)-2 {
			value[len(value)-1] = last[:idx]
		}
	}

	hasSublist := false
	allStrings := true
	for _, item := range value {
		switch item.(type) {
		case []any:
			hasSublist = true
			allStrings = false
		case string:
		default:
			allStrings = false
		}
	}

	switch {
	case hasSublist:
		// (a OR b) AND (c OR d): each element contributes one OR group.
		conditions := make([]Condition, 0, len(value))
		for _, element := range value {
			var group []Condition
			switch elem := element.(type) {
			case []any:
				for _, part := range elem {
					if str := strings.TrimSpace(fmt.Sprintf("%v", part)); str != "" {
						group = append(group, Condition{Column: column, Op: OpContains, Args: []any{str}})
					}
				}
			case string:
				if str := strings.TrimSpace(elem); str != "" {
					group = append(group, Condition{Column: column, Op: OpContains, Args: []any{str}})
				}
			}
			if len(group) > 0 {
				conditions = append(conditions, Condition{Or: group})
			}
		}
		return conditions, nil
	case allStrings:
		group := make([]Condition, 0, len(value))
		for _, item := range value {
			if str := strings.TrimSpace(item.(string)); str != "" {
				group = append(group, Condition{Column: column, Op: OpContains, Args: []any{str}})
			}
		}
		if len(group) == 0 {
			return nil, nil
		}
		return []Condition{{Or: group}}, nil
	default:
		return []Condition{{Column: column, Op: OpIn, Args: value}}, nil
	}
}

// CompileSearch compiles a free-text OR search: every whitespace-separated
// word must match at least one search field. Impossible is set when a word
// cannot match any field, which makes the whole query yield no rows.
type Search struct {
	Groups     []Condition
	Impossible bool
}

func CompileSearch(search string, fields []SearchField) Search {
	words := strings.Fields(search)
	if len(words) == 0 || len(fields) == 0 {
		return Search{}
	}
	groups := make([]Condition, 0, len(words))
	for _, word := range words {
		var group []Condition
		for _, field := range fields {
			if field.Exact {
				if id, err := strconv.ParseInt(word, 10, 64); err == nil {
					group = append(group, Condition{Column: field.Column, Op: OpEquals, Args: []any{id}})
				}
				continue
			}
			group = append(group, Condition{Column: field.Column, Op: OpContains, Args: []any{word}})
		}
		if len(group) == 0 {
			return Search{Impossible: true}
		}
		groups = append(groups, Condition{Or: group})
	}
	return Search{Groups: groups}
}

// CompileOrder validates an order spec ("field" or "-field" for descending)
// against the order allow-list and returns the ORDER BY expression. An empty
// spec falls back to the default ordering.
func CompileOrder(orderBy string, rules Rules) (string, error) {
	if strings.TrimSpace(orderBy) == "" {
		return rules.DefaultOrder, nil
	}
	descending := strings.HasPrefix(orderBy, "-")
	name := strings.TrimPrefix(orderBy, "-")
	column, ok := rules.OrderFields[name]
	if !ok {
		return "", apperrors.NewInvalidFilter("invalid ordering", fmt.Sprintf("ordering by field %q is not allowed", name))
	}
	if descending {
		return column + " DESC", nil
	}
	return column + " ASC", nil
}

func splitCommaList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func toAnySlice(parts []string) []any {
	out := make([]any, 0, len(parts))
	for _, part := range parts {
		out = append(out, part)
	}
	return out
}
