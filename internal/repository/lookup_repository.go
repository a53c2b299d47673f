package repository

import (
	"context"
	"fmt"
	"regexp"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Lookup tables the ticket engine joins against. Names are hard-coded per
// call site so no client input ever selects a table.
const (
	TableCategories      = "ticket_categories"
	TableSubcategories   = "ticket_subcategories"
	TableStatuses        = "ticket_statuses"
	TableTypes           = "ticket_types"
	TablePriorities      = "ticket_priorities"
	TableAssistanceTypes = "ticket_assistance_types"
)

var lookupTableName = regexp.MustCompile(`^[a-z_]+$`)

// LookupRepository resolves reference rows such as statuses and priorities.
type LookupRepository interface {
	Get(ctx context.Context, table string, id int64) (*domain.Lookup, error)
	Exists(ctx context.Context, table string, id int64) (bool, error)
}

type lookupRepository struct {
	db Querier
}

func NewLookupRepository(db Querier) LookupRepository {
	return &lookupRepository{db: db}
}

func (r *lookupRepository) Get(ctx context.Context, table string, id int64) (*domain.Lookup, error) {
	if !lookupTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid lookup table %q", table)
	}
	var lookup domain.Lookup
	query := fmt.Sprintf(`SELECT id, name FROM %s WHERE id=$1`, table)
	if err := r.db.QueryRow(ctx, query, id).Scan(&lookup.ID, &lookup.Name); err != nil {
		return nil, err
	}
	return &lookup, nil
}

func (r *lookupRepository) Exists(ctx context.Context, table string, id int64) (bool, error) {
	if !lookupTableName.MatchString(table) {
		return false, fmt.Errorf("invalid lookup table %q", table)
	}
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id=$1)`, table)
	err := r.db.QueryRow(ctx, query, id).Scan(&exists)
	return exists, err
}
