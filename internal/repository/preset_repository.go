package repository

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// PresetRepository reads the saved filter presets shown on the board.
type PresetRepository interface {
	ListMain(ctx context.Context) ([]domain.TicketPreset, error)
}

type presetRepository struct {
	db Querier
}

func NewPresetRepository(db Querier) PresetRepository {
	return &presetRepository{db: db}
}

func (r *presetRepository) ListMain(ctx context.Context) ([]domain.TicketPreset, error) {
	const query = `
        SELECT id, name, description, color, filter, main
        FROM ticket_presets
        WHERE main = TRUE
        ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	presets := []domain.TicketPreset{}
	for rows.Next() {
		var p domain.TicketPreset
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Color, &p.Filter, &p.Main); err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, rows.Err()
}
