package repository

import (
	"context"
	"encoding/json"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketLogRepository persists the per-ticket audit trail.
type TicketLogRepository interface {
	Create(ctx context.Context, log *domain.TicketLog) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketLog, error)
}

type ticketLogRepository struct {
	db Querier
}

func NewTicketLogRepository(db Querier) TicketLogRepository {
	return &ticketLogRepository{db: db}
}

func (r *ticketLogRepository) Create(ctx context.Context, log *domain.TicketLog) error {
	oldValues, err := marshalValues(log.OldValues)
	if err != nil {
		return err
	}
	newValues, err := marshalValues(log.NewValues)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO ticket_logs (action, old_values, new_values, details, created_at, ticket_id, agent_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id`
	return r.db.QueryRow(ctx, query,
		log.Action, oldValues, newValues, log.Details, log.CreatedAt, log.TicketID, log.AgentID,
	).Scan(&log.ID)
}

func (r *ticketLogRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketLog, error) {
	const query = `
        SELECT l.id, l.action, l.old_values, l.new_values, l.details, l.created_at, l.ticket_id, l.agent_id,
               e.id, e.first_name, e.last_name, e.full_name
        FROM ticket_logs l
        JOIN employees e ON e.id = l.agent_id
        WHERE l.ticket_id=$1
        ORDER BY l.created_at DESC, l.id DESC`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []domain.TicketLog{}
	for rows.Next() {
		var (
			log       domain.TicketLog
			oldValues []byte
			newValues []byte
			agent     domain.Employee
		)
		err := rows.Scan(
			&log.ID, &log.Action, &oldValues, &newValues, &log.Details, &log.CreatedAt, &log.TicketID, &log.AgentID,
			&agent.ID, &agent.FirstName, &agent.LastName, &agent.FullName,
		)
		if err != nil {
			return nil, err
		}
		if log.OldValues, err = unmarshalValues(oldValues); err != nil {
			return nil, err
		}
		if log.NewValues, err = unmarshalValues(newValues); err != nil {
			return nil, err
		}
		log.Agent = &agent
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func marshalValues(values map[string]any) ([]byte, error) {
	if values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(values)
}

func unmarshalValues(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	return values, nil
}
