package repository

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AttachmentRepository persists attachment metadata rows.
type AttachmentRepository interface {
	BulkCreate(ctx context.Context, attachments []domain.TicketAttachment) error
	GetByTicketAndFilename(ctx context.Context, ticketID int64, filename string) (*domain.TicketAttachment, error)
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketAttachment, error)
}

type attachmentRepository struct {
	db Querier
}

func NewAttachmentRepository(db Querier) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) BulkCreate(ctx context.Context, attachments []domain.TicketAttachment) error {
	const query = `
        INSERT INTO ticket_attachments (filename, original_name, extension, created_at, ticket_id, agent_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id`
	for i := range attachments {
		a := &attachments[i]
		err := r.db.QueryRow(ctx, query,
			a.Filename, a.OriginalName, a.Extension, a.CreatedAt, a.TicketID, a.AgentID,
		).Scan(&a.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *attachmentRepository) GetByTicketAndFilename(ctx context.Context, ticketID int64, filename string) (*domain.TicketAttachment, error) {
	const query = `
        SELECT id, filename, original_name, extension, created_at, ticket_id, agent_id
        FROM ticket_attachments
        WHERE ticket_id=$1 AND filename=$2`
	var a domain.TicketAttachment
	err := r.db.QueryRow(ctx, query, ticketID, filename).Scan(
		&a.ID, &a.Filename, &a.OriginalName, &a.Extension, &a.CreatedAt, &a.TicketID, &a.AgentID,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attachmentRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketAttachment, error) {
	const query = `
        SELECT id, filename, original_name, extension, created_at, ticket_id, agent_id
        FROM ticket_attachments
        WHERE ticket_id=$1
        ORDER BY id`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attachments := []domain.TicketAttachment{}
	for rows.Next() {
		var a domain.TicketAttachment
		if err := rows.Scan(&a.ID, &a.Filename, &a.OriginalName, &a.Extension, &a.CreatedAt, &a.TicketID, &a.AgentID); err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}
