package service

import (
	"context"
	"fmt"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// Audit action labels, kept verbatim from the operator-facing UI locale.
const (
	ActionCreated = "Criado"
	ActionUpdated = "Atualizado"
)

// AttachmentDetails renders the details line for an attachment batch.
func AttachmentDetails(count int) string {
	return fmt.Sprintf("Adicionou %d anexo(s)", count)
}

// LogService appends audit trail entries. It writes through whichever
// TicketLogRepository binding the caller passes in, so entries recorded
// inside a transaction roll back with it.
type LogService struct {
	now func() time.Time
}

// NewLogService creates the recorder.
func NewLogService() *LogService {
	return &LogService{now: time.Now}
}

// Record appends one entry.
func (s *LogService) Record(ctx context.Context, logs repository.TicketLogRepository, action string, agentID, ticketID int64, oldValues, newValues map[string]any, details *string) error {
	entry := &domain.TicketLog{
		Action:    action,
		OldValues: oldValues,
		NewValues: newValues,
		Details:   details,
		CreatedAt: s.now().UTC(),
		TicketID:  ticketID,
		AgentID:   agentID,
	}
	return logs.Create(ctx, entry)
}

// NonNullValues keeps only the populated keys of a log view, the shape of the
// snapshot written with a creation entry.
func NonNullValues(view map[string]any) map[string]any {
	out := make(map[string]any, len(view))
	for key, value := range view {
		if value == nil {
			continue
		}
		out[key] = value
	}
	return out
}

// DiffViews returns the keys of after that differ from or are absent in
// before, paired with their prior values. Both maps are empty when nothing
// changed.
func DiffViews(before, after map[string]any) (oldValues, newValues map[string]any) {
	oldValues = map[string]any{}
	newValues = map[string]any{}
	for key, newValue := range after {
		oldValue, existed := before[key]
		if existed && equalValues(oldValue, newValue) {
			continue
		}
		if existed {
			oldValues[key] = oldValue
		}
		newValues[key] = newValue
	}
	return oldValues, newValues
}

func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}
