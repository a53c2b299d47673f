package domain

import "time"

// TicketLog is an immutable audit trail entry. Rows are only ever appended.
type TicketLog struct {
	ID        int64
	Action    string
	OldValues map[string]any
	NewValues map[string]any
	Details   *string
	CreatedAt time.Time
	TicketID  int64
	AgentID   int64

	Agent *Employee
}
