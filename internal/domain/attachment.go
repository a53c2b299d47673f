package domain

import "time"

// TicketAttachment records one uploaded file bound to a ticket. The physical
// bytes live in the blob store under a path derived from CreatedAt plus the
// generated Filename; the row and the file are two halves of one resource.
type TicketAttachment struct {
	ID           int64
	Filename     string
	OriginalName string
	Extension    string
	CreatedAt    time.Time
	TicketID     int64
	AgentID      *int64
}
