package domain

import "time"

// Status ids the lifecycle engine gives special meaning to. Any other id is
// stored verbatim from caller input.
const (
	StatusOpen       int64 = 1
	StatusInProgress int64 = 2
	StatusClosed     int64 = 7
	StatusReopened   int64 = 8
)

// Defaults applied when creation input omits the field.
const (
	DefaultPriorityID       int64 = 2
	DefaultAssistanceTypeID int64 = 2
	DefaultSpentTime              = 15
)

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID                int64
	UID               string
	Subject           string
	Request           string
	Response          *string
	InternalComment   *string
	PreventionDate    *time.Time
	CreatedAt         time.Time
	ClosedAt          *time.Time
	SpentTime         int
	SupplierReference *string

	CompanyID        int64
	CategoryID       int64
	SubcategoryID    *int64
	StatusID         int64
	TypeID           int64
	PriorityID       int64
	AssistanceTypeID int64
	CreatedByID      *int64
	RequesterID      int64
	AgentID          *int64

	// Loaded relations. Nil when the query did not eager-load them.
	Company        *Company
	Category       *Lookup
	Subcategory    *Lookup
	Status         *Lookup
	Type           *Lookup
	Priority       *Lookup
	AssistanceType *Lookup
	CreatedBy      *Employee
	Requester      *Employee
	Agent          *Employee
	CCs            []Employee
	Attachments    []TicketAttachment

	// AttachmentCount is annotated on list queries instead of loading the
	// full attachment set.
	AttachmentCount int64
}

// CCIDs returns the ids of the loaded CC employees.
func (t *Ticket) CCIDs() []int64 {
	ids := make([]int64, 0, len(t.CCs))
	for _, cc := range t.CCs {
		ids = append(ids, cc.ID)
	}
	return ids
}

// LogView flattens the ticket into the projection used for audit diffing.
// Timestamps are rendered as RFC3339 strings so snapshots compare and
// serialize stably.
func (t *Ticket) LogView() map[string]any {
	view := map[string]any{
		"id":                 t.ID,
		"uid":                t.UID,
		"subject":            t.Subject,
		"request":            t.Request,
		"response":           derefString(t.Response),
		"internal_comment":   derefString(t.InternalComment),
		"prevention_date":    formatTime(t.PreventionDate),
		"created_at":         t.CreatedAt.Format(time.RFC3339),
		"closed_at":          formatTime(t.ClosedAt),
		"spent_time":         t.SpentTime,
		"supplier_reference": derefString(t.SupplierReference),
		"company_id":         t.CompanyID,
		"category_id":        t.CategoryID,
		"subcategory_id":     derefInt(t.SubcategoryID),
		"status_id":          t.StatusID,
		"type_id":            t.TypeID,
		"priority_id":        t.PriorityID,
		"assistance_type_id": t.AssistanceTypeID,
		"created_by_id":      derefInt(t.CreatedByID),
		"requester_id":       t.RequesterID,
		"agent_id":           derefInt(t.AgentID),
	}
	if t.CCs != nil {
		view["ccs"] = t.CCIDs()
	}
	return view
}

func derefString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func derefInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}
