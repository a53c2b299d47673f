package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/pagination"
)

// LookupView is an id/name reference row.
type LookupView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EmployeeSummary is the flat employee projection used in lists.
type EmployeeSummary struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
}

// EmployeeView is the nested employee projection used in detail responses.
type EmployeeView struct {
	ID          int64         `json:"id"`
	FirstName   string        `json:"first_name"`
	LastName    string        `json:"last_name"`
	FullName    string        `json:"full_name"`
	EmployeeNum *string       `json:"employee_num"`
	Department  *LookupView   `json:"department,omitempty"`
	Company     *LookupView   `json:"company,omitempty"`
	Local       *LookupView   `json:"local,omitempty"`
	Contacts    []ContactView `json:"contacts,omitempty"`
}

// ContactView is one public contact entry.
type ContactView struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Main  bool   `json:"main"`
}

// AttachmentView is attachment metadata; the stored filename doubles as the
// download key.
type AttachmentView struct {
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	Extension    string    `json:"extension"`
	CreatedAt    time.Time `json:"created_at"`
}

// TicketListItem is one row of the paginated board.
type TicketListItem struct {
	ID              int64            `json:"id"`
	UID             string           `json:"uid"`
	Subject         string           `json:"subject"`
	CreatedAt       time.Time        `json:"created_at"`
	ClosedAt        *time.Time       `json:"closed_at"`
	SpentTime       int              `json:"spent_time"`
	Status          *LookupView      `json:"status"`
	Priority        *LookupView      `json:"priority"`
	Category        *LookupView      `json:"category"`
	Subcategory     *LookupView      `json:"subcategory"`
	Company         *LookupView      `json:"company"`
	Requester       *EmployeeSummary `json:"requester"`
	Agent           *EmployeeSummary `json:"agent"`
	AttachmentCount int64            `json:"attachment_count"`
}

// TicketDetailResponse is the full eager-loaded projection.
type TicketDetailResponse struct {
	ID                int64            `json:"id"`
	UID               string           `json:"uid"`
	Subject           string           `json:"subject"`
	Request           string           `json:"request"`
	Response          *string          `json:"response"`
	InternalComment   *string          `json:"internal_comment"`
	PreventionDate    *time.Time       `json:"prevention_date"`
	CreatedAt         time.Time        `json:"created_at"`
	ClosedAt          *time.Time       `json:"closed_at"`
	SpentTime         int              `json:"spent_time"`
	SupplierReference *string          `json:"supplier_reference"`
	Status            *LookupView      `json:"status"`
	Type              *LookupView      `json:"type"`
	Priority          *LookupView      `json:"priority"`
	Category          *LookupView      `json:"category"`
	Subcategory       *LookupView      `json:"subcategory"`
	AssistanceType    *LookupView      `json:"assistance_type"`
	Company           *LookupView      `json:"company"`
	CreatedBy         *EmployeeView    `json:"created_by"`
	Requester         *EmployeeView    `json:"requester"`
	Agent             *EmployeeView    `json:"agent"`
	CCs               []EmployeeView   `json:"ccs"`
	Attachments       []AttachmentView `json:"attachments"`
}

// LogEntryView is one audit trail entry.
type LogEntryView struct {
	ID        int64            `json:"id"`
	Action    string           `json:"action"`
	OldValues map[string]any   `json:"old_values"`
	NewValues map[string]any   `json:"new_values"`
	Details   *string          `json:"details"`
	CreatedAt time.Time        `json:"created_at"`
	Agent     *EmployeeSummary `json:"agent"`
}

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	Employee    EmployeeView `json:"employee"`
}

// NewTicketListPage maps a domain page onto the list projection, keeping the
// envelope intact.
func NewTicketListPage(page *pagination.Page[domain.Ticket]) pagination.Page[TicketListItem] {
	items := make([]TicketListItem, 0, len(page.Data))
	for i := range page.Data {
		items = append(items, NewTicketListItem(&page.Data[i]))
	}
	return pagination.Page[TicketListItem]{
		Data:         items,
		TotalCount:   page.TotalCount,
		Page:         page.Page,
		PageSize:     page.PageSize,
		TotalPages:   page.TotalPages,
		NextPage:     page.NextPage,
		PreviousPage: page.PreviousPage,
	}
}

// NewTicketListItem flattens one ticket row.
func NewTicketListItem(t *domain.Ticket) TicketListItem {
	return TicketListItem{
		ID:              t.ID,
		UID:             t.UID,
		Subject:         t.Subject,
		CreatedAt:       t.CreatedAt,
		ClosedAt:        t.ClosedAt,
		SpentTime:       t.SpentTime,
		Status:          newLookupView(t.Status),
		Priority:        newLookupView(t.Priority),
		Category:        newLookupView(t.Category),
		Subcategory:     newLookupView(t.Subcategory),
		Company:         newCompanyView(t.Company),
		Requester:       newEmployeeSummary(t.Requester),
		Agent:           newEmployeeSummary(t.Agent),
		AttachmentCount: t.AttachmentCount,
	}
}

// NewTicketDetail maps the full graph.
func NewTicketDetail(t *domain.Ticket) TicketDetailResponse {
	ccs := make([]EmployeeView, 0, len(t.CCs))
	for i := range t.CCs {
		ccs = append(ccs, *newEmployeeView(&t.CCs[i]))
	}
	attachments := make([]AttachmentView, 0, len(t.Attachments))
	for _, a := range t.Attachments {
		attachments = append(attachments, AttachmentView{
			Filename:     a.Filename,
			OriginalName: a.OriginalName,
			Extension:    a.Extension,
			CreatedAt:    a.CreatedAt,
		})
	}
	return TicketDetailResponse{
		ID:                t.ID,
		UID:               t.UID,
		Subject:           t.Subject,
		Request:           t.Request,
		Response:          t.Response,
		InternalComment:   t.InternalComment,
		PreventionDate:    t.PreventionDate,
		CreatedAt:         t.CreatedAt,
		ClosedAt:          t.ClosedAt,
		SpentTime:         t.SpentTime,
		SupplierReference: t.SupplierReference,
		Status:            newLookupView(t.Status),
		Type:              newLookupView(t.Type),
		Priority:          newLookupView(t.Priority),
		Category:          newLookupView(t.Category),
		Subcategory:       newLookupView(t.Subcategory),
		AssistanceType:    newLookupView(t.AssistanceType),
		Company:           newCompanyView(t.Company),
		CreatedBy:         newEmployeeView(t.CreatedBy),
		Requester:         newEmployeeView(t.Requester),
		Agent:             newEmployeeView(t.Agent),
		CCs:               ccs,
		Attachments:       attachments,
	}
}

// NewLogEntryViews maps audit entries.
func NewLogEntryViews(logs []domain.TicketLog) []LogEntryView {
	views := make([]LogEntryView, 0, len(logs))
	for i := range logs {
		log := &logs[i]
		views = append(views, LogEntryView{
			ID:        log.ID,
			Action:    log.Action,
			OldValues: log.OldValues,
			NewValues: log.NewValues,
			Details:   log.Details,
			CreatedAt: log.CreatedAt,
			Agent:     newEmployeeSummary(log.Agent),
		})
	}
	return views
}

// NewEmployeeView maps an employee with its nested relations. Only public
// contacts are exposed.
func NewEmployeeView(e *domain.Employee) EmployeeView {
	view := newEmployeeView(e)
	if view == nil {
		return EmployeeView{}
	}
	return *view
}

func newEmployeeView(e *domain.Employee) *EmployeeView {
	if e == nil {
		return nil
	}
	view := &EmployeeView{
		ID:          e.ID,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		FullName:    e.FullName,
		EmployeeNum: e.EmployeeNum,
		Department:  newLookupView(e.Department),
		Local:       newLookupView(e.Local),
	}
	if e.Company != nil {
		view.Company = &LookupView{ID: e.Company.ID, Name: e.Company.Name}
	}
	for _, contact := range e.Contacts {
		if !contact.Public {
			continue
		}
		view.Contacts = append(view.Contacts, ContactView{
			Type:  contact.Type,
			Value: contact.Value,
			Main:  contact.Main,
		})
	}
	return view
}

func newEmployeeSummary(e *domain.Employee) *EmployeeSummary {
	if e == nil {
		return nil
	}
	return &EmployeeSummary{ID: e.ID, FullName: e.FullName}
}

func newLookupView(l *domain.Lookup) *LookupView {
	if l == nil {
		return nil
	}
	return &LookupView{ID: l.ID, Name: l.Name}
}

func newCompanyView(c *domain.Company) *LookupView {
	if c == nil {
		return nil
	}
	return &LookupView{ID: c.ID, Name: c.Name}
}
