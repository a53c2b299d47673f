package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/filtering"
)

// TicketFilterRules returns the allow-lists for ticket filtering, searching
// and ordering. Every client-facing field is enumerated explicitly; the map
// values are the SQL expressions they compile to, using the aliases of
// ticketSelect.
func TicketFilterRules() filtering.Rules {
	return filtering.Rules{
		DateFields: map[string]string{
			"created_at":      "t.created_at",
			"closed_at":       "t.closed_at",
			"prevention_date": "t.prevention_date",
		},
		AndFields: map[string]string{
			"id":                 "t.id",
			"subject":            "t.subject",
			"request":            "t.request",
			"response":           "t.response",
			"supplier_reference": "t.supplier_reference",
			"spent_time":         "t.spent_time",
			"company_id":         "t.company_id",
			"category_id":        "t.category_id",
			"subcategory_id":     "t.subcategory_id",
			"status_id":          "t.status_id",
			"type_id":            "t.type_id",
			"priority_id":        "t.priority_id",
			"assistance_type_id": "t.assistance_type_id",
			"created_by_id":      "t.created_by_id",
			"requester_id":       "t.requester_id",
			"agent_id":           "t.agent_id",
			"agent_id_isnull":    "t.agent_id",
			"closed_at_isnull":   "t.closed_at",
			"status":             "st.name",
			"priority":           "pr.name",
			"category":           "cat.name",
			"requester":          "req.full_name",
			"agent":              "ag.full_name",
		},
		OrderFields: map[string]string{
			"id":              "t.id",
			"subject":         "t.subject",
			"created_at":      "t.created_at",
			"closed_at":       "t.closed_at",
			"prevention_date": "t.prevention_date",
			"spent_time":      "t.spent_time",
			"status_id":       "t.status_id",
			"priority_id":     "t.priority_id",
			"requester":       "req.full_name",
			"agent":           "ag.full_name",
		},
		SearchFields: []filtering.SearchField{
			{Name: "id", Column: "t.id", Exact: true},
			{Name: "subject", Column: "t.subject"},
			{Name: "request", Column: "t.request"},
			{Name: "supplier_reference", Column: "t.supplier_reference"},
			{Name: "requester", Column: "req.full_name"},
			{Name: "agent", Column: "ag.full_name"},
		},
		DefaultOrder: "t.created_at DESC",
	}
}

// TicketListQuery carries a compiled filter set for listing or counting.
type TicketListQuery struct {
	Conditions []filtering.Condition
	Search     filtering.Search
	OrderBy    string
	AgentID    *int64
	Limit      int
	Offset     int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	SetDerivedFields(ctx context.Context, id int64, uid, subject string) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByUID(ctx context.Context, uid string) (*domain.Ticket, error)
	List(ctx context.Context, query TicketListQuery) ([]domain.Ticket, int64, error)
	Count(ctx context.Context, query TicketListQuery) (int64, error)
	AddCCs(ctx context.Context, ticketID int64, employeeIDs []int64) error
	ReplaceCCs(ctx context.Context, ticketID int64, employeeIDs []int64) error
}

type ticketRepository struct {
	db Querier
}

// NewTicketRepository instantiates the repository over a pool or transaction.
func NewTicketRepository(db Querier) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketColumns = `
        t.id, t.uid, t.subject, t.request, t.response, t.internal_comment,
        t.prevention_date, t.created_at, t.closed_at, t.spent_time, t.supplier_reference,
        t.company_id, t.category_id, t.subcategory_id, t.status_id, t.type_id,
        t.priority_id, t.assistance_type_id, t.created_by_id, t.requester_id, t.agent_id,
        co.name, cat.name, sub.name, st.name, tp.name, pr.name, ast.name,
        req.full_name, ag.full_name,
        (SELECT COUNT(*) FROM ticket_attachments a WHERE a.ticket_id = t.id)`

const ticketJoins = `
        FROM tickets t
        JOIN companies co ON co.id = t.company_id
        JOIN ticket_categories cat ON cat.id = t.category_id
        LEFT JOIN ticket_subcategories sub ON sub.id = t.subcategory_id
        JOIN ticket_statuses st ON st.id = t.status_id
        JOIN ticket_types tp ON tp.id = t.type_id
        JOIN ticket_priorities pr ON pr.id = t.priority_id
        JOIN ticket_assistance_types ast ON ast.id = t.assistance_type_id
        JOIN employees req ON req.id = t.requester_id
        LEFT JOIN employees ag ON ag.id = t.agent_id`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (request, response, internal_comment, prevention_date, created_at,
            spent_time, supplier_reference, company_id, category_id, subcategory_id,
            status_id, type_id, priority_id, assistance_type_id, created_by_id, requester_id, agent_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
        RETURNING id`
	return r.db.QueryRow(ctx, query,
		ticket.Request,
		ticket.Response,
		ticket.InternalComment,
		ticket.PreventionDate,
		ticket.CreatedAt,
		ticket.SpentTime,
		ticket.SupplierReference,
		ticket.CompanyID,
		ticket.CategoryID,
		ticket.SubcategoryID,
		ticket.StatusID,
		ticket.TypeID,
		ticket.PriorityID,
		ticket.AssistanceTypeID,
		ticket.CreatedByID,
		ticket.RequesterID,
		ticket.AgentID,
	).Scan(&ticket.ID)
}

func (r *ticketRepository) SetDerivedFields(ctx context.Context, id int64, uid, subject string) error {
	const query = `UPDATE tickets SET uid=$1, subject=$2 WHERE id=$3`
	cmd, err := r.db.Exec(ctx, query, uid, subject, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET request=$1, response=$2, internal_comment=$3, prevention_date=$4,
            closed_at=$5, spent_time=$6, supplier_reference=$7, category_id=$8, subcategory_id=$9,
            status_id=$10, type_id=$11, priority_id=$12, assistance_type_id=$13, requester_id=$14, agent_id=$15
        WHERE id=$16`
	cmd, err := r.db.Exec(ctx, query,
		ticket.Request,
		ticket.Response,
		ticket.InternalComment,
		ticket.PreventionDate,
		ticket.ClosedAt,
		ticket.SpentTime,
		ticket.SupplierReference,
		ticket.CategoryID,
		ticket.SubcategoryID,
		ticket.StatusID,
		ticket.TypeID,
		ticket.PriorityID,
		ticket.AssistanceTypeID,
		ticket.RequesterID,
		ticket.AgentID,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByUID(ctx context.Context, uid string) (*domain.Ticket, error) {
	query := "SELECT" + ticketColumns + ticketJoins + " WHERE t.uid = $1"
	ticket, err := scanTicket(r.db.QueryRow(ctx, query, uid))
	if err != nil {
		return nil, err
	}
	ccs, err := r.listCCs(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	ticket.CCs = ccs
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, query TicketListQuery) ([]domain.Ticket, int64, error) {
	total, err := r.Count(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	clauses, args := buildTicketClauses(query)
	orderBy := query.OrderBy
	if orderBy == "" {
		orderBy = "t.created_at DESC"
	}
	sql := fmt.Sprintf("SELECT%s%s WHERE %s ORDER BY %s LIMIT %d OFFSET %d",
		ticketColumns, ticketJoins, strings.Join(clauses, " AND "), orderBy, query.Limit, query.Offset)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, *ticket)
	}
	return tickets, total, rows.Err()
}

func (r *ticketRepository) Count(ctx context.Context, query TicketListQuery) (int64, error) {
	clauses, args := buildTicketClauses(query)
	sql := fmt.Sprintf("SELECT COUNT(*)%s WHERE %s", ticketJoins, strings.Join(clauses, " AND "))
	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func buildTicketClauses(query TicketListQuery) ([]string, []any) {
	builder := filtering.NewClauseBuilder()
	clauses := []string{"TRUE"}
	if query.AgentID != nil {
		builder = filtering.NewClauseBuilder(*query.AgentID)
		clauses = append(clauses, "t.agent_id = $1")
	}
	clauses = append(clauses, builder.AppendConditions(query.Conditions)...)
	clauses = append(clauses, builder.AppendSearch(query.Search)...)
	return clauses, builder.Args()
}

func (r *ticketRepository) AddCCs(ctx context.Context, ticketID int64, employeeIDs []int64) error {
	for _, employeeID := range employeeIDs {
		const query = `
            INSERT INTO tickets_ccs (ticket_id, employee_id)
            VALUES ($1,$2) ON CONFLICT (ticket_id, employee_id) DO NOTHING`
		if _, err := r.db.Exec(ctx, query, ticketID, employeeID); err != nil {
			return err
		}
	}
	return nil
}

func (r *ticketRepository) ReplaceCCs(ctx context.Context, ticketID int64, employeeIDs []int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM tickets_ccs WHERE ticket_id=$1`, ticketID); err != nil {
		return err
	}
	return r.AddCCs(ctx, ticketID, employeeIDs)
}

func (r *ticketRepository) listCCs(ctx context.Context, ticketID int64) ([]domain.Employee, error) {
	const query = `
        SELECT e.id, e.first_name, e.last_name, e.full_name
        FROM tickets_ccs cc
        JOIN employees e ON e.id = cc.employee_id
        WHERE cc.ticket_id = $1
        ORDER BY e.id`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ccs := []domain.Employee{}
	for rows.Next() {
		var employee domain.Employee
		if err := rows.Scan(&employee.ID, &employee.FirstName, &employee.LastName, &employee.FullName); err != nil {
			return nil, err
		}
		ccs = append(ccs, employee)
	}
	return ccs, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket          domain.Ticket
		uid             *string
		subject         *string
		companyName     string
		categoryName    string
		subcategoryName *string
		statusName      string
		typeName        string
		priorityName    string
		assistanceName  string
		requesterName   string
		agentName       *string
	)
	if err := row.Scan(
		&ticket.ID,
		&uid,
		&subject,
		&ticket.Request,
		&ticket.Response,
		&ticket.InternalComment,
		&ticket.PreventionDate,
		&ticket.CreatedAt,
		&ticket.ClosedAt,
		&ticket.SpentTime,
		&ticket.SupplierReference,
		&ticket.CompanyID,
		&ticket.CategoryID,
		&ticket.SubcategoryID,
		&ticket.StatusID,
		&ticket.TypeID,
		&ticket.PriorityID,
		&ticket.AssistanceTypeID,
		&ticket.CreatedByID,
		&ticket.RequesterID,
		&ticket.AgentID,
		&companyName,
		&categoryName,
		&subcategoryName,
		&statusName,
		&typeName,
		&priorityName,
		&assistanceName,
		&requesterName,
		&agentName,
		&ticket.AttachmentCount,
	); err != nil {
		return nil, err
	}
	if uid != nil {
		ticket.UID = *uid
	}
	if subject != nil {
		ticket.Subject = *subject
	}
	ticket.Company = &domain.Company{ID: ticket.CompanyID, Name: companyName}
	ticket.Category = &domain.Lookup{ID: ticket.CategoryID, Name: categoryName}
	if ticket.SubcategoryID != nil && subcategoryName != nil {
		ticket.Subcategory = &domain.Lookup{ID: *ticket.SubcategoryID, Name: *subcategoryName}
	}
	ticket.Status = &domain.Lookup{ID: ticket.StatusID, Name: statusName}
	ticket.Type = &domain.Lookup{ID: ticket.TypeID, Name: typeName}
	ticket.Priority = &domain.Lookup{ID: ticket.PriorityID, Name: priorityName}
	ticket.AssistanceType = &domain.Lookup{ID: ticket.AssistanceTypeID, Name: assistanceName}
	ticket.Requester = &domain.Employee{ID: ticket.RequesterID, FullName: requesterName}
	if ticket.AgentID != nil && agentName != nil {
		ticket.Agent = &domain.Employee{ID: *ticket.AgentID, FullName: *agentName}
	}
	return &ticket, nil
}
