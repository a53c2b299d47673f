package handlers

import (
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /ApiV1/tickets. Accepts anonymous and authenticated
// callers; multipart fields plus optional "files" uploads.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal := principalEmployee(c)
	form := newFormReader(c)

	input := service.TicketCreateInput{
		Request:           form.str("request"),
		Response:          form.strPtr("response"),
		InternalComment:   form.strPtr("internal_comment"),
		SupplierReference: form.strPtr("supplier_reference"),
		CompanyID:         form.int64("company_id"),
		CategoryID:        form.int64("category_id"),
		SubcategoryID:     form.int64Ptr("subcategory_id"),
		StatusID:          form.int64Ptr("status_id"),
		TypeID:            form.int64("type_id"),
		PriorityID:        form.int64Ptr("priority_id"),
		AssistanceTypeID:  form.int64Ptr("assistance_type_id"),
		RequesterID:       form.int64("requester_id"),
		AgentID:           form.int64Ptr("agent_id"),
		SpentTime:         form.intPtr("spent_time"),
		PreventionDate:    form.timePtr("prevention_date"),
	}
	if ccs, ok := form.int64List("ccs"); ok {
		input.CCs = ccs
	}
	if err := form.err(); err != nil {
		return err
	}

	view, err := h.service.Create(c.UserContext(), input, principal, form.files)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": view})
}

// ListTickets GET /ApiV1/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal := principalEmployee(c)
	params := parseListParams(c)

	page, err := h.service.FetchTickets(c.UserContext(), params, principal)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketListPage(page))
}

// PresetCounts GET /ApiV1/tickets/presets/counts.
func (h *TicketsHandler) PresetCounts(c *fiber.Ctx) error {
	principal := principalEmployee(c)
	counts, err := h.service.PresetCounts(c.UserContext(),
		c.Query("search"),
		c.Query("and_filters"),
		queryBool(c, "own"),
		principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": counts})
}

// GetTicket GET /ApiV1/tickets/:uid.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.FetchDetails(c.UserContext(), c.Params("uid"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(ticket)})
}

// UpdateTicket PATCH /ApiV1/tickets/:uid. Immutable fields in the payload are
// ignored without error.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal := principalEmployee(c)
	form := newFormReader(c)

	input := service.TicketUpdateInput{
		Request:           form.strPtr("request"),
		Response:          form.strPtr("response"),
		InternalComment:   form.strPtr("internal_comment"),
		SupplierReference: form.strPtr("supplier_reference"),
		CategoryID:        form.int64Ptr("category_id"),
		SubcategoryID:     form.int64Ptr("subcategory_id"),
		StatusID:          form.int64Ptr("status_id"),
		TypeID:            form.int64Ptr("type_id"),
		PriorityID:        form.int64Ptr("priority_id"),
		AssistanceTypeID:  form.int64Ptr("assistance_type_id"),
		AgentID:           form.int64Ptr("agent_id"),
		SpentTime:         form.intPtr("spent_time"),
		PreventionDate:    form.timePtr("prevention_date"),
	}
	if ccs, ok := form.int64List("ccs"); ok {
		input.CCs = ccs
		input.CCsSet = true
	}
	if err := form.err(); err != nil {
		return err
	}

	ticket, err := h.service.Update(c.UserContext(), c.Params("uid"), input, principal, form.files)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(ticket)})
}

// GetTicketLogs GET /ApiV1/tickets/:uid/logs.
func (h *TicketsHandler) GetTicketLogs(c *fiber.Ctx) error {
	logs, err := h.service.FetchLogs(c.UserContext(), c.Params("uid"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLogEntryViews(logs)})
}

// DownloadTicketFile GET /ApiV1/tickets/:uid/files/:filename.
func (h *TicketsHandler) DownloadTicketFile(c *fiber.Ctx) error {
	file, err := h.service.FetchFile(c.UserContext(), c.Params("uid"), c.Params("filename"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, file.MediaType)
	return c.Download(file.Path, file.OriginalName)
}

func principalEmployee(c *fiber.Ctx) *domain.Employee {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil
	}
	return principal.Employee
}

func parseListParams(c *fiber.Ctx) service.TicketListParams {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.Query("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	query, _ := url.ParseQuery(string(c.Request().URI().QueryString()))
	return service.TicketListParams{
		Page:       page,
		PageSize:   pageSize,
		Search:     c.Query("search"),
		AndFilters: c.Query("and_filters"),
		OrderBy:    c.Query("order_by"),
		Own:        queryBool(c, "own"),
		Path:       c.Path(),
		Query:      query,
	}
}

func queryBool(c *fiber.Ctx, key string) bool {
	switch strings.ToLower(c.Query(key)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// formReader reads typed values from a multipart or urlencoded body. A field
// absent from the body reads as nil; the first malformed value is remembered
// and returned from err.
type formReader struct {
	values  map[string][]string
	files   []*multipart.FileHeader
	readErr error
}

func newFormReader(c *fiber.Ctx) *formReader {
	r := &formReader{values: map[string][]string{}}
	if form, err := c.MultipartForm(); err == nil && form != nil {
		r.values = form.Value
		r.files = form.File["files"]
		return r
	}
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		r.values[string(key)] = append(r.values[string(key)], string(value))
	})
	return r
}

func (r *formReader) err() error {
	return r.readErr
}

func (r *formReader) fail(field, value string) {
	if r.readErr == nil {
		r.readErr = apperrors.NewValidationError("invalid field value", "field "+field+" has invalid value "+strconv.Quote(value))
	}
}

func (r *formReader) raw(field string) (string, bool) {
	values, ok := r.values[field]
	if !ok || len(values) == 0 {
		return "", false
	}
	return strings.TrimSpace(values[0]), true
}

func (r *formReader) str(field string) string {
	value, _ := r.raw(field)
	return value
}

func (r *formReader) strPtr(field string) *string {
	value, ok := r.raw(field)
	if !ok {
		return nil
	}
	return &value
}

func (r *formReader) int64(field string) int64 {
	value, ok := r.raw(field)
	if !ok || value == "" {
		return 0
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		r.fail(field, value)
		return 0
	}
	return parsed
}

func (r *formReader) int64Ptr(field string) *int64 {
	value, ok := r.raw(field)
	if !ok || value == "" {
		return nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		r.fail(field, value)
		return nil
	}
	return &parsed
}

func (r *formReader) intPtr(field string) *int {
	value, ok := r.raw(field)
	if !ok || value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		r.fail(field, value)
		return nil
	}
	return &parsed
}

func (r *formReader) timePtr(field string) *time.Time {
	value, ok := r.raw(field)
	if !ok || value == "" {
		return nil
	}
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return &parsed
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		r.fail(field, value)
		return nil
	}
	return &parsed
}

// int64List reads a cc-style id list: either repeated fields or a single
// comma-separated value. The second return reports field presence, so an
// explicit empty value means "clear".
func (r *formReader) int64List(field string) ([]int64, bool) {
	values, ok := r.values[field]
	if !ok {
		return nil, false
	}
	ids := []int64{}
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			parsed, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				r.fail(field, part)
				return nil, true
			}
			ids = append(ids, parsed)
		}
	}
	return ids, true
}
