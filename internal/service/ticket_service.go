package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/filtering"
	"github.com/spec-kit/helpdesk-service/internal/pagination"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/storage"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const presetCountsTTL = 30 * time.Second

// TicketService coordinates ticket workflows.
type TicketService struct {
	uow         repository.UnitOfWork
	tickets     repository.TicketRepository
	attachments repository.AttachmentRepository
	ticketLogs  repository.TicketLogRepository
	employees   repository.EmployeeRepository
	presets     repository.PresetRepository
	store       *storage.Store
	logService  *LogService
	dispatcher  events.Dispatcher
	cache       *redis.Client
	logger      *zap.Logger
	now         func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	UnitOfWork     repository.UnitOfWork
	TicketRepo     repository.TicketRepository
	AttachmentRepo repository.AttachmentRepository
	LogRepo        repository.TicketLogRepository
	EmployeeRepo   repository.EmployeeRepository
	PresetRepo     repository.PresetRepository
	Store          *storage.Store
	LogService     *LogService
	Dispatcher     events.Dispatcher
	Cache          *redis.Client
	Logger         *zap.Logger
}

// NewTicketService wires the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		uow:         deps.UnitOfWork,
		tickets:     deps.TicketRepo,
		attachments: deps.AttachmentRepo,
		ticketLogs:  deps.LogRepo,
		employees:   deps.EmployeeRepo,
		presets:     deps.PresetRepo,
		store:       deps.Store,
		logService:  deps.LogService,
		dispatcher:  deps.Dispatcher,
		cache:       deps.Cache,
		logger:      deps.Logger,
		now:         time.Now,
	}
}

// TicketCreateInput describes ticket creation payload. Nil optionals fall back
// to defaults.
type TicketCreateInput struct {
	Request           string
	Response          *string
	InternalComment   *string
	PreventionDate    *time.Time
	SpentTime         *int
	SupplierReference *string
	CompanyID         int64
	CategoryID        int64
	SubcategoryID     *int64
	StatusID          *int64
	TypeID            int64
	PriorityID        *int64
	AssistanceTypeID  *int64
	RequesterID       int64
	AgentID           *int64
	CCs               []int64
}

// TicketUpdateInput carries the mutable fields of an update. Nil means "leave
// unchanged". Immutable fields (id, uid, created_at, created_by, requester)
// have no representation here; the handler drops them from caller input
// silently.
type TicketUpdateInput struct {
	Request           *string
	Response          *string
	InternalComment   *string
	PreventionDate    *time.Time
	SpentTime         *int
	SupplierReference *string
	CategoryID        *int64
	SubcategoryID     *int64
	StatusID          *int64
	TypeID            *int64
	PriorityID        *int64
	AssistanceTypeID  *int64
	AgentID           *int64
	CCs               []int64
	CCsSet            bool
}

// TicketListParams is the parsed query surface of the list endpoint.
type TicketListParams struct {
	Page       int
	PageSize   int
	Search     string
	AndFilters string
	OrderBy    string
	Own        bool
	Path       string
	Query      url.Values
}

// PresetCount is one board counter. Count is nil when counting the preset
// failed; presets with unparseable filters are omitted entirely.
type PresetCount struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Color       string  `json:"color"`
	Count       *int64  `json:"count"`
	Error       bool    `json:"error,omitempty"`
}

// FileDownload points a handler at a verified attachment on disk.
type FileDownload struct {
	Path         string
	OriginalName string
	MediaType    string
}

// Create inserts a ticket with its CC edges, audit entry and attachments in a
// single transaction, then dispatches a best-effort notification.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput, principal *domain.Employee, files []*multipart.FileHeader) (map[string]any, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	ticket := &domain.Ticket{
		Request:           input.Request,
		Response:          input.Response,
		InternalComment:   input.InternalComment,
		PreventionDate:    input.PreventionDate,
		CreatedAt:         now,
		SpentTime:         domain.DefaultSpentTime,
		SupplierReference: input.SupplierReference,
		CompanyID:         input.CompanyID,
		CategoryID:        input.CategoryID,
		SubcategoryID:     input.SubcategoryID,
		StatusID:          domain.StatusOpen,
		TypeID:            input.TypeID,
		PriorityID:        domain.DefaultPriorityID,
		AssistanceTypeID:  domain.DefaultAssistanceTypeID,
		RequesterID:       input.RequesterID,
		AgentID:           input.AgentID,
	}
	if input.SpentTime != nil {
		ticket.SpentTime = *input.SpentTime
	}
	if input.StatusID != nil {
		ticket.StatusID = *input.StatusID
	}
	if input.PriorityID != nil {
		ticket.PriorityID = *input.PriorityID
	}
	if input.AssistanceTypeID != nil {
		ticket.AssistanceTypeID = *input.AssistanceTypeID
	}
	if principal != nil {
		ticket.CreatedByID = &principal.ID
	}

	err := s.uow.Do(ctx, func(repos repository.RepoSet) error {
		if err := repos.Tickets.Create(ctx, ticket); err != nil {
			return err
		}

		requester, err := repos.Employees.GetByID(ctx, ticket.RequesterID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewValidationError("unknown requester", fmt.Sprintf("employee %d does not exist", ticket.RequesterID))
			}
			return err
		}
		category, err := repos.Lookups.Get(ctx, repository.TableCategories, ticket.CategoryID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewValidationError("unknown category", fmt.Sprintf("category %d does not exist", ticket.CategoryID))
			}
			return err
		}
		priority, err := repos.Lookups.Get(ctx, repository.TablePriorities, ticket.PriorityID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewValidationError("unknown priority", fmt.Sprintf("priority %d does not exist", ticket.PriorityID))
			}
			return err
		}

		ticket.UID = deriveUID(ticket.ID, ticket.CreatedAt, ticket.RequesterID)
		ticket.Subject = composeSubject(ticket.ID, requester.FullName, category.Name, priority.Name, ticket.CreatedAt)
		if err := repos.Tickets.SetDerivedFields(ctx, ticket.ID, ticket.UID, ticket.Subject); err != nil {
			return err
		}

		actorID := ticket.RequesterID
		if principal != nil {
			actorID = principal.ID
		}
		snapshot := NonNullValues(ticket.LogView())
		if err := s.logService.Record(ctx, repos.Logs, ActionCreated, actorID, ticket.ID, map[string]any{}, snapshot, nil); err != nil {
			return err
		}

		if len(input.CCs) > 0 {
			resolved, err := repos.Employees.GetByIDs(ctx, input.CCs)
			if err != nil {
				return err
			}
			for _, id := range input.CCs {
				if _, ok := resolved[id]; !ok {
					return apperrors.NewValidationError("unknown cc employee", fmt.Sprintf("employee %d does not exist", id))
				}
			}
			if err := repos.Tickets.AddCCs(ctx, ticket.ID, input.CCs); err != nil {
				return err
			}
		}

		return s.attachFiles(ctx, repos, ticket, principal, files)
	})
	if err != nil {
		return nil, apperrors.ToDomainError(err)
	}

	s.publishTicketEvent(ctx, events.EventTicketCreated, ticket.UID, principal)
	s.invalidatePresetCounts(ctx)

	view := ticket.LogView()
	delete(view, "uid")
	return view, nil
}

// FetchTickets compiles the caller's filters against the allow-lists and
// returns one page of tickets with annotated attachment counts.
func (s *TicketService) FetchTickets(ctx context.Context, params TicketListParams, principal *domain.Employee) (*pagination.Page[domain.Ticket], error) {
	query, err := s.compileListQuery(params.Search, params.AndFilters, params.OrderBy, params.Own, principal)
	if err != nil {
		return nil, err
	}
	query.Limit = params.PageSize
	query.Offset = pagination.Offset(params.Page, params.PageSize)

	tickets, total, err := s.tickets.List(ctx, query)
	if err != nil {
		return nil, apperrors.ToDomainError(err)
	}
	page := pagination.Build(tickets, total, params.Page, params.PageSize, params.Path, params.Query)
	return &page, nil
}

// FetchDetails loads a ticket by public uid with its full relation graph.
func (s *TicketService) FetchDetails(ctx context.Context, uid string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket not found", fmt.Sprintf("no ticket with uid %q", uid))
		}
		return nil, apperrors.ToDomainError(err)
	}
	if err := s.enrichEmployees(ctx, ticket); err != nil {
		return nil, apperrors.ToDomainError(err)
	}
	attachments, err := s.attachments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.ToDomainError(err)
	}
	ticket.Attachments = attachments
	ticket.AttachmentCount = int64(len(attachments))
	return ticket, nil
}

// Update applies a patch to a ticket inside one transaction, running the
// status transition rules, replacing CCs when a list was supplied, attaching
// new files, and recording a single diff entry when anything changed.
func (s *TicketService) Update(ctx context.Context, uid string, input TicketUpdateInput, principal *domain.Employee, files []*multipart.FileHeader) (*domain.Ticket, error) {
	if principal == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}

	var eventType events.EventType

	err := s.uow.Do(ctx, func(repos repository.RepoSet) error {
		ticket, err := repos.Tickets.GetByUID(ctx, uid)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("ticket not found", fmt.Sprintf("no ticket with uid %q", uid))
			}
			return err
		}

		before := ticket.LogView()
		hadAgent := ticket.AgentID != nil
		wasClosed := ticket.StatusID == domain.StatusClosed

		applyUpdateInput(ticket, input)

		// Assigning an agent to an agent-less ticket without an explicit
		// status moves it to in-progress.
		assigned := !hadAgent && ticket.AgentID != nil
		if assigned && input.StatusID == nil {
			ticket.StatusID = domain.StatusInProgress
		}

		nowClosed := ticket.StatusID == domain.StatusClosed
		if nowClosed && !wasClosed && ticket.ClosedAt == nil {
			closedAt := s.now().UTC()
			ticket.ClosedAt = &closedAt
		}
		if wasClosed && !nowClosed {
			ticket.ClosedAt = nil
		}

		switch {
		case assigned:
			eventType = events.EventTicketAssigned
		case nowClosed && !wasClosed:
			eventType = events.EventTicketClosed
		case wasClosed && !nowClosed:
			eventType = events.EventTicketReopened
		}

		if input.CCsSet {
			if len(input.CCs) > 0 {
				resolved, err := repos.Employees.GetByIDs(ctx, input.CCs)
				if err != nil {
					return err
				}
				ccs := make([]domain.Employee, 0, len(input.CCs))
				for _, id := range input.CCs {
					employee, ok := resolved[id]
					if !ok {
						return apperrors.NewValidationError("unknown cc employee", fmt.Sprintf("employee %d does not exist", id))
					}
					ccs = append(ccs, *employee)
				}
				ticket.CCs = ccs
			} else {
				ticket.CCs = []domain.Employee{}
			}
			if err := repos.Tickets.ReplaceCCs(ctx, ticket.ID, input.CCs); err != nil {
				return err
			}
		}

		if err := s.attachFiles(ctx, repos, ticket, principal, files); err != nil {
			return err
		}

		if err := repos.Tickets.Update(ctx, ticket); err != nil {
			return err
		}

		after := ticket.LogView()
		summarizeCCs(before)
		summarizeCCs(after)
		oldValues, newValues := DiffViews(before, after)
		if len(newValues) > 0 {
			if err := s.logService.Record(ctx, repos.Logs, ActionUpdated, principal.ID, ticket.ID, oldValues, newValues, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.ToDomainError(err)
	}

	if eventType != "" {
		s.publishTicketEvent(ctx, eventType, uid, principal)
	}
	s.invalidatePresetCounts(ctx)

	return s.FetchDetails(ctx, uid)
}

// PresetCounts evaluates every main preset filter against the caller's base
// restriction. Results are cached briefly; unparseable presets are skipped,
// presets that fail to count carry an error marker instead of failing the
// whole board.
func (s *TicketService) PresetCounts(ctx context.Context, search, andFilters string, own bool, principal *domain.Employee) ([]PresetCount, error) {
	base, err := s.compileListQuery(search, andFilters, "", own, principal)
	if err != nil {
		return nil, err
	}

	cacheKey := presetCountsCacheKey(search, andFilters, own, principal)
	if cached, ok := s.cachedPresetCounts(ctx, cacheKey); ok {
		return cached, nil
	}

	presets, err := s.presets.ListMain(ctx)
	if err != nil {
		return nil, apperrors.ToDomainError(err)
	}

	rules := repository.TicketFilterRules()
	counts := make([]PresetCount, 0, len(presets))
	for _, preset := range presets {
		filters, err := filtering.ParseFilterJSON(preset.Filter)
		if err != nil {
			s.logger.Warn("skipping preset with malformed filter",
				zap.Int64("preset_id", preset.ID),
				zap.Error(err))
			continue
		}
		entry := PresetCount{
			ID:          preset.ID,
			Name:        preset.Name,
			Description: preset.Description,
			Color:       preset.Color,
		}

		conditions, err := filtering.CompileAnd(filters, rules)
		if err == nil {
			query := base
			query.Conditions = append(append([]filtering.Condition{}, base.Conditions...), conditions...)
			var count int64
			if count, err = s.tickets.Count(ctx, query); err == nil {
				entry.Count = &count
			}
		}
		if err != nil {
			s.logger.Warn("preset count failed",
				zap.Int64("preset_id", preset.ID),
				zap.Error(err))
			entry.Error = true
		}
		counts = append(counts, entry)
	}

	s.storePresetCounts(ctx, cacheKey, counts)
	return counts, nil
}

// FetchLogs returns the audit trail of a ticket, newest first.
func (s *TicketService) FetchLogs(ctx context.Context, uid string) ([]domain.TicketLog, error) {
	ticket, err := s.tickets.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket not found", fmt.Sprintf("no ticket with uid %q", uid))
		}
		return nil, apperrors.ToDomainError(err)
	}
	logs, err := s.ticketLogs.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.ToDomainError(err)
	}
	return logs, nil
}

// FetchFile locates an attachment by ticket uid and stored filename and
// verifies it on disk.
func (s *TicketService) FetchFile(ctx context.Context, uid, filename string) (*FileDownload, error) {
	ticket, err := s.tickets.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket not found", fmt.Sprintf("no ticket with uid %q", uid))
		}
		return nil, apperrors.ToDomainError(err)
	}
	attachment, err := s.attachments.GetByTicketAndFilename(ctx, ticket.ID, filename)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("file not found", fmt.Sprintf("ticket has no attachment %q", filename))
		}
		return nil, apperrors.ToDomainError(err)
	}
	path, err := s.store.Resolve(attachment.CreatedAt, attachment.Filename)
	if err != nil {
		return nil, apperrors.ToDomainError(err)
	}
	mediaType := mime.TypeByExtension(attachment.Extension)
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return &FileDownload{Path: path, OriginalName: attachment.OriginalName, MediaType: mediaType}, nil
}

// attachFiles stages uploads on disk and persists their rows, deleting the
// staged files when the database half fails. One audit entry summarizes the
// batch.
func (s *TicketService) attachFiles(ctx context.Context, repos repository.RepoSet, ticket *domain.Ticket, principal *domain.Employee, files []*multipart.FileHeader) error {
	if len(files) == 0 {
		return nil
	}
	actorID, err := attachmentActor(ticket, principal)
	if err != nil {
		return err
	}

	staged, err := s.store.Save(files)
	if err != nil {
		return err
	}
	if len(staged) == 0 {
		return nil
	}

	now := s.now().UTC()
	rows := make([]domain.TicketAttachment, 0, len(staged))
	for _, file := range staged {
		rows = append(rows, domain.TicketAttachment{
			Filename:     file.Filename,
			OriginalName: file.OriginalName,
			Extension:    file.Extension,
			CreatedAt:    now,
			TicketID:     ticket.ID,
			AgentID:      &actorID,
		})
	}
	if err := repos.Attachments.BulkCreate(ctx, rows); err != nil {
		s.store.Cleanup(staged)
		return err
	}

	details := AttachmentDetails(len(rows))
	if err := s.logService.Record(ctx, repos.Logs, ActionUpdated, actorID, ticket.ID, map[string]any{}, map[string]any{}, &details); err != nil {
		s.store.Cleanup(staged)
		return err
	}
	return nil
}

// attachmentActor resolves who an attachment batch is attributed to: the
// creator or requester while the ticket sits in its initial status, the acting
// user afterwards. An anonymous actor on a progressed ticket is a server
// fault, not a client error.
func attachmentActor(ticket *domain.Ticket, principal *domain.Employee) (int64, error) {
	if ticket.StatusID == domain.StatusOpen {
		if ticket.CreatedByID != nil {
			return *ticket.CreatedByID, nil
		}
		return ticket.RequesterID, nil
	}
	if principal == nil {
		return 0, apperrors.NewInternalError("cannot attribute attachments without an acting user", nil)
	}
	return principal.ID, nil
}

func (s *TicketService) compileListQuery(search, andFilters, orderBy string, own bool, principal *domain.Employee) (repository.TicketListQuery, error) {
	rules := repository.TicketFilterRules()
	query := repository.TicketListQuery{}

	filters, err := filtering.ParseFilterJSON(andFilters)
	if err != nil {
		return query, err
	}
	if query.Conditions, err = filtering.CompileAnd(filters, rules); err != nil {
		return query, err
	}
	query.Search = filtering.CompileSearch(search, rules.SearchFields)
	if query.OrderBy, err = filtering.CompileOrder(orderBy, rules); err != nil {
		return query, err
	}
	if own {
		if principal == nil {
			return query, apperrors.NewUnauthorized("authentication required")
		}
		query.AgentID = &principal.ID
	}
	return query, nil
}

func (s *TicketService) enrichEmployees(ctx context.Context, ticket *domain.Ticket) error {
	ids := []int64{ticket.RequesterID}
	if ticket.AgentID != nil {
		ids = append(ids, *ticket.AgentID)
	}
	if ticket.CreatedByID != nil {
		ids = append(ids, *ticket.CreatedByID)
	}
	for _, cc := range ticket.CCs {
		ids = append(ids, cc.ID)
	}

	resolved, err := s.employees.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if employee, ok := resolved[ticket.RequesterID]; ok {
		ticket.Requester = employee
	}
	if ticket.AgentID != nil {
		if employee, ok := resolved[*ticket.AgentID]; ok {
			ticket.Agent = employee
		}
	}
	if ticket.CreatedByID != nil {
		if employee, ok := resolved[*ticket.CreatedByID]; ok {
			ticket.CreatedBy = employee
		}
	}
	for i, cc := range ticket.CCs {
		if employee, ok := resolved[cc.ID]; ok {
			ticket.CCs[i] = *employee
		}
	}
	return nil
}

// publishTicketEvent loads the fresh ticket graph and emits the event.
// Failures are logged, never surfaced: the mutation is already durable.
func (s *TicketService) publishTicketEvent(ctx context.Context, eventType events.EventType, uid string, principal *domain.Employee) {
	if s.dispatcher == nil {
		return
	}
	ticket, err := s.FetchDetails(ctx, uid)
	if err != nil {
		s.logger.Warn("unable to load ticket for notification",
			zap.String("uid", uid),
			zap.Error(err))
		return
	}
	actor := events.Actor{}
	if principal != nil {
		actor.EmployeeID = principal.ID
		actor.FullName = principal.FullName
	} else if ticket.Requester != nil {
		actor.EmployeeID = ticket.Requester.ID
		actor.FullName = ticket.Requester.FullName
	}
	if err := s.dispatcher.Publish(ctx, events.NewTicketEvent(eventType, ticket, actor)); err != nil {
		s.logger.Warn("failed to publish ticket event",
			zap.String("uid", uid),
			zap.String("event", string(eventType)),
			zap.Error(err))
	}
}

func (s *TicketService) cachedPresetCounts(ctx context.Context, key string) ([]PresetCount, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var counts []PresetCount
	if err := json.Unmarshal(raw, &counts); err != nil {
		return nil, false
	}
	return counts, true
}

func (s *TicketService) storePresetCounts(ctx context.Context, key string, counts []PresetCount) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(counts)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, presetCountsTTL).Err(); err != nil {
		s.logger.Debug("unable to cache preset counts", zap.Error(err))
	}
}

func (s *TicketService) invalidatePresetCounts(ctx context.Context) {
	if s.cache == nil {
		return
	}
	iter := s.cache.Scan(ctx, 0, "tickets:preset-counts:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Debug("unable to invalidate preset counts", zap.Error(err))
		}
	}
}

func presetCountsCacheKey(search, andFilters string, own bool, principal *domain.Employee) string {
	principalID := int64(0)
	if principal != nil {
		principalID = principal.ID
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%t|%d", search, andFilters, own, principalID)))
	return "tickets:preset-counts:" + hex.EncodeToString(sum[:8])
}

func validateCreateInput(input TicketCreateInput) error {
	if input.Request == "" {
		return apperrors.NewValidationError("request is required", "field request must not be empty")
	}
	if input.CompanyID == 0 {
		return apperrors.NewValidationError("company is required", "field company_id must be set")
	}
	if input.CategoryID == 0 {
		return apperrors.NewValidationError("category is required", "field category_id must be set")
	}
	if input.TypeID == 0 {
		return apperrors.NewValidationError("type is required", "field type_id must be set")
	}
	if input.RequesterID == 0 {
		return apperrors.NewValidationError("requester is required", "field requester_id must be set")
	}
	return nil
}

func applyUpdateInput(ticket *domain.Ticket, input TicketUpdateInput) {
	if input.Request != nil {
		ticket.Request = *input.Request
	}
	if input.Response != nil {
		ticket.Response = input.Response
	}
	if input.InternalComment != nil {
		ticket.InternalComment = input.InternalComment
	}
	if input.PreventionDate != nil {
		ticket.PreventionDate = input.PreventionDate
	}
	if input.SpentTime != nil {
		ticket.SpentTime = *input.SpentTime
	}
	if input.SupplierReference != nil {
		ticket.SupplierReference = input.SupplierReference
	}
	if input.CategoryID != nil {
		ticket.CategoryID = *input.CategoryID
	}
	if input.SubcategoryID != nil {
		ticket.SubcategoryID = input.SubcategoryID
	}
	if input.StatusID != nil {
		ticket.StatusID = *input.StatusID
	}
	if input.TypeID != nil {
		ticket.TypeID = *input.TypeID
	}
	if input.PriorityID != nil {
		ticket.PriorityID = *input.PriorityID
	}
	if input.AssistanceTypeID != nil {
		ticket.AssistanceTypeID = *input.AssistanceTypeID
	}
	if input.AgentID != nil {
		ticket.AgentID = input.AgentID
	}
}

// summarizeCCs renders the cc id list as text so diffs stay flat.
func summarizeCCs(view map[string]any) {
	if ids, ok := view["ccs"].([]int64); ok {
		view["ccs"] = fmt.Sprintf("%v", ids)
	}
}

func deriveUID(id int64, createdAt time.Time, requesterID int64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d:%s:%d", id, createdAt.UTC().Format(time.RFC3339Nano), requesterID)))
	return hex.EncodeToString(sum[:])
}

func composeSubject(id int64, requester, category, priority string, createdAt time.Time) string {
	return fmt.Sprintf("#%d %s - %s - %s - %s", id, requester, category, priority, createdAt.Format("2006-01-02 15:04"))
}
