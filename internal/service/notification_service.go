package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/mailer"
	"github.com/spec-kit/helpdesk-service/internal/observability"
)

// NotificationService turns ticket events into outbound mail. Every failure
// is logged and swallowed: a lost notification never fails the mutation that
// triggered it.
type NotificationService struct {
	dispatcher events.Dispatcher
	mail       mailer.Mailer
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mail mailer.Mailer, logger *zap.Logger, metrics *observability.Metrics) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mail:       mail,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketEvent)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketEvent)
	n.dispatcher.Subscribe(events.EventTicketClosed, n.handleTicketEvent)
	n.dispatcher.Subscribe(events.EventTicketReopened, n.handleTicketEvent)
}

func (n *NotificationService) handleTicketEvent(ctx context.Context, event events.Event) error {
	ticket := event.Payload.Ticket
	if ticket == nil {
		return nil
	}

	msg := buildTicketMessage(event.Type, ticket)
	if err := n.mail.Send(msg); err != nil {
		n.logger.Warn("ticket notification failed",
			zap.String("event", string(event.Type)),
			zap.Int64("ticket_id", event.TicketID),
			zap.Error(err))
		n.metrics.RecordMail(string(event.Type), "failed")
		return nil
	}
	n.logger.Info("ticket notification sent",
		zap.String("event", string(event.Type)),
		zap.Int64("ticket_id", event.TicketID),
		zap.Strings("to", msg.To))
	n.metrics.RecordMail(string(event.Type), "sent")
	return nil
}

func buildTicketMessage(eventType events.EventType, ticket *domain.Ticket) mailer.Message {
	var to []string
	if ticket.Requester != nil {
		to = append(to, ticket.Requester.MainEmail())
	}
	var cc []string
	if ticket.Agent != nil {
		cc = append(cc, ticket.Agent.MainEmail())
	}
	for i := range ticket.CCs {
		cc = append(cc, ticket.CCs[i].MainEmail())
	}

	var action string
	switch eventType {
	case events.EventTicketCreated:
		action = "registado"
	case events.EventTicketAssigned:
		action = "atribuído"
	case events.EventTicketClosed:
		action = "concluído"
	case events.EventTicketReopened:
		action = "reaberto"
	default:
		action = "atualizado"
	}

	subject := fmt.Sprintf("Pedido de assistência #%d %s", ticket.ID, action)
	agentName := ""
	if ticket.Agent != nil {
		agentName = ticket.Agent.FullName
	}
	statusName := ""
	if ticket.Status != nil {
		statusName = ticket.Status.Name
	}

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>%s</h2>
			<p>O pedido de assistência <strong>#%d</strong> foi %s.</p>
			<p><strong>Assunto:</strong> %s</p>
			<p><strong>Estado:</strong> %s</p>
			<p><strong>Técnico:</strong> %s</p>
		</body>
		</html>
	`, subject, ticket.ID, action, ticket.Subject, statusName, agentName)

	plainBody := fmt.Sprintf(`%s

O pedido de assistência #%d foi %s.

Assunto: %s
Estado: %s
Técnico: %s
`, subject, ticket.ID, action, ticket.Subject, statusName, agentName)

	return mailer.Message{
		To:        to,
		CC:        cc,
		Subject:   subject,
		HTMLBody:  htmlBody,
		PlainBody: plainBody,
	}
}
