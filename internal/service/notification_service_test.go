package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/mailer"
	"github.com/spec-kit/helpdesk-service/internal/observability"
)

type fakeMailer struct {
	sent    []mailer.Message
	sendErr error
}

func (m *fakeMailer) Send(msg mailer.Message) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

func notificationTicket() *domain.Ticket {
	agentID := int64(9)
	return &domain.Ticket{
		ID:       42,
		UID:      "cafe42",
		Subject:  "#42 Ana Silva - Hardware - Média - 2026-03-10 12:00",
		StatusID: domain.StatusInProgress,
		AgentID:  &agentID,
		Requester: &domain.Employee{
			ID: 5, FullName: "Ana Silva",
			Contacts: []domain.EmployeeContact{{Type: domain.ContactTypeEmail, Value: "ana@example.com", Main: true}},
		},
		Agent: &domain.Employee{
			ID: 9, FullName: "Marta Silva",
			Contacts: []domain.EmployeeContact{{Type: domain.ContactTypeEmail, Value: "marta@example.com", Main: true}},
		},
		CCs: []domain.Employee{
			{ID: 7, Contacts: []domain.EmployeeContact{{Type: domain.ContactTypeEmail, Value: "rui@example.com", Main: true}}},
		},
		Status: &domain.Lookup{ID: domain.StatusInProgress, Name: "Em curso"},
	}
}

func TestBuildTicketMessage(t *testing.T) {
	ticket := notificationTicket()

	msg := buildTicketMessage(events.EventTicketAssigned, ticket)

	assert.Equal(t, []string{"ana@example.com"}, msg.To)
	assert.Equal(t, []string{"marta@example.com", "rui@example.com"}, msg.CC)
	assert.Equal(t, "Pedido de assistência #42 atribuído", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "foi atribuído")
	assert.Contains(t, msg.HTMLBody, "Em curso")
	assert.Contains(t, msg.PlainBody, "Técnico: Marta Silva")
}

func TestBuildTicketMessageActions(t *testing.T) {
	ticket := notificationTicket()

	cases := map[events.EventType]string{
		events.EventTicketCreated:  "registado",
		events.EventTicketClosed:   "concluído",
		events.EventTicketReopened: "reaberto",
	}
	for eventType, action := range cases {
		msg := buildTicketMessage(eventType, ticket)
		assert.Contains(t, msg.Subject, action, string(eventType))
	}
}

func TestHandleTicketEventSendsMail(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	mail := &fakeMailer{}
	service := NewNotificationService(dispatcher, mail, zap.NewNop(), observability.NewMetrics())
	service.RegisterHandlers()

	event := events.NewTicketEvent(events.EventTicketClosed, notificationTicket(), events.Actor{EmployeeID: 9, FullName: "Marta Silva"})
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	require.Len(t, mail.sent, 1)
	assert.Equal(t, []string{"ana@example.com"}, mail.sent[0].To)
}

func TestHandleTicketEventSwallowsSendFailure(t *testing.T) {
	mail := &fakeMailer{sendErr: fmt.Errorf("smtp down")}
	service := NewNotificationService(nil, mail, zap.NewNop(), observability.NewMetrics())

	event := events.NewTicketEvent(events.EventTicketCreated, notificationTicket(), events.Actor{})
	assert.NoError(t, service.handleTicketEvent(context.Background(), event))
	assert.Empty(t, mail.sent)
}

func TestHandleTicketEventIgnoresEmptyPayload(t *testing.T) {
	mail := &fakeMailer{}
	service := NewNotificationService(nil, mail, zap.NewNop(), observability.NewMetrics())

	assert.NoError(t, service.handleTicketEvent(context.Background(), events.Event{Type: events.EventTicketCreated}))
	assert.Empty(t, mail.sent)
}
