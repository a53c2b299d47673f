package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/spec-kit/helpdesk-service/internal/config"
)

// Message is a single outbound mail with both plain and HTML bodies.
type Message struct {
	To        []string
	CC        []string
	Subject   string
	HTMLBody  string
	PlainBody string
}

// Mailer delivers notification messages.
type Mailer interface {
	Send(msg Message) error
}

// SMTPMailer sends mail through the configured SMTP relay.
type SMTPMailer struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
}

// NewSMTPMailer builds a mailer from SMTP settings.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Send delivers the message. Recipients with empty addresses are dropped; a
// message that ends up with no recipients is a no-op, not an error.
func (s *SMTPMailer) Send(msg Message) error {
	to := compact(msg.To)
	if len(to) == 0 {
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.From, s.cfg.FromName)
	m.SetHeader("To", to...)
	if cc := compact(msg.CC); len(cc) > 0 {
		m.SetHeader("Cc", cc...)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.PlainBody)
	m.AddAlternative("text/html", msg.HTMLBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func compact(addrs []string) []string {
	out := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		if addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
