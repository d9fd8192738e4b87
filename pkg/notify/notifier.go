// Package notify delivers moderation notifications to the library admin.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Notifier delivers an out-of-band notification. Callers treat delivery as
// best effort; a failed notification never rolls back the action it reports.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// SMTPConfig configures the mail notifier.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	AdminTo  string
}

// SMTPMailer sends notifications to the configured admin address.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer builds a mailer. All fields except Username/Password are
// required.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, fmt.Errorf("smtp host required")
	}
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("smtp port required")
	}
	if strings.TrimSpace(cfg.From) == "" || strings.TrimSpace(cfg.AdminTo) == "" {
		return nil, fmt.Errorf("smtp from and admin addresses required")
	}
	return &SMTPMailer{cfg: cfg}, nil
}

// Notify sends one plain-text mail to the admin address.
func (m *SMTPMailer) Notify(_ context.Context, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + m.cfg.AdminTo,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")
	var auth smtp.Auth
	if strings.TrimSpace(m.cfg.Username) != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{m.cfg.AdminTo}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// Noop discards notifications. Used when mail is not configured.
type Noop struct{}

func (Noop) Notify(context.Context, string, string) error { return nil }
