package mail

import (
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPConfig captures the settings for the outbound SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
}

// Sender delivers a rendered email.
type Sender interface {
	Send(email Email) error
}

// SMTPSender delivers email over plain SMTP with optional AUTH.
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender creates an SMTPSender with the given relay settings.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send delivers the email through the configured relay.
func (s *SMTPSender) Send(email Email) error {
	from := s.cfg.Username
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", email.To))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(email.HTMLBody)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, from, []string{email.To}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
