package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"

	"socialnet/internal/config"
)

// Template ids known to the mailer.
const (
	TemplateActivation = "activation_email"
	TemplateResetOTP   = "password_reset_otp"
)

// Message is a templated email.
type Message struct {
	To       string
	Subject  string
	Template string
	Vars     map[string]any
}

// Mailer delivers email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer renders html templates and delivers them over SMTP.
type SMTPMailer struct {
	cfg       config.MailConfig
	templates *template.Template
	logger    *slog.Logger
	send      sendFunc
}

// NewSMTPMailer creates a mailer for the given SMTP settings.
func NewSMTPMailer(cfg config.MailConfig, logger *slog.Logger) *SMTPMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPMailer{
		cfg:       cfg,
		templates: template.Must(template.New("mail").Parse(templates)),
		logger:    logger,
		send:      smtp.SendMail,
	}
}

// Send renders msg.Template with msg.Vars and delivers it.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	body, err := m.Render(msg)
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to render email template", "template", msg.Template, "error", err)
		return err
	}

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	raw := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s\r\n",
		m.cfg.From, msg.To, sanitizeHeader(msg.Subject), body,
	))

	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := m.send(addr, auth, m.cfg.From, []string{msg.To}, raw); err != nil {
		m.logger.ErrorContext(ctx, "failed to send email", "template", msg.Template, "email", msg.To, "error", err)
		return fmt.Errorf("send email: %w", err)
	}

	m.logger.InfoContext(ctx, "email sent", "template", msg.Template, "email", msg.To)
	return nil
}

// Render executes the named template with the site variables merged in.
func (m *SMTPMailer) Render(msg Message) (string, error) {
	tmpl := m.templates.Lookup(msg.Template)
	if tmpl == nil {
		return "", fmt.Errorf("unknown email template %q", msg.Template)
	}

	data := map[string]any{
		"SiteTitle": m.cfg.SiteTitle,
		"SiteURL":   m.cfg.SiteURL,
	}
	for k, v := range msg.Vars {
		data[k] = v
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

func sanitizeHeader(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
