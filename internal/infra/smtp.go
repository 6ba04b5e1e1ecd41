package infra

import (
	"fmt"
	"net/smtp"

	"ebucks/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends payroll slips over SMTP. Every send goes through a circuit
// breaker so a dead mail server fails fast instead of tying up the workers.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	cb       *CircuitBreaker
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		cb:       NewCircuitBreaker("smtp", DefaultCBConfig()),
	}
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool { return m != nil && m.host != "" }

// Breaker exposes the breaker state for health reporting.
func (m *Mailer) Breaker() *CircuitBreaker { return m.cb }

// SendSlip mails body to a single recipient with an optional PDF attachment.
func (m *Mailer) SendSlip(to, subject, body, pdfPath string) error {
	if !m.Enabled() {
		return fmt.Errorf("mailer: SMTP_HOST not configured")
	}
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return m.cb.Execute(func() error { return e.Send(m.addr, auth) })
}
