package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/hrmanagement/hrm-backend-go/internal/domain/employee"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Mailer struct {
	cfg       SMTPConfig
	templates *template.Template
	send      sendFunc
	backoff   time.Duration
}

// NewMailer parses the embedded templates. An empty Host turns every send
// into a logged no-op.
func NewMailer(cfg SMTPConfig) (*Mailer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &Mailer{
		cfg:       cfg,
		templates: tmpl,
		send:      smtp.SendMail,
		backoff:   time.Second,
	}, nil
}

type decisionEmailData struct {
	Name      string
	Approved  bool
	DecidedAt string
}

// NotifyDecision implements employee.DecisionNotifier.
func (m *Mailer) NotifyDecision(ctx context.Context, e employee.Employee) error {
	data := decisionEmailData{
		Name:      e.FullName(),
		Approved:  e.IsApproved(),
		DecidedAt: time.Now().Format("02 Jan 2006 15:04"),
	}
	switch {
	case e.ApprovedAt != nil:
		data.DecidedAt = e.ApprovedAt.Format("02 Jan 2006 15:04")
	case !e.UpdatedAt.IsZero():
		data.DecidedAt = e.UpdatedAt.Format("02 Jan 2006 15:04")
	}

	var body bytes.Buffer
	if err := m.templates.ExecuteTemplate(&body, "registration_decision.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject := "Your registration was rejected"
	if data.Approved {
		subject = "Your registration was approved"
	}
	return m.sendHTML(ctx, e.Email, subject, body.String())
}

func (m *Mailer) sendHTML(ctx context.Context, to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if m.cfg.Host == "" {
		slog.WarnContext(ctx, "SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := m.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", m.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := m.send(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.InfoContext(ctx, "Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.ErrorContext(ctx, "Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// exponential backoff: 1s, 2s
		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(m.backoff << (attempt - 1)):
			}
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
