package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"ResearchOutreach/internal/config"
	"ResearchOutreach/internal/ports"
)

const (
	reportSubject = "Research Outreach Emails"
	reportBody    = "Attached is your generated research outreach emails CSV file."
)

var addressExpr = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateAddress rejects destination addresses that do not match the
// local-part "@" domain "." tld shape, before any network use.
func ValidateAddress(addr string) error {
	if !addressExpr.MatchString(addr) {
		return fmt.Errorf("invalid email address: %s", addr)
	}
	return nil
}

// Mailer submits messages over an implicit-TLS SMTP connection.
type Mailer struct {
	host     string
	port     int
	sender   string
	password string
	logger   *slog.Logger
}

var _ ports.Notifier = (*Mailer)(nil)

// NewMailer wires the submission endpoint; credentials come from config
// which reads them from the environment, never from source.
func NewMailer(cfg config.SMTPConfig, logger *slog.Logger) *Mailer {
	return &Mailer{
		host:     cfg.Host,
		port:     cfg.Port,
		sender:   cfg.Sender,
		password: cfg.Password,
		logger:   logger,
	}
}

// SendReport mails the CSV as a binary attachment. Failure never touches
// the already-written file; the caller keeps the artifact either way.
func (m *Mailer) SendReport(_ context.Context, to, attachmentPath string) error {
	if err := ValidateAddress(to); err != nil {
		return err
	}
	if m.sender == "" || m.password == "" {
		return fmt.Errorf("mail credentials not configured")
	}
	if _, err := os.Stat(attachmentPath); err != nil {
		return fmt.Errorf("attachment missing: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", reportSubject)
	msg.SetBody("text/plain", reportBody)
	msg.Attach(attachmentPath, gomail.SetHeader(map[string][]string{
		"Content-Type": {attachmentType(attachmentPath)},
	}))

	if err := m.dialAndSend(msg); err != nil {
		return fmt.Errorf("send report to %s: %w", to, err)
	}

	if m.logger != nil {
		m.logger.Info("report delivered", "to", to, "attachment", attachmentPath)
	}
	return nil
}

// SendPlain submits a short plaintext message, used by the connectivity
// check binary.
func (m *Mailer) SendPlain(_ context.Context, to, subject, body string) error {
	if err := ValidateAddress(to); err != nil {
		return err
	}
	if m.sender == "" || m.password == "" {
		return fmt.Errorf("mail credentials not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialAndSend(msg); err != nil {
		return fmt.Errorf("send message to %s: %w", to, err)
	}
	return nil
}

func (m *Mailer) dialAndSend(msg *gomail.Message) error {
	dialer := gomail.NewDialer(m.host, m.port, m.sender, m.password)
	dialer.SSL = true
	return dialer.DialAndSend(msg)
}

// attachmentType infers the MIME type from the file extension, falling
// back to a generic binary type. The csv mapping is pinned because the
// system table does not carry it everywhere.
func attachmentType(path string) string {
	ext := filepath.Ext(path)
	if strings.EqualFold(ext, ".csv") {
		return "text/csv"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
