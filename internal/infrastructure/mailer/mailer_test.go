package mailer

import (
	"context"
	"testing"

	"ResearchOutreach/internal/config"
)

func TestValidateAddress(t *testing.T) {
	t.Parallel()

	valid := []string{
		"user@example.com",
		"first.last@cs.example.edu",
		"a+tag@sub.domain.org",
	}
	for _, addr := range valid {
		if err := ValidateAddress(addr); err != nil {
			t.Fatalf("expected %q to be valid: %v", addr, err)
		}
	}

	invalid := []string{
		"not-an-email",
		"missing-domain@",
		"@missing-local.com",
		"no-tld@example",
		"spaces in@example.com",
		"",
	}
	for _, addr := range invalid {
		if err := ValidateAddress(addr); err == nil {
			t.Fatalf("expected %q to be rejected", addr)
		}
	}
}

func TestSendReportRejectsBadAddressBeforeDialing(t *testing.T) {
	t.Parallel()

	// Unroutable host: reaching it would hang, so an immediate error
	// proves validation runs before any network use.
	m := NewMailer(config.SMTPConfig{
		Host:     "smtp.invalid",
		Port:     465,
		Sender:   "sender@example.com",
		Password: "secret",
	}, nil)

	if err := m.SendReport(context.Background(), "not-an-email", "report.csv"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestSendReportRequiresCredentials(t *testing.T) {
	t.Parallel()

	m := NewMailer(config.SMTPConfig{Host: "smtp.invalid", Port: 465}, nil)
	if err := m.SendReport(context.Background(), "user@example.com", "report.csv"); err == nil {
		t.Fatal("expected credential error")
	}
}

func TestSendReportRequiresExistingAttachment(t *testing.T) {
	t.Parallel()

	m := NewMailer(config.SMTPConfig{
		Host:     "smtp.invalid",
		Port:     465,
		Sender:   "sender@example.com",
		Password: "secret",
	}, nil)

	if err := m.SendReport(context.Background(), "user@example.com", "/nonexistent/report.csv"); err == nil {
		t.Fatal("expected missing-attachment error")
	}
}

func TestAttachmentType(t *testing.T) {
	t.Parallel()

	if got := attachmentType("report.csv"); got != "text/csv" {
		t.Fatalf("csv extension should resolve to text/csv, got %s", got)
	}
	if got := attachmentType("report.unknownext"); got != "application/octet-stream" {
		t.Fatalf("unknown extension must fall back to octet-stream, got %s", got)
	}
}
