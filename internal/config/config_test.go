package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv blanks the override variables so Load observes defaults only.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OUTREACH_CONFIG", "OPENAI_API_KEY", "CHATGPT_MODEL",
		"SENDER_EMAIL", "EMAIL_PASSWORD", "SMTP_HOST", "SMTP_PORT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load("")

	if cfg.ChatGPT.Endpoint != "https://api.openai.com/v1/chat/completions" {
		t.Fatalf("unexpected endpoint: %s", cfg.ChatGPT.Endpoint)
	}
	if cfg.SMTP.Host != "smtp.gmail.com" || cfg.SMTP.Port != 465 {
		t.Fatalf("unexpected smtp defaults: %s:%d", cfg.SMTP.Host, cfg.SMTP.Port)
	}
	if cfg.HTTP.MaxAttempts != 3 {
		t.Fatalf("unexpected retry bound: %d", cfg.HTTP.MaxAttempts)
	}
	if len(cfg.Universities) != 5 {
		t.Fatalf("expected 5 default universities, got %d", len(cfg.Universities))
	}
	if len(cfg.Scrape.Rules) == 0 {
		t.Fatal("expected seeded scrape rules")
	}
	if cfg.Drafter.Strategy != "template" {
		t.Fatalf("unexpected drafter strategy: %s", cfg.Drafter.Strategy)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
chatgpt:
  model: gpt-4o
http:
  politenessDelayMs: 2000
universities:
  - name: Example University
    directoryUrl: https://cs.example.edu/faculty-list
scrape:
  lenient: true
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Load(path)

	if cfg.ChatGPT.Model != "gpt-4o" {
		t.Fatalf("unexpected model: %s", cfg.ChatGPT.Model)
	}
	if cfg.HTTP.PolitenessDelayMS != 2000 {
		t.Fatalf("unexpected delay: %d", cfg.HTTP.PolitenessDelayMS)
	}
	if cfg.HTTP.MaxAttempts != 3 {
		t.Fatal("unset file values must keep defaults")
	}
	if len(cfg.Universities) != 1 || cfg.Universities[0].Name != "Example University" {
		t.Fatalf("unexpected universities: %v", cfg.Universities)
	}
	if !cfg.Scrape.Lenient {
		t.Fatal("lenient flag must merge")
	}
	if len(cfg.Scrape.Rules) == 0 {
		t.Fatal("default rules must survive when the file defines none")
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SENDER_EMAIL", "sender@example.com")
	t.Setenv("EMAIL_PASSWORD", "app-password")
	t.Setenv("SMTP_HOST", "mail.example.org")
	t.Setenv("SMTP_PORT", "587")

	cfg := Load("")

	if cfg.ChatGPT.APIKey != "sk-test" {
		t.Fatalf("unexpected api key: %s", cfg.ChatGPT.APIKey)
	}
	if cfg.SMTP.Sender != "sender@example.com" || cfg.SMTP.Password != "app-password" {
		t.Fatal("smtp credentials must come from the environment")
	}
	if cfg.SMTP.Host != "mail.example.org" || cfg.SMTP.Port != 587 {
		t.Fatalf("unexpected smtp endpoint: %s:%d", cfg.SMTP.Host, cfg.SMTP.Port)
	}
}

func TestValidateReportsSetupErrors(t *testing.T) {
	cfg := defaultConfig()

	if err := cfg.Validate(false); err == nil {
		t.Fatal("missing api key must be a setup error")
	}

	cfg.ChatGPT.APIKey = "sk-test"
	if err := cfg.Validate(false); err != nil {
		t.Fatalf("dry runs need no mail credentials: %v", err)
	}

	if err := cfg.Validate(true); err == nil {
		t.Fatal("missing sender must be a setup error when mailing")
	}

	cfg.SMTP.Sender = "sender@example.com"
	if err := cfg.Validate(true); err == nil {
		t.Fatal("missing password must be a setup error when mailing")
	}

	cfg.SMTP.Password = "app-password"
	if err := cfg.Validate(true); err != nil {
		t.Fatalf("complete config must validate: %v", err)
	}
}
