package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "OUTREACH_CONFIG"
	openAIAPIKeyEnv  = "OPENAI_API_KEY"
	chatGPTModelEnv  = "CHATGPT_MODEL"
	senderEmailEnv   = "SENDER_EMAIL"
	emailPasswordEnv = "EMAIL_PASSWORD"
	smtpHostEnv      = "SMTP_HOST"
	smtpPortEnv      = "SMTP_PORT"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging      LoggingConfig      `yaml:"logging"`
	HTTP         HTTPConfig         `yaml:"http"`
	ChatGPT      ChatGPTConfig      `yaml:"chatgpt"`
	SMTP         SMTPConfig         `yaml:"smtp"`
	Scrape       ScrapeConfig       `yaml:"scrape"`
	Drafter      DrafterConfig      `yaml:"drafter"`
	Universities []UniversityConfig `yaml:"universities"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// HTTPConfig groups fetch behavior shared by directory and profile requests.
type HTTPConfig struct {
	UserAgent           string `yaml:"userAgent"`
	DirectoryTimeoutSec int    `yaml:"directoryTimeoutSec"`
	ProfileTimeoutSec   int    `yaml:"profileTimeoutSec"`
	MaxAttempts         int    `yaml:"maxAttempts"`
	BackoffBaseMS       int    `yaml:"backoffBaseMs"`
	PolitenessDelayMS   int    `yaml:"politenessDelayMs"`
}

// ChatGPTConfig defines how to contact the chat-completion API.
type ChatGPTConfig struct {
	Endpoint        string  `yaml:"endpoint"`
	Model           string  `yaml:"model"`
	APIKey          string  `yaml:"apiKey"`
	ExtractTemp     float64 `yaml:"extractTemperature"`
	DraftTemp       float64 `yaml:"draftTemperature"`
	ProfilePrefixCh int     `yaml:"profilePrefixChars"`
}

// SMTPConfig describes the mail-submission endpoint. The password is
// never read from the YAML file, only from the environment.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Sender   string `yaml:"sender"`
	Password string `yaml:"-"`
}

// ScrapeConfig tunes candidate validation and the per-domain rule table.
type ScrapeConfig struct {
	Lenient bool         `yaml:"lenient"`
	Rules   []RuleConfig `yaml:"rules"`
}

// RuleConfig maps a host substring to the selectors of its faculty cards.
type RuleConfig struct {
	HostContains      string `yaml:"hostContains"`
	ContainerSelector string `yaml:"containerSelector"`
	NameSelector      string `yaml:"nameSelector"`
	LinkSelector      string `yaml:"linkSelector"`
}

// DrafterConfig selects the email drafting strategy: "template" or "llm".
type DrafterConfig struct {
	Strategy string `yaml:"strategy"`
}

// UniversityConfig is one faculty directory to scan.
type UniversityConfig struct {
	Name         string `yaml:"name"`
	DirectoryURL string `yaml:"directoryUrl"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Universities) == 0 {
		cfg.Universities = defaultConfig().Universities
	}

	return cfg
}

// Validate reports setup errors that must abort the run before any work
// begins. Mail credentials are only required when delivery is requested.
func (c Config) Validate(needMail bool) error {
	if c.ChatGPT.APIKey == "" {
		return fmt.Errorf("config: %s environment variable not set", openAIAPIKeyEnv)
	}
	if needMail {
		if c.SMTP.Sender == "" {
			return fmt.Errorf("config: %s environment variable not set", senderEmailEnv)
		}
		if c.SMTP.Password == "" {
			return fmt.Errorf("config: %s environment variable not set", emailPasswordEnv)
		}
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.ChatGPT.APIKey = v
	}
	if v := os.Getenv(chatGPTModelEnv); v != "" {
		c.ChatGPT.Model = v
	}
	if v := os.Getenv(senderEmailEnv); v != "" {
		c.SMTP.Sender = v
	}
	if v := os.Getenv(emailPasswordEnv); v != "" {
		c.SMTP.Password = v
	}
	if v := os.Getenv(smtpHostEnv); v != "" {
		c.SMTP.Host = v
	}
	if v := os.Getenv(smtpPortEnv); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.SMTP.Port = port
		} else {
			log.Printf("config: invalid %s value %q, keeping %d", smtpPortEnv, v, c.SMTP.Port)
		}
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.HTTP.UserAgent != "" {
		base.HTTP.UserAgent = override.HTTP.UserAgent
	}
	if override.HTTP.DirectoryTimeoutSec > 0 {
		base.HTTP.DirectoryTimeoutSec = override.HTTP.DirectoryTimeoutSec
	}
	if override.HTTP.ProfileTimeoutSec > 0 {
		base.HTTP.ProfileTimeoutSec = override.HTTP.ProfileTimeoutSec
	}
	if override.HTTP.MaxAttempts > 0 {
		base.HTTP.MaxAttempts = override.HTTP.MaxAttempts
	}
	if override.HTTP.BackoffBaseMS > 0 {
		base.HTTP.BackoffBaseMS = override.HTTP.BackoffBaseMS
	}
	if override.HTTP.PolitenessDelayMS > 0 {
		base.HTTP.PolitenessDelayMS = override.HTTP.PolitenessDelayMS
	}

	if override.ChatGPT.Endpoint != "" {
		base.ChatGPT.Endpoint = override.ChatGPT.Endpoint
	}
	if override.ChatGPT.Model != "" {
		base.ChatGPT.Model = override.ChatGPT.Model
	}
	if override.ChatGPT.APIKey != "" {
		base.ChatGPT.APIKey = override.ChatGPT.APIKey
	}
	if override.ChatGPT.ExtractTemp > 0 {
		base.ChatGPT.ExtractTemp = override.ChatGPT.ExtractTemp
	}
	if override.ChatGPT.DraftTemp > 0 {
		base.ChatGPT.DraftTemp = override.ChatGPT.DraftTemp
	}
	if override.ChatGPT.ProfilePrefixCh > 0 {
		base.ChatGPT.ProfilePrefixCh = override.ChatGPT.ProfilePrefixCh
	}

	if override.SMTP.Host != "" {
		base.SMTP.Host = override.SMTP.Host
	}
	if override.SMTP.Port > 0 {
		base.SMTP.Port = override.SMTP.Port
	}
	if override.SMTP.Sender != "" {
		base.SMTP.Sender = override.SMTP.Sender
	}

	if override.Scrape.Lenient {
		base.Scrape.Lenient = true
	}
	if len(override.Scrape.Rules) > 0 {
		base.Scrape.Rules = override.Scrape.Rules
	}

	if override.Drafter.Strategy != "" {
		base.Drafter = override.Drafter
	}

	if len(override.Universities) > 0 {
		base.Universities = override.Universities
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		HTTP: HTTPConfig{
			UserAgent:           "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			DirectoryTimeoutSec: 30,
			ProfileTimeoutSec:   20,
			MaxAttempts:         3,
			BackoffBaseMS:       1000,
			PolitenessDelayMS:   1000,
		},
		ChatGPT: ChatGPTConfig{
			Endpoint:        "https://api.openai.com/v1/chat/completions",
			Model:           "gpt-4o-mini",
			APIKey:          "",
			ExtractTemp:     0.2,
			DraftTemp:       0.7,
			ProfilePrefixCh: 5000,
		},
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: 465,
		},
		Scrape: ScrapeConfig{
			Lenient: false,
			Rules:   defaultRules(),
		},
		Drafter: DrafterConfig{Strategy: "template"},
		Universities: []UniversityConfig{
			{Name: "George Mason University", DirectoryURL: "https://cs.gmu.edu/directory/by-category/faculty/"},
			{Name: "Virginia Tech", DirectoryURL: "https://cs.vt.edu/people/faculty.html"},
			{Name: "University of Virginia", DirectoryURL: "https://engineering.virginia.edu/department/computer-science/faculty"},
			{Name: "George Washington University", DirectoryURL: "https://www.cs.seas.gwu.edu/faculty"},
			{Name: "Georgetown University", DirectoryURL: "https://cs.georgetown.edu/people/faculty/"},
		},
	}
}

func defaultRules() []RuleConfig {
	return []RuleConfig{
		{
			HostContains:      "gmu.edu",
			ContainerSelector: "div.faculty-member",
			NameSelector:      "h3, h4, strong",
			LinkSelector:      "a[href]",
		},
		{
			HostContains:      "vt.edu",
			ContainerSelector: "div.views-row, div.person-teaser",
			NameSelector:      "h2, h3, strong",
			LinkSelector:      "a[href]",
		},
		{
			HostContains:      "virginia.edu",
			ContainerSelector: "div.person, li.person, div.faculty-staff-item, li.faculty-staff-item",
			NameSelector:      "h3, h4, strong",
			LinkSelector:      "a[href]",
		},
	}
}
