package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"ResearchOutreach/internal/config"
	"ResearchOutreach/internal/domain"
	"ResearchOutreach/internal/infrastructure/csvsink"
	"ResearchOutreach/internal/infrastructure/drafter"
	"ResearchOutreach/internal/infrastructure/enricher"
	"ResearchOutreach/internal/infrastructure/llm"
	"ResearchOutreach/internal/infrastructure/mailer"
	"ResearchOutreach/internal/infrastructure/resume"
	"ResearchOutreach/internal/logging"
	"ResearchOutreach/internal/ports"
	"ResearchOutreach/internal/scrape"
	"ResearchOutreach/internal/usecase"
)

// Options carries the per-run inputs supplied on the command line.
type Options struct {
	ResumePath string
	To         string
	OutputPath string
	DryRun     bool
}

// Application wires configuration to the pipeline and its adapters.
type Application struct {
	opts     Options
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger, opts Options) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := scrape.NewRegistry(cfg.Scrape.Rules)
	backoff := time.Duration(cfg.HTTP.BackoffBaseMS) * time.Millisecond

	directoryFetcher := scrape.NewFetcher(
		&http.Client{Timeout: time.Duration(cfg.HTTP.DirectoryTimeoutSec) * time.Second},
		cfg.HTTP.UserAgent,
		cfg.HTTP.MaxAttempts,
		backoff,
		baseLogger.With("component", "fetch.directory"),
	)
	profileFetcher := scrape.NewFetcher(
		&http.Client{Timeout: time.Duration(cfg.HTTP.ProfileTimeoutSec) * time.Second},
		cfg.HTTP.UserAgent,
		cfg.HTTP.MaxAttempts,
		backoff,
		baseLogger.With("component", "fetch.profile"),
	)

	generator := llm.NewChatGPTClient(cfg.ChatGPT)

	var emailDrafter ports.EmailDrafter
	if cfg.Drafter.Strategy == "llm" {
		emailDrafter = drafter.NewGeneratedDrafter(generator, cfg.ChatGPT.DraftTemp, baseLogger.With("component", "drafter"))
	} else {
		emailDrafter = drafter.NewTemplateDrafter(baseLogger.With("component", "drafter"))
	}

	var notifier ports.Notifier
	if !opts.DryRun {
		notifier = mailer.NewMailer(cfg.SMTP, baseLogger.With("component", "mailer"))
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Resume: resume.NewExtractor(baseLogger.With("component", "resume")),
		Source: scrape.NewScraper(directoryFetcher, registry, cfg.Scrape.Lenient,
			baseLogger.With("component", "scraper")),
		Enricher: enricher.NewEnricher(profileFetcher, generator, cfg.ChatGPT.ProfilePrefixCh,
			cfg.ChatGPT.ExtractTemp, baseLogger.With("component", "enricher")),
		Drafter:      emailDrafter,
		Sink:         csvsink.NewSink(opts.OutputPath, baseLogger.With("component", "sink")),
		Notifier:     notifier,
		Universities: toUniversities(cfg.Universities),
		Delay:        time.Duration(cfg.HTTP.PolitenessDelayMS) * time.Millisecond,
		Logger:       baseLogger.With("component", "pipeline"),
	})

	return &Application{opts: opts, pipeline: pipeline}
}

// Run performs a single best-effort pipeline execution.
func (a *Application) Run(ctx context.Context) error {
	return a.pipeline.Run(ctx, a.opts.ResumePath, a.opts.To)
}

func toUniversities(cfg []config.UniversityConfig) []domain.University {
	universities := make([]domain.University, 0, len(cfg))
	for _, u := range cfg {
		universities = append(universities, domain.University{
			Name:         u.Name,
			DirectoryURL: u.DirectoryURL,
		})
	}
	return universities
}
