package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ResearchOutreach/internal/domain"
	"ResearchOutreach/internal/infrastructure/csvsink"
	"ResearchOutreach/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Resume       ports.ResumeParser
	Source       ports.DirectorySource
	Enricher     ports.ProfileEnricher
	Drafter      ports.EmailDrafter
	Sink         ports.ResultSink
	Notifier     ports.Notifier
	Universities []domain.University
	Delay        time.Duration
	Logger       *slog.Logger
}

// Pipeline implements the single-run outreach workflow: resume once,
// then scrape -> enrich -> draft per professor, then serialize and
// notify with whatever was collected. Failures are contained at the
// narrowest scope; only setup errors abort the run.
type Pipeline struct {
	resume       ports.ResumeParser
	source       ports.DirectorySource
	enricher     ports.ProfileEnricher
	drafter      ports.EmailDrafter
	sink         ports.ResultSink
	notifier     ports.Notifier
	universities []domain.University
	delay        time.Duration
	logger       *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		resume:       deps.Resume,
		source:       deps.Source,
		enricher:     deps.Enricher,
		drafter:      deps.Drafter,
		sink:         deps.Sink,
		notifier:     deps.Notifier,
		universities: deps.Universities,
		delay:        deps.Delay,
		logger:       deps.Logger,
	}
}

// Run executes the whole batch sequentially.
func (p *Pipeline) Run(ctx context.Context, resumePath, toAddr string) error {
	profile, err := p.resume.Parse(ctx, resumePath)
	if err != nil {
		p.log().Warn("resume extraction fell back to defaults", "error", err)
	}
	p.log().Info("resume processed", "name", profile.Name, "university", profile.University)

	table := &domain.ResultTable{}
	for _, university := range p.universities {
		if ctx.Err() != nil {
			break
		}
		p.processUniversity(ctx, university, profile, table)
	}

	path, err := p.sink.Write(table)
	if errors.Is(err, csvsink.ErrNoData) {
		p.log().Warn("no data collected; skipping report")
		return nil
	}
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	p.log().Info("generated email drafts", "count", table.Len(), "path", path)

	if p.notifier == nil {
		return nil
	}
	if err := p.notifier.SendReport(ctx, toAddr, path); err != nil {
		p.log().Error("report delivery failed; the CSV remains on disk", "path", path, "error", err)
	}
	return nil
}

func (p *Pipeline) processUniversity(ctx context.Context, university domain.University, profile domain.UserProfile, table *domain.ResultTable) {
	p.log().Info("scraping directory", "university", university.Name)

	candidates, err := p.source.Discover(ctx, university)
	if err != nil {
		p.log().Warn("directory scrape failed; continuing with next university",
			"university", university.Name, "error", err)
		return
	}
	p.log().Info("candidates found", "university", university.Name, "count", len(candidates))

	for _, cand := range candidates {
		if ctx.Err() != nil {
			return
		}

		p.log().Info("scraping profile", "professor", cand.Name)
		focus := p.enricher.ResearchFocus(ctx, cand)
		draft := p.drafter.Draft(ctx, profile, cand.Name, university.Name, focus)

		table.Append(domain.ProfessorRecord{
			University:    university.Name,
			Professor:     cand.Name,
			ProfileURL:    cand.ProfileURL,
			ResearchFocus: focus,
			EmailDraft:    draft,
		})

		p.politenessPause(ctx)
	}
}

// politenessPause sleeps after each processed professor to avoid
// overwhelming target servers and third-party API limits.
func (p *Pipeline) politenessPause(ctx context.Context) {
	if p.delay <= 0 {
		return
	}
	select {
	case <-time.After(p.delay):
	case <-ctx.Done():
	}
}

func (p *Pipeline) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.Default()
}
