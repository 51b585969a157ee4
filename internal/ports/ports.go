package ports

import (
	"context"

	"ResearchOutreach/internal/domain"
)

// ResumeParser turns a resume file into a user profile. On failure it
// returns a usable fallback profile alongside the error so the run can
// continue with sentinel fields.
type ResumeParser interface {
	Parse(ctx context.Context, path string) (domain.UserProfile, error)
}

// DirectorySource extracts professor candidates from a faculty directory.
type DirectorySource interface {
	Discover(ctx context.Context, u domain.University) ([]domain.ProfessorCandidate, error)
}

// ProfileEnricher derives a research-focus description for a candidate.
// It is total: failures resolve to a sentinel description.
type ProfileEnricher interface {
	ResearchFocus(ctx context.Context, cand domain.ProfessorCandidate) string
}

// EmailDrafter renders an outreach email body. It is total: failures
// resolve to a visible placeholder string.
type EmailDrafter interface {
	Draft(ctx context.Context, profile domain.UserProfile, professor, university, researchFocus string) string
}

// TextGenerator abstracts a chat-completion backend used as fallback
// when deterministic extraction yields nothing.
type TextGenerator interface {
	Generate(ctx context.Context, system, user string, temperature float64) (string, error)
}

// ResultSink serializes the accumulated table and returns the file path.
type ResultSink interface {
	Write(table *domain.ResultTable) (string, error)
}

// Notifier delivers the produced report file to the user.
type Notifier interface {
	SendReport(ctx context.Context, to, attachmentPath string) error
}
