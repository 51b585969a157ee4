package drafter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"ResearchOutreach/internal/domain"
	"ResearchOutreach/internal/ports"
)

// DraftPlaceholder is substituted whenever drafting fails, so the run
// never aborts on a bad draft.
const DraftPlaceholder = "Error generating email draft"

const (
	focusCharLimit = 100
	topSkillCount  = 3
)

const letterTemplate = `Dear Professor {{.Professor}},

I hope this message finds you well. My name is {{.Name}}, and I am a {{.Major}} student at {{.University}}. I am reaching out because I am particularly interested in your research on {{.ResearchFocus}}.

My technical background includes experience with {{.Skills}}, and I am eager to apply these skills to research problems in your area of expertise. I am especially interested in understanding how these technologies can be applied to advance your current research projects.

Would you be available for a brief meeting to discuss potential research opportunities in your lab? I would greatly appreciate the chance to learn more about your work and explore ways I might contribute to your research goals.

Thank you for your time and consideration.

Best regards,
{{.Name}}
{{.University}} | {{.Major}}
`

const draftSystemPrompt = "You write short, polite outreach emails from a student to a professor about research opportunities. " +
	"Open politely, cite 1-2 specific aspects of the professor's research, connect the student's listed skills to that research, " +
	"request a brief meeting, and close with the student's contact info. Keep the whole email under 200 words. " +
	"Return only the email body."

// TemplateDrafter renders the fixed multi-paragraph outreach letter.
type TemplateDrafter struct {
	tmpl   *template.Template
	logger *slog.Logger
}

var _ ports.EmailDrafter = (*TemplateDrafter)(nil)

// NewTemplateDrafter parses the letter template once.
func NewTemplateDrafter(logger *slog.Logger) *TemplateDrafter {
	return &TemplateDrafter{
		tmpl:   template.Must(template.New("letter").Parse(letterTemplate)),
		logger: logger,
	}
}

// Draft interpolates the user profile and research focus into the letter.
func (d *TemplateDrafter) Draft(_ context.Context, profile domain.UserProfile, professor, university, researchFocus string) string {
	data := struct {
		Professor     string
		Name          string
		University    string
		Major         string
		Skills        string
		ResearchFocus string
	}{
		Professor:     professor,
		Name:          profile.Name,
		University:    profile.University,
		Major:         profile.Major,
		Skills:        strings.Join(profile.TopSkills(topSkillCount), ", "),
		ResearchFocus: truncateFocus(researchFocus, focusCharLimit),
	}

	var out strings.Builder
	if err := d.tmpl.Execute(&out, data); err != nil {
		if d.logger != nil {
			d.logger.Warn("template draft failed", "professor", professor, "error", err)
		}
		return DraftPlaceholder
	}
	return out.String()
}

// GeneratedDrafter delegates the whole letter to the text generator.
type GeneratedDrafter struct {
	generator   ports.TextGenerator
	temperature float64
	logger      *slog.Logger
}

var _ ports.EmailDrafter = (*GeneratedDrafter)(nil)

// NewGeneratedDrafter wires the generation backend.
func NewGeneratedDrafter(generator ports.TextGenerator, temperature float64, logger *slog.Logger) *GeneratedDrafter {
	return &GeneratedDrafter{generator: generator, temperature: temperature, logger: logger}
}

// Draft asks the generator for the full email body; any error resolves
// to the visible placeholder.
func (d *GeneratedDrafter) Draft(ctx context.Context, profile domain.UserProfile, professor, university, researchFocus string) string {
	if d.generator == nil {
		return DraftPlaceholder
	}

	prompt := fmt.Sprintf(
		"Student name: %s\nStudent university: %s\nStudent major: %s\nStudent skills: %s\n\nProfessor: %s\nProfessor university: %s\nResearch focus: %s",
		profile.Name,
		profile.University,
		profile.Major,
		strings.Join(profile.TopSkills(topSkillCount), ", "),
		professor,
		university,
		researchFocus,
	)

	draft, err := d.generator.Generate(ctx, draftSystemPrompt, prompt, d.temperature)
	if err != nil {
		if d.logger != nil {
			d.logger.Warn("generated draft failed", "professor", professor, "error", err)
		}
		return DraftPlaceholder
	}
	return strings.TrimSpace(draft)
}

// truncateFocus trims the focus text and cuts it at a word boundary with
// an ellipsis when it exceeds the limit.
func truncateFocus(focus string, limit int) string {
	focus = strings.TrimSpace(focus)
	if len(focus) <= limit {
		return focus
	}

	cut := focus[:limit]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}
