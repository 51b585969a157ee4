package resume

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"ResearchOutreach/internal/domain"
	"ResearchOutreach/internal/ports"
)

const (
	// Sentinels keep the pipeline total when derivation finds nothing.
	UnknownName       = "Unknown Name"
	UnknownUniversity = "Unknown University"
	DefaultMajor      = "Computer Science"
)

var (
	namePattern  = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+(?:[A-Z]\.?|[A-Z][a-z]+\.?))+$`)
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	gradPattern  = regexp.MustCompile(`(?i)(?:graduat\w*|class of|expected)\D*(20\d{2})`)
	skillSplit   = regexp.MustCompile(`[,|•]`)

	universityKeywords = []string{"University", "College", "Institute", "Tech"}
	degreeKeywords     = []string{"B.S.", "B.A.", "M.S.", "M.A.", "Ph.D.", "Bachelor", "Master", "Major"}
	skillLabels        = []string{
		"Languages:",
		"Developer Tools:",
		"Software/Frameworks:",
		"Technical Skills:",
		"Technologies:",
		"Skills:",
	}
	fallbackSkills = []string{"Programming", "Data Structures", "Algorithms"}
)

// Extractor parses a resume PDF and derives structured profile fields
// with regex heuristics; it never fails the run, returning a sentinel
// profile when the file is unreadable or yields no text.
type Extractor struct {
	logger *slog.Logger
}

var _ ports.ResumeParser = (*Extractor)(nil)

// NewExtractor builds a resume parser.
func NewExtractor(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Parse extracts concatenated page text from the PDF and derives the
// profile. On failure it returns the fallback profile alongside the error.
func (e *Extractor) Parse(ctx context.Context, path string) (domain.UserProfile, error) {
	text, err := extractText(path)
	if err != nil {
		return FallbackProfile(), fmt.Errorf("read resume %s: %w", path, err)
	}
	if strings.TrimSpace(text) == "" {
		return FallbackProfile(), fmt.Errorf("resume %s has no extractable text layer", path)
	}

	profile := DeriveProfile(text)
	if e.logger != nil {
		e.logger.Debug("resume parsed",
			"name", profile.Name,
			"university", profile.University,
			"skills", len(profile.Skills))
	}
	return profile, nil
}

// FallbackProfile returns the documented sentinel profile.
func FallbackProfile() domain.UserProfile {
	return domain.UserProfile{
		Name:       UnknownName,
		University: UnknownUniversity,
		Major:      DefaultMajor,
		Skills:     append([]string(nil), fallbackSkills...),
	}
}

// DeriveProfile applies the line-based heuristics to raw resume text.
func DeriveProfile(text string) domain.UserProfile {
	lines := splitLines(text)

	profile := domain.UserProfile{
		Name:       deriveName(lines),
		University: deriveUniversity(lines),
		Major:      deriveMajor(lines),
		Skills:     deriveSkills(lines),
		ResumeText: text,
	}

	if m := emailPattern.FindString(text); m != "" {
		profile.Email = m
	}
	if m := gradPattern.FindStringSubmatch(text); m != nil {
		profile.GraduationYear = m[1]
	}

	if profile.Name == "" {
		profile.Name = UnknownName
	}
	if profile.University == "" {
		profile.University = UnknownUniversity
	}
	if profile.Major == "" {
		profile.Major = DefaultMajor
	}
	if len(profile.Skills) == 0 {
		profile.Skills = append([]string(nil), fallbackSkills...)
	}

	return profile
}

func extractText(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	return text.String(), nil
}

// deriveName takes the first line matching the capitalized multi-word
// pattern, or the first non-blank line when nothing matches.
func deriveName(lines []string) string {
	for _, line := range lines {
		if namePattern.MatchString(line) {
			return line
		}
	}
	if len(lines) > 0 {
		return lines[0]
	}
	return ""
}

// deriveUniversity returns the comma segment of the first line carrying
// a university keyword, so "Virginia Tech, B.S. Computer Science" yields
// just "Virginia Tech".
func deriveUniversity(lines []string) string {
	for _, line := range lines {
		if segment := keywordSegment(line, universityKeywords); segment != "" {
			return segment
		}
	}
	return ""
}

func deriveMajor(lines []string) string {
	for _, line := range lines {
		if segment := keywordSegment(line, degreeKeywords); segment != "" {
			return segment
		}
	}
	return ""
}

// deriveSkills unions comma/pipe/bullet-separated tokens following the
// labeled skill lines, deduplicated with case preserved as written.
func deriveSkills(lines []string) []string {
	seen := map[string]struct{}{}
	var skills []string

	for _, line := range lines {
		rest, ok := skillRemainder(line)
		if !ok {
			continue
		}
		for _, token := range skillSplit.Split(rest, -1) {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			key := strings.ToLower(token)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			skills = append(skills, token)
		}
	}

	return skills
}

func skillRemainder(line string) (string, bool) {
	lower := strings.ToLower(line)
	for _, label := range skillLabels {
		idx := strings.Index(lower, strings.ToLower(label))
		if idx < 0 {
			continue
		}
		return line[idx+len(label):], true
	}
	return "", false
}

func keywordSegment(line string, keywords []string) string {
	for _, segment := range strings.Split(line, ",") {
		segment = strings.TrimSpace(segment)
		for _, keyword := range keywords {
			if strings.Contains(segment, keyword) {
				return segment
			}
		}
	}
	return ""
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
