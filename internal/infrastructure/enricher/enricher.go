package enricher

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"ResearchOutreach/internal/domain"
	"ResearchOutreach/internal/ports"
	"ResearchOutreach/internal/scrape"
)

// FocusSentinel is returned whenever no research focus can be derived.
const FocusSentinel = "Computer Science Research"

const focusSystemPrompt = "Extract the main research areas and interests from this professor's webpage. " +
	"Return 2-3 specific research areas, semicolon-separated if multiple, in under 100 words. " +
	"If none are explicitly stated, identify the likely research focus based on the content."

var (
	researchKeywords = []string{"research", "interests", "areas", "expertise"}
	whitespaceExpr   = regexp.MustCompile(`\s+`)
)

// Enricher derives a research-focus description from a professor's
// profile page: a heading-anchored heuristic pass first, then a
// class-attribute pass, then delegation to the text generator over the
// boilerplate-stripped page text. It is total; every failure resolves
// to FocusSentinel.
type Enricher struct {
	fetcher      *scrape.Fetcher
	generator    ports.TextGenerator
	prefixBudget int
	temperature  float64
	cache        map[string]string
	logger       *slog.Logger
}

var _ ports.ProfileEnricher = (*Enricher)(nil)

// NewEnricher wires the fetcher and the generation fallback.
func NewEnricher(fetcher *scrape.Fetcher, generator ports.TextGenerator, prefixBudget int, temperature float64, logger *slog.Logger) *Enricher {
	if prefixBudget <= 0 {
		prefixBudget = 5000
	}
	return &Enricher{
		fetcher:      fetcher,
		generator:    generator,
		prefixBudget: prefixBudget,
		temperature:  temperature,
		cache:        map[string]string{},
		logger:       logger,
	}
}

// ResearchFocus fetches the profile page and derives the focus text.
func (e *Enricher) ResearchFocus(ctx context.Context, cand domain.ProfessorCandidate) string {
	if focus, ok := e.cache[cand.ProfileURL]; ok {
		return focus
	}

	focus := e.derive(ctx, cand)
	e.cache[cand.ProfileURL] = focus
	return focus
}

func (e *Enricher) derive(ctx context.Context, cand domain.ProfessorCandidate) string {
	body, err := e.fetcher.Get(ctx, cand.ProfileURL)
	if err != nil {
		e.warn("profile fetch failed", "url", cand.ProfileURL, "error", err)
		return FocusSentinel
	}

	html := string(body)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		e.warn("profile parse failed", "url", cand.ProfileURL, "error", err)
		return FocusSentinel
	}

	if focus := headingPass(doc); focus != "" {
		return focus
	}
	if focus := classPass(doc); focus != "" {
		return focus
	}

	if focus := e.generatePass(ctx, cand, html); focus != "" {
		return focus
	}
	return FocusSentinel
}

// headingPass looks for research-related keywords in section headings and
// takes the immediately following sibling block's text.
func headingPass(doc *goquery.Document) string {
	var focus string
	doc.Find("h2, h3, h4").EachWithBreak(func(_ int, header *goquery.Selection) bool {
		headerText := strings.ToLower(header.Text())
		for _, keyword := range researchKeywords {
			if !strings.Contains(headerText, keyword) {
				continue
			}
			sibling := header.NextAllFiltered("p, div, ul").First()
			if text := cleanText(sibling.Text()); text != "" {
				focus = text
				return false
			}
		}
		return true
	})
	return focus
}

// classPass looks for an element whose class attribute names a research
// keyword, the original's second chance before delegating.
func classPass(doc *goquery.Document) string {
	for _, keyword := range researchKeywords {
		section := doc.Find("[class*='" + keyword + "']").First()
		if text := cleanText(section.Text()); text != "" {
			return text
		}
	}
	return ""
}

func (e *Enricher) generatePass(ctx context.Context, cand domain.ProfessorCandidate, html string) string {
	if e.generator == nil {
		return ""
	}

	text := e.strippedText(cand.ProfileURL, html)
	if text == "" {
		return ""
	}
	if len(text) > e.prefixBudget {
		text = text[:e.prefixBudget]
	}

	prompt := "Professor: " + cand.Name + "\n\nWebpage text:\n" + text
	focus, err := e.generator.Generate(ctx, focusSystemPrompt, prompt, e.temperature)
	if err != nil {
		e.warn("focus generation failed", "url", cand.ProfileURL, "error", err)
		return ""
	}
	return cleanText(focus)
}

// strippedText removes scripts, styles, navigation and other boilerplate
// via readability before handing text to the generator. When readability
// rejects the page, fall back to the raw document text.
func (e *Enricher) strippedText(pageURL, html string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}

	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(html), parsed)
	if err == nil {
		if text := cleanText(article.TextContent); text != "" {
			return text
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style, nav, header, footer").Remove()
	return cleanText(doc.Text())
}

func cleanText(text string) string {
	return strings.TrimSpace(whitespaceExpr.ReplaceAllString(text, " "))
}

func (e *Enricher) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
