package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ResearchOutreach/internal/domain"
	"ResearchOutreach/internal/ports"
)

var excludedLinkExprs = []*regexp.Regexp{
	regexp.MustCompile(`/directory/?$`),
	regexp.MustCompile(`/faculty/?$`),
	regexp.MustCompile(`/staff/?$`),
	regexp.MustCompile(`404`),
	regexp.MustCompile(`not[-\s]found`),
}

var titleKeywords = []string{
	"professor",
	"faculty",
	"assistant",
	"associate",
	"lecturer",
	"researcher",
	"ph.d",
}

// Scraper extracts professor candidates from faculty directory pages,
// trying the domain rule table first and falling back to a generic link
// scan when no rule matches or a rule yields nothing.
type Scraper struct {
	fetcher  *Fetcher
	registry *Registry
	lenient  bool
	logger   *slog.Logger
}

var _ ports.DirectorySource = (*Scraper)(nil)

// NewScraper wires the fetcher and the rule registry.
func NewScraper(fetcher *Fetcher, registry *Registry, lenient bool, logger *slog.Logger) *Scraper {
	return &Scraper{
		fetcher:  fetcher,
		registry: registry,
		lenient:  lenient,
		logger:   logger,
	}
}

// Discover fetches the directory page and returns deduplicated candidates
// in discovery order. A fetch failure returns an error so the caller can
// skip the university and continue the run.
func (s *Scraper) Discover(ctx context.Context, u domain.University) ([]domain.ProfessorCandidate, error) {
	doc, err := s.fetcher.Document(ctx, u.DirectoryURL)
	if err != nil {
		return nil, fmt.Errorf("directory %s: %w", u.Name, err)
	}

	base, err := url.Parse(u.DirectoryURL)
	if err != nil {
		return nil, fmt.Errorf("directory %s: invalid url: %w", u.Name, err)
	}

	var candidates []domain.ProfessorCandidate
	if rule, ok := s.registry.Resolve(u.DirectoryURL); ok {
		candidates = s.applyRule(doc, base, rule)
		s.debug("rule scan", "university", u.Name, "host", rule.HostContains, "candidates", len(candidates))
	}

	if len(candidates) == 0 {
		candidates = s.genericScan(doc, base)
		s.debug("generic scan", "university", u.Name, "candidates", len(candidates))
	}

	return candidates, nil
}

func (s *Scraper) applyRule(doc *goquery.Document, base *url.URL, rule Rule) []domain.ProfessorCandidate {
	collector := newCandidateSet()

	doc.Find(rule.ContainerSelector).Each(func(_ int, card *goquery.Selection) {
		name := strings.TrimSpace(card.Find(rule.NameSelector).First().Text())
		href, exists := card.Find(rule.LinkSelector).First().Attr("href")
		if !exists {
			return
		}

		link := resolveURL(base, href)
		if s.validCandidate(name, link) {
			collector.add(name, link)
		}
	})

	return collector.candidates
}

func (s *Scraper) genericScan(doc *goquery.Document, base *url.URL) []domain.ProfessorCandidate {
	collector := newCandidateSet()

	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		name := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		resolved := resolveURL(base, href)
		if s.validCandidate(name, resolved) {
			collector.add(name, resolved)
		}
	})

	return collector.candidates
}

// validCandidate applies the exclusion patterns and, unless lenient mode
// is configured, requires an academic title keyword in the link text.
func (s *Scraper) validCandidate(name, link string) bool {
	if name == "" || link == "" {
		return false
	}

	lowerLink := strings.ToLower(link)
	for _, expr := range excludedLinkExprs {
		if expr.MatchString(lowerLink) {
			return false
		}
	}

	if s.lenient {
		return true
	}

	lowerName := strings.ToLower(name)
	for _, keyword := range titleKeywords {
		if strings.Contains(lowerName, keyword) {
			return true
		}
	}
	return false
}

func (s *Scraper) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// candidateSet keeps discovery order while deduplicating on (name, url).
type candidateSet struct {
	seen       map[string]struct{}
	candidates []domain.ProfessorCandidate
}

func newCandidateSet() *candidateSet {
	return &candidateSet{seen: map[string]struct{}{}}
}

func (c *candidateSet) add(name, link string) {
	key := name + "\n" + link
	if _, ok := c.seen[key]; ok {
		return
	}
	c.seen[key] = struct{}{}
	c.candidates = append(c.candidates, domain.ProfessorCandidate{Name: name, ProfileURL: link})
}
