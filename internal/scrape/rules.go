package scrape

import (
	"net/url"
	"strings"

	"ResearchOutreach/internal/config"
)

// Rule describes how to lift faculty cards out of a known directory layout.
type Rule struct {
	HostContains      string
	ContainerSelector string
	NameSelector      string
	LinkSelector      string
}

// Registry resolves the extraction rule for a directory URL. Rules are
// matched in registration order against the URL host, so more specific
// entries should come first.
type Registry struct {
	rules []Rule
}

// NewRegistry builds a registry from configured rules.
func NewRegistry(rules []config.RuleConfig) *Registry {
	converted := make([]Rule, 0, len(rules))
	for _, r := range rules {
		converted = append(converted, Rule{
			HostContains:      r.HostContains,
			ContainerSelector: r.ContainerSelector,
			NameSelector:      r.NameSelector,
			LinkSelector:      r.LinkSelector,
		})
	}
	return &Registry{rules: converted}
}

// Resolve returns the first rule whose host substring matches the URL.
func (r *Registry) Resolve(pageURL string) (Rule, bool) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return Rule{}, false
	}

	host := strings.ToLower(parsed.Host)
	for _, rule := range r.rules {
		if rule.HostContains == "" {
			continue
		}
		if strings.Contains(host, strings.ToLower(rule.HostContains)) {
			return rule, true
		}
	}
	return Rule{}, false
}
