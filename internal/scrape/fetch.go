package scrape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher retrieves pages with a browser-like User-Agent and bounded
// retries with exponential backoff between attempts.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxAttempts int
	backoffBase time.Duration
	logger      *slog.Logger
}

// NewFetcher wires an HTTP client; nil falls back to a 20s-timeout default.
func NewFetcher(client *http.Client, userAgent string, maxAttempts int, backoffBase time.Duration, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Fetcher{
		client:      client,
		userAgent:   userAgent,
		maxAttempts: maxAttempts,
		backoffBase: backoffBase,
		logger:      logger,
	}
}

// Get fetches the page body, retrying transient failures. Non-2xx
// responses count as failures under the same retry policy.
func (f *Fetcher) Get(ctx context.Context, pageURL string) ([]byte, error) {
	if !strings.HasPrefix(pageURL, "http://") && !strings.HasPrefix(pageURL, "https://") {
		return nil, fmt.Errorf("unsupported scheme in %s", pageURL)
	}

	var lastErr error
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		body, err := f.fetchOnce(ctx, pageURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt < f.maxAttempts {
			wait := f.backoffBase << (attempt - 1)
			f.debug("fetch failed, backing off", "url", pageURL, "attempt", attempt, "wait", wait, "error", err)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("fetch %s after %d attempts: %w", pageURL, f.maxAttempts, lastErr)
}

// Document fetches the page and parses it into a goquery document.
func (f *Fetcher) Document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	body, err := f.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse document %s: %w", pageURL, err)
	}
	return doc, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func (f *Fetcher) debug(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}
