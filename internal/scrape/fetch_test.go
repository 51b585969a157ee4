package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetcherRetriesUntilSuccess(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	f := NewFetcher(server.Client(), "test-agent", 3, time.Millisecond, nil)

	body, err := f.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !strings.Contains(string(body), "ok") {
		t.Fatalf("unexpected body: %s", body)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestFetcherGivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	f := NewFetcher(server.Client(), "test-agent", 3, time.Millisecond, nil)

	if _, err := f.Get(context.Background(), server.URL); err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestFetcherSetsUserAgent(t *testing.T) {
	t.Parallel()

	var agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	f := NewFetcher(server.Client(), "Mozilla/5.0 test", 1, 0, nil)
	if _, err := f.Get(context.Background(), server.URL); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if agent != "Mozilla/5.0 test" {
		t.Fatalf("unexpected user agent: %s", agent)
	}
}

func TestFetcherRejectsNonHTTPSchemes(t *testing.T) {
	t.Parallel()

	f := NewFetcher(nil, "", 1, 0, nil)
	if _, err := f.Get(context.Background(), "ftp://example.org/list"); err == nil {
		t.Fatal("expected error for non-http scheme")
	}
}

func TestDocumentParsesFetchedPage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><h1>Faculty</h1></body></html>`))
	}))
	defer server.Close()

	f := NewFetcher(server.Client(), "", 1, 0, nil)
	doc, err := f.Document(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Document returned error: %v", err)
	}
	if got := doc.Find("h1").Text(); got != "Faculty" {
		t.Fatalf("unexpected heading: %s", got)
	}
}
