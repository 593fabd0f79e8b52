package webpage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/trustlens/trustlens/src/webclient"
)

const (
	// DefaultTimeout is the hard per-page deadline.
	DefaultTimeout = 6 * time.Second
	// MaxBodyBytes caps how much of a page is downloaded; larger bodies are
	// truncated, not failed.
	MaxBodyBytes = 1 << 20 // 1 MiB
)

// Result is the structured outcome of one page fetch. A failed fetch is a
// value with OK=false and a Reason; this layer never raises an error upward.
type Result struct {
	OK          bool
	URL         string
	Title       string
	Description string
	Blocks      []string
	Reason      string
}

// Fetcher downloads pages and extracts their readable text.
type Fetcher struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
}

// NewFetcher builds a page fetcher with the default timeout and byte cap.
func NewFetcher() *Fetcher {
	return &Fetcher{
		httpClient: webclient.NewDefault(DefaultTimeout),
		timeout:    DefaultTimeout,
		userAgent:  "trustlens-factcheck/1.0",
	}
}

// Fetch retrieves the URL and extracts title, meta description and block-level
// text. Any failure mode (non-2xx, disallowed content type, timeout, network
// error) yields a not-ok Result with a reason string.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) Result {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return notOK(pageURL, fmt.Sprintf("bad url: %v", err))
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return notOK(pageURL, fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return notOK(pageURL, fmt.Sprintf("status %d", resp.StatusCode))
	}
	if !htmlContentType(resp.Header.Get("Content-Type")) {
		return notOK(pageURL, fmt.Sprintf("content type %q not allowed", resp.Header.Get("Content-Type")))
	}

	// Truncate, never fail, past the byte cap.
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil && len(body) == 0 {
		return notOK(pageURL, fmt.Sprintf("read failed: %v", err))
	}

	page, err := ExtractText(string(body))
	if err != nil {
		return notOK(pageURL, fmt.Sprintf("parse failed: %v", err))
	}

	return Result{
		OK:          true,
		URL:         pageURL,
		Title:       page.Title,
		Description: page.Description,
		Blocks:      page.Blocks,
	}
}

// FetchAll fetches several URLs concurrently with best-effort-settle semantics:
// a failing fetch never cancels its siblings. Results keep input order.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))
	done := make(chan int, len(urls))
	for i, u := range urls {
		go func(idx int, pageURL string) {
			results[idx] = f.Fetch(ctx, pageURL)
			done <- idx
		}(i, u)
	}
	for range urls {
		<-done
	}
	return results
}

func notOK(pageURL, reason string) Result {
	return Result{OK: false, URL: pageURL, Reason: reason}
}

func htmlContentType(ct string) bool {
	ct = strings.ToLower(ct)
	return strings.Contains(ct, "text/html") ||
		strings.Contains(ct, "application/xhtml") ||
		ct == "" // some servers omit the header; the parser copes
}
