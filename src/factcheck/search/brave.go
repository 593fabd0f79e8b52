package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/trustlens/trustlens/src/webclient"
)

const defaultEndpoint = "https://api.search.brave.com/res/v1/web/search"

// Result is one ranked hit from the web search API.
type Result struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Client queries the external web search API. A missing key, HTTP error or
// empty body all behave as zero results; search failures are never fatal to
// the pipeline.
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewClient builds a search client. An empty endpoint selects the default API.
func NewClient(apiKey, endpoint string) *Client {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		apiKey:     apiKey,
		endpoint:   endpoint,
		httpClient: webclient.NewDefault(7 * time.Second),
	}
}

// Enabled reports whether search credentials are configured.
func (c *Client) Enabled() bool {
	return strings.TrimSpace(c.apiKey) != ""
}

// Search runs one query and returns up to count results.
func (c *Client) Search(ctx context.Context, query string, count int) []Result {
	if !c.Enabled() || strings.TrimSpace(query) == "" {
		return nil
	}
	if count <= 0 {
		count = 5
	}

	endpoint := c.endpoint + "?q=" + url.QueryEscape(query) + "&count=" + strconv.Itoa(count)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Printf("search: bad request for %q: %v", query, err)
		return nil
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("search: request failed for %q: %v", query, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("search: status %d for %q", resp.StatusCode, query)
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 {
		return nil
	}

	var envelope struct {
		Web struct {
			Results []Result `json:"results"`
		} `json:"web"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		log.Printf("search: decode failed for %q: %v", query, err)
		return nil
	}
	if len(envelope.Web.Results) > count {
		envelope.Web.Results = envelope.Web.Results[:count]
	}
	return envelope.Web.Results
}

// SearchVariants runs query variants sequentially, deduplicating merged results
// by URL and short-circuiting once the result budget is met.
func (c *Client) SearchVariants(ctx context.Context, queries []string, perQuery, budget int) []Result {
	if budget <= 0 {
		budget = 6
	}
	seen := map[string]bool{}
	var merged []Result
	for _, q := range queries {
		if len(merged) >= budget {
			break
		}
		for _, r := range c.Search(ctx, q, perQuery) {
			key := canonicalURL(r.URL)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, r)
			if len(merged) >= budget {
				break
			}
		}
	}
	return merged
}

func canonicalURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.TrimSpace(raw)
	}
	u.Fragment = ""
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	return fmt.Sprintf("%s%s", host, strings.TrimRight(u.Path, "/"))
}
