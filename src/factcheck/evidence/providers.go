package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/trustlens/trustlens/src/factcheck/types"
	"github.com/trustlens/trustlens/src/webclient"
)

// Provider returns normalized evidence items for a query. Providers degrade to
// zero results on any failure; they never abort the report.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, query, lang string) []types.EvidenceItem
}

// WikipediaProvider resolves a query against the Wikipedia REST summary API.
type WikipediaProvider struct {
	httpClient *http.Client
}

func NewWikipediaProvider() *WikipediaProvider {
	return &WikipediaProvider{httpClient: webclient.NewDefault(5 * time.Second)}
}

func (p *WikipediaProvider) Name() string { return "wikipedia" }

func (p *WikipediaProvider) Lookup(ctx context.Context, query, lang string) []types.EvidenceItem {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	if lang == "" {
		lang = "en"
	}
	title := strings.ReplaceAll(strings.TrimSpace(query), " ", "_")
	endpoint := fmt.Sprintf("https://%s.wikipedia.org/api/rest_v1/page/summary/%s",
		url.PathEscape(lang), url.PathEscape(title))

	body, ok := fetchJSON(ctx, p.httpClient, endpoint, nil)
	if !ok {
		return nil
	}
	var summary struct {
		Title   string `json:"title"`
		Extract string `json:"extract"`
		Content struct {
			Desktop struct {
				Page string `json:"page"`
			} `json:"desktop"`
		} `json:"content_urls"`
	}
	if err := json.Unmarshal(body, &summary); err != nil || summary.Extract == "" {
		return nil
	}
	pageURL := summary.Content.Desktop.Page
	if pageURL == "" {
		pageURL = fmt.Sprintf("https://%s.wikipedia.org/wiki/%s", lang, title)
	}
	return []types.EvidenceItem{{
		Title:    summary.Title,
		URL:      pageURL,
		Snippet:  truncate(summary.Extract, 300),
		Extracts: []string{truncate(summary.Extract, 900)},
	}}
}

// NewsProvider queries a news-article API (NewsAPI shape) when configured.
type NewsProvider struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewNewsProvider(apiKey, endpoint string) *NewsProvider {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = "https://newsapi.org/v2/everything"
	}
	return &NewsProvider{
		apiKey:     apiKey,
		endpoint:   endpoint,
		httpClient: webclient.NewDefault(5 * time.Second),
	}
}

func (p *NewsProvider) Name() string { return "news" }

func (p *NewsProvider) Lookup(ctx context.Context, query, lang string) []types.EvidenceItem {
	if strings.TrimSpace(p.apiKey) == "" || strings.TrimSpace(query) == "" {
		return nil
	}
	endpoint := p.endpoint + "?q=" + url.QueryEscape(query) + "&pageSize=3&sortBy=relevancy"
	body, ok := fetchJSON(ctx, p.httpClient, endpoint, map[string]string{"X-Api-Key": p.apiKey})
	if !ok {
		return nil
	}
	var envelope struct {
		Articles []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
			Content     string `json:"content"`
		} `json:"articles"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	var items []types.EvidenceItem
	for _, a := range envelope.Articles {
		if a.URL == "" {
			continue
		}
		item := types.EvidenceItem{
			Title:   a.Title,
			URL:     a.URL,
			Snippet: truncate(a.Description, 300),
		}
		if a.Content != "" {
			item.Extracts = []string{truncate(a.Content, 900)}
		}
		items = append(items, item)
		if len(items) >= 2 {
			break
		}
	}
	return items
}

// PapersProvider queries the Crossref works API for academic references.
type PapersProvider struct {
	endpoint   string
	httpClient *http.Client
}

func NewPapersProvider(endpoint string) *PapersProvider {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = "https://api.crossref.org/works"
	}
	return &PapersProvider{
		endpoint:   endpoint,
		httpClient: webclient.NewDefault(5 * time.Second),
	}
}

func (p *PapersProvider) Name() string { return "papers" }

func (p *PapersProvider) Lookup(ctx context.Context, query, lang string) []types.EvidenceItem {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	endpoint := p.endpoint + "?rows=2&query=" + url.QueryEscape(query)
	body, ok := fetchJSON(ctx, p.httpClient, endpoint, nil)
	if !ok {
		return nil
	}
	var envelope struct {
		Message struct {
			Items []struct {
				Title    []string `json:"title"`
				URL      string   `json:"URL"`
				Abstract string   `json:"abstract"`
			} `json:"items"`
		} `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	var items []types.EvidenceItem
	for _, it := range envelope.Message.Items {
		if it.URL == "" || len(it.Title) == 0 {
			continue
		}
		item := types.EvidenceItem{Title: it.Title[0], URL: it.URL}
		if it.Abstract != "" {
			item.Extracts = []string{truncate(stripTags(it.Abstract), 900)}
		}
		items = append(items, item)
	}
	return items
}

func fetchJSON(ctx context.Context, client *http.Client, endpoint string, headers map[string]string) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Printf("evidence: provider request failed: %v", err)
		return nil, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, false
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 {
		return nil, false
	}
	return body, true
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// stripTags removes the JATS markup Crossref abstracts arrive in.
func stripTags(s string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}
