package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/trustlens/trustlens/src/ai/core"
	"github.com/trustlens/trustlens/src/webclient"
)

const chatEndpoint = "https://api.openai.com/v1/chat/completions"

func init() {
	core.RegisterProvider("openai", newClient, "gpt")
}

type client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	defaults   core.Options
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("openai: API key not configured")
	}
	endpoint := cfg.Extra["openai_endpoint"]
	if endpoint == "" {
		endpoint = chatEndpoint
	}
	return &client{
		apiKey:     cfg.OpenAIKey,
		endpoint:   endpoint,
		httpClient: webclient.NewDefault(90 * time.Second),
		defaults: core.Options{
			Model:               valueOrDefault(cfg.Model, "gpt-4o-mini"),
			Temperature:         orFloat(cfg.Temperature, 0.2),
			MaxCompletionTokens: orInt(cfg.MaxCompletionTokens, 2000),
			SystemPrompt:        cfg.SystemPrompt,
		},
	}, nil
}

func (c *client) Model() string { return c.defaults.Model }

func (c *client) Complete(ctx context.Context, messages []core.Message, opts core.Options) (string, core.Usage, error) {
	merged := c.merge(opts)

	payload := map[string]interface{}{
		"model":       merged.Model,
		"messages":    buildMessages(merged.SystemPrompt, messages),
		"temperature": merged.Temperature,
		"max_tokens":  merged.MaxCompletionTokens,
	}
	if merged.JSONResponse {
		payload["response_format"] = map[string]string{"type": "json_object"}
	}
	bodyBytes, _ := json.Marshal(payload)

	_, body, err := webclient.DoWithRetry(ctx, 3, 2*time.Second, func() (int, []byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(bodyBytes))
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return 0, nil, err
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp.StatusCode, nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return resp.StatusCode, b, fmt.Errorf("status %d", resp.StatusCode)
		}
		return resp.StatusCode, b, nil
	})
	if err != nil {
		return "", core.Usage{}, fmt.Errorf("openai API error: %w", err)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", core.Usage{}, err
	}
	if len(result.Choices) == 0 {
		return "", core.Usage{}, fmt.Errorf("openai: empty response")
	}
	usage := core.Usage{
		PromptTokens:     result.Usage.PromptTokens,
		CompletionTokens: result.Usage.CompletionTokens,
		TotalTokens:      result.Usage.TotalTokens,
	}
	return result.Choices[0].Message.Content, usage, nil
}

func (c *client) merge(opts core.Options) core.Options {
	out := c.defaults
	if opts.Model != "" {
		out.Model = opts.Model
	}
	if opts.Temperature != 0 {
		out.Temperature = opts.Temperature
	}
	if opts.MaxCompletionTokens != 0 {
		out.MaxCompletionTokens = opts.MaxCompletionTokens
	}
	if opts.SystemPrompt != "" {
		out.SystemPrompt = opts.SystemPrompt
	}
	out.JSONResponse = opts.JSONResponse
	return out
}

func buildMessages(systemPrompt string, messages []core.Message) []map[string]string {
	out := make([]map[string]string, 0, len(messages)+1)
	if systemPrompt != "" {
		out = append(out, map[string]string{"role": "system", "content": systemPrompt})
	}
	for _, m := range messages {
		out = append(out, map[string]string{"role": m.Role, "content": m.Content})
	}
	return out
}

func valueOrDefault(val, def string) string {
	if val != "" {
		return val
	}
	return def
}

func orInt(v, d int) int {
	if v != 0 {
		return v
	}
	return d
}

func orFloat(v, d float64) float64 {
	if v != 0 {
		return v
	}
	return d
}
