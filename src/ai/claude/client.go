package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/trustlens/trustlens/src/ai/core"
	"github.com/trustlens/trustlens/src/webclient"
)

const (
	messagesEndpoint = "https://api.anthropic.com/v1/messages"
	defaultMaxTokens = 2000
)

func init() {
	core.RegisterProvider("claude", newClient, "anthropic")
}

type client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	defaults   core.Options
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.ClaudeKey == "" {
		return nil, fmt.Errorf("claude: API key not configured")
	}
	endpoint := cfg.Extra["claude_endpoint"]
	if endpoint == "" {
		endpoint = messagesEndpoint
	}
	return &client{
		apiKey:     cfg.ClaudeKey,
		endpoint:   endpoint,
		httpClient: webclient.NewDefault(90 * time.Second),
		defaults: core.Options{
			Model:               valueOrDefault(cfg.Model, "claude-3-5-haiku-latest"),
			Temperature:         orFloat(cfg.Temperature, 0.2),
			MaxCompletionTokens: orInt(cfg.MaxCompletionTokens, defaultMaxTokens),
			SystemPrompt:        cfg.SystemPrompt,
		},
	}, nil
}

func (c *client) Model() string { return c.defaults.Model }

func (c *client) Complete(ctx context.Context, messages []core.Message, opts core.Options) (string, core.Usage, error) {
	merged := c.merge(opts)

	userMessages := make([]map[string]string, 0, len(messages))
	for _, m := range messages {
		role := m.Role
		if role != "assistant" {
			role = "user"
		}
		userMessages = append(userMessages, map[string]string{"role": role, "content": m.Content})
	}

	system := merged.SystemPrompt
	if merged.JSONResponse {
		// The messages API has no response_format knob; instruct instead.
		system = strings.TrimSpace(system + "\nRespond ONLY with a single valid JSON object, no prose.")
	}

	payload := map[string]interface{}{
		"model":       merged.Model,
		"max_tokens":  merged.MaxCompletionTokens,
		"temperature": merged.Temperature,
		"messages":    userMessages,
	}
	if system != "" {
		payload["system"] = system
	}
	bodyBytes, _ := json.Marshal(payload)

	_, body, err := webclient.DoWithRetry(ctx, 3, 2*time.Second, func() (int, []byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(bodyBytes))
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", "2023-06-01")
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
		return "", core.Usage{}, fmt.Errorf("claude API error: %w", err)
	}

	var result struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
		Usage struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", core.Usage{}, err
	}
	if len(result.Content) == 0 {
		return "", core.Usage{}, fmt.Errorf("claude: empty response")
	}
	usage := core.Usage{
		PromptTokens:     result.Usage.InputTokens,
		CompletionTokens: result.Usage.OutputTokens,
		TotalTokens:      result.Usage.InputTokens + result.Usage.OutputTokens,
	}
	return result.Content[0].Text, usage, nil
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
