package cascade

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeJSON parses a model response into v. Models occasionally wrap the
// JSON object in prose or code fences, so on a direct parse failure the
// outermost brace pair is retried before giving up.
func DecodeJSON(raw string, v interface{}) error {
	raw = strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON object in response")
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), v); err != nil {
		return fmt.Errorf("invalid JSON in response: %w", err)
	}
	return nil
}
