package logging

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRateLimit(t *testing.T) {
	assert.True(t, IsRateLimit(errors.New("openai API error: status 429")))
	assert.True(t, IsRateLimit(fmt.Errorf("wrapped: %w", errors.New("rate_limit_exceeded"))))
	assert.False(t, IsRateLimit(errors.New("status 400")))
	assert.False(t, IsRateLimit(nil))
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(errors.New("claude API error: status 503")))
	assert.True(t, IsTransient(errors.New("context deadline exceeded")))
	assert.True(t, IsTransient(errors.New("unexpected end of JSON input")))
	assert.True(t, IsTransient(errors.New("status 429")))
	assert.False(t, IsTransient(errors.New("invalid api key")))
	assert.False(t, IsTransient(nil))
}
