package logging

import "strings"

func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "rate_limit") || strings.Contains(msg, "429")
}

// IsTransient reports whether an error warrants a cascade fall-through:
// provider overload, timeouts, truncated or malformed payloads.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{
		"status 5", "429", "timeout", "deadline exceeded",
		"connection refused", "connection reset",
		"unexpected end of JSON", "invalid character",
		"empty response",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return IsRateLimit(err)
}
