// Package providers aggregates provider registrations. Importing it for side
// effects makes every bundled model client available to core.NewClient.
package providers

import (
	_ "github.com/trustlens/trustlens/src/ai/claude"
	_ "github.com/trustlens/trustlens/src/ai/openai"
)
