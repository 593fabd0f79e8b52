package cascade

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustlens/trustlens/src/ai/core"
)

type fakeClient struct {
	model string
	reply string
	err   error
	calls int
}

func (f *fakeClient) Complete(ctx context.Context, messages []core.Message, opts core.Options) (string, core.Usage, error) {
	f.calls++
	if f.err != nil {
		return "", core.Usage{}, f.err
	}
	return f.reply, core.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}, nil
}

func (f *fakeClient) Model() string { return f.model }

func TestCompleteUsesFirstWorkingTier(t *testing.T) {
	primary := &fakeClient{model: "a", reply: "from-a"}
	secondary := &fakeClient{model: "b", reply: "from-b"}
	r := &Runner{Route: "analyze"}

	out, tier, err := r.Complete(context.Background(), "u1", nil, core.Options{}, []Tier{
		{Label: "primary", Client: primary},
		{Label: "secondary", Client: secondary},
	})
	require.NoError(t, err)
	assert.Equal(t, "from-a", out)
	assert.Equal(t, "primary", tier)
	assert.Zero(t, secondary.calls)
}

func TestCompleteFallsThroughOnTransientFailure(t *testing.T) {
	primary := &fakeClient{model: "a", err: fmt.Errorf("status 500")}
	secondary := &fakeClient{model: "b", reply: "from-b"}
	r := &Runner{Route: "verify"}

	out, tier, err := r.Complete(context.Background(), "u1", nil, core.Options{}, []Tier{
		{Label: "primary", Client: primary},
		{Label: "secondary", Client: secondary},
	})
	require.NoError(t, err)
	assert.Equal(t, "from-b", out)
	assert.Equal(t, "secondary", tier)
	assert.Equal(t, 1, primary.calls)
}

func TestCompleteAllTiersFailed(t *testing.T) {
	r := &Runner{Route: "analyze"}
	_, _, err := r.Complete(context.Background(), "u1", nil, core.Options{}, []Tier{
		{Label: "primary", Client: &fakeClient{model: "a", err: fmt.Errorf("timeout")}},
		{Label: "secondary", Client: nil},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAllTiersFailed))
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		HI float64 `json:"hi"`
	}
	require.NoError(t, DecodeJSON(`{"hi":0.25}`, &out))
	assert.Equal(t, 0.25, out.HI)

	require.NoError(t, DecodeJSON("Here you go:\n```json\n{\"hi\":0.5}\n```", &out))
	assert.Equal(t, 0.5, out.HI)

	assert.Error(t, DecodeJSON("no object here", &out))
	assert.Error(t, DecodeJSON("prefix {not json} suffix", &out))
}
