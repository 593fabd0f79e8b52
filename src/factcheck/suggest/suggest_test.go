package suggest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustlens/trustlens/src/ai/core"
	"github.com/trustlens/trustlens/src/factcheck/cascade"
)

type fakeClient struct {
	reply string
	err   error
}

func (f *fakeClient) Complete(ctx context.Context, messages []core.Message, opts core.Options) (string, core.Usage, error) {
	if f.err != nil {
		return "", core.Usage{}, f.err
	}
	return f.reply, core.Usage{TotalTokens: 8}, nil
}

func (f *fakeClient) Model() string { return "fake" }

func TestSuggestQueries(t *testing.T) {
	s := New(&cascade.Runner{}, &fakeClient{reply: `{"queries":["eiffel tower height","eiffel tower wikipedia","", "q3","q4","q5","q6"]}`})
	got, err := s.SuggestQueries(context.Background(), "u1", "The Eiffel Tower is 330m tall.", "en", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"eiffel tower height", "eiffel tower wikipedia", "q3", "q4", "q5"}, got)
}

func TestSuggestQueriesRespectsMax(t *testing.T) {
	s := New(&cascade.Runner{}, &fakeClient{reply: `{"queries":["a","b","c"]}`})
	got, err := s.SuggestQueries(context.Background(), "u1", "claim", "en", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestSuggestQueriesErrorIsReturned(t *testing.T) {
	s := New(&cascade.Runner{}, &fakeClient{err: fmt.Errorf("status 500")})
	_, err := s.SuggestQueries(context.Background(), "u1", "claim", "en", 3)
	assert.Error(t, err)
}

func TestNewLeavesCallerRunnerUntouched(t *testing.T) {
	shared := &cascade.Runner{Route: "analyze"}
	New(shared, &fakeClient{reply: `{"queries":[]}`})
	assert.Equal(t, "analyze", shared.Route)
}
