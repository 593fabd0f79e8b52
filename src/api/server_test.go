package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustlens/trustlens/src/budget"
	"github.com/trustlens/trustlens/src/config"
	"github.com/trustlens/trustlens/src/factcheck/report"
	"github.com/trustlens/trustlens/src/factcheck/types"
)

type fakeReporter struct {
	rep  types.ReliabilityReport
	err  error
	last report.Request
}

func (f *fakeReporter) Generate(ctx context.Context, req report.Request) (types.ReliabilityReport, error) {
	f.last = req
	return f.rep, f.err
}

func testConfig() config.Config {
	return config.Config{CORSOrigins: []string{"*"}}
}

func TestHealthz(t *testing.T) {
	srv := New(testConfig(), &fakeReporter{})
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVerifyReturnsReport(t *testing.T) {
	score := 90
	rep := &fakeReporter{rep: types.ReliabilityReport{ReliabilityScore: &score, Recommendation: "High reliability"}}
	srv := New(testConfig(), rep)

	body := `{"text":"Paris is the capital of France.","evidenceCheck":true,"lang":"en"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/verify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "High reliability")
	assert.Equal(t, "anonymous", rep.last.UserID)
	assert.True(t, rep.last.EvidenceCheck)
}

func TestVerifyRejectsEmptyBody(t *testing.T) {
	srv := New(testConfig(), &fakeReporter{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/verify", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	srv.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyBudgetExhaustionIs402(t *testing.T) {
	rep := &fakeReporter{err: fmt.Errorf("report: %w", budget.ErrInsufficientCredit)}
	srv := New(testConfig(), rep)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/verify", strings.NewReader(`{"text":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.ServeHTTP(w, req)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestJWTRequiredWhenSecretConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = "topsecret"
	rep := &fakeReporter{}
	srv := New(cfg, rep)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/verify", strings.NewReader(`{"text":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("topsecret"))
	require.NoError(t, err)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/v1/verify", strings.NewReader(`{"text":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	srv.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-42", rep.last.UserID)
}
