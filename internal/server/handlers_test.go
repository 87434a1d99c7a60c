package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/divvy/internal/app"
	"github.com/bobmcallan/divvy/internal/common"
	"github.com/bobmcallan/divvy/internal/models"
	"github.com/bobmcallan/divvy/internal/services/screener"
)

type stubScreener struct {
	snapshot    *models.StockSnapshot
	snapshotErr error
	lastTicker  string
	lastMode    string
}

func (s *stubScreener) FetchSnapshot(_ context.Context, ticker string) (*models.StockSnapshot, error) {
	s.lastTicker = ticker
	if s.snapshotErr != nil {
		return nil, s.snapshotErr
	}
	return s.snapshot, nil
}

func (s *stubScreener) Analyze(_ context.Context, snapshot *models.StockSnapshot, mode string) *models.AnalysisResult {
	s.lastMode = mode
	return &models.AnalysisResult{
		ID:             "test-analysis",
		Ticker:         snapshot.Ticker,
		Mode:           mode,
		QualityOK:      true,
		Recommendation: models.RecommendationBuy,
		Zone:           screener.ZoneBuy,
	}
}

func (s *stubScreener) ResolveCriteria(currency, mode string) models.RegionalCriteria {
	return screener.ResolveCriteria(currency, mode)
}

func newTestServer(stub *stubScreener) *Server {
	a := &app.App{
		Config:   common.NewDefaultConfig(),
		Logger:   common.NewSilentLogger(),
		Screener: stub,
	}
	return NewServer(a)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&stubScreener{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["version"])
}

func TestHandleHealthMethodNotAllowed(t *testing.T) {
	srv := newTestServer(&stubScreener{})

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Allow"))
}

func TestHandleAnalyze(t *testing.T) {
	stub := &stubScreener{
		snapshot: &models.StockSnapshot{Ticker: "KO", Name: "The Coca-Cola Company", Currency: "USD"},
	}
	srv := newTestServer(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/analyze?ticker=ko&mode=aggressive", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Snapshot models.StockSnapshot  `json:"snapshot"`
		Analysis models.AnalysisResult `json:"analysis"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "KO", body.Snapshot.Ticker)
	assert.Equal(t, models.RecommendationBuy, body.Analysis.Recommendation)
	assert.Equal(t, screener.ModeAggressive, stub.lastMode)
	assert.Equal(t, "ko", stub.lastTicker)
}

func TestHandleAnalyzeMissingTicker(t *testing.T) {
	srv := newTestServer(&stubScreener{})

	req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "ticker")
}

func TestHandleAnalyzeUpstreamFailure(t *testing.T) {
	stub := &stubScreener{snapshotErr: errors.New("provider down")}
	srv := newTestServer(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/analyze?ticker=KO", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleCriteria(t *testing.T) {
	srv := newTestServer(&stubScreener{})

	req := httptest.NewRequest(http.MethodGet, "/api/criteria?currency=gbp", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var criteria models.RegionalCriteria
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&criteria))
	assert.Equal(t, 50.0, criteria.SharesOutstandingMinM)
}

func TestHandleCriteriaDefaultsToUSD(t *testing.T) {
	srv := newTestServer(&stubScreener{})

	req := httptest.NewRequest(http.MethodGet, "/api/criteria", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var criteria models.RegionalCriteria
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&criteria))
	assert.Equal(t, 5.0, criteria.SharesOutstandingMinM)
}

func TestNormalizeMode(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"", screener.ModeBalanced},
		{"balanced", screener.ModeBalanced},
		{"Aggressive", screener.ModeAggressive},
		{"AGGRESSIVE", screener.ModeAggressive},
		{" aggressive ", screener.ModeAggressive},
		{"nonsense", screener.ModeBalanced},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, normalizeMode(tt.in), "normalizeMode(%q)", tt.in)
	}
}
