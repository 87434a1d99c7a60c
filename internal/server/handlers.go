package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/bobmcallan/divvy/internal/common"
	"github.com/bobmcallan/divvy/internal/services/screener"
)

// handleHealth responds to GET/HEAD /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": common.GetVersion(),
	})
}

// handleAnalyze responds to GET /api/analyze?ticker=SYM&mode=Balanced|Aggressive.
// The snapshot fetch is best-effort on every enrichment; only a blank
// ticker or a provider that returns nothing at all produces an error.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ticker := strings.TrimSpace(r.URL.Query().Get("ticker"))
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "Query parameter 'ticker' is required")
		return
	}

	mode := normalizeMode(r.URL.Query().Get("mode"))

	snapshot, err := s.app.Screener.FetchSnapshot(r.Context(), ticker)
	if err != nil {
		WriteError(w, http.StatusBadGateway, fmt.Sprintf("Failed to fetch data for %s: %v", ticker, err))
		return
	}

	analysis := s.app.Screener.Analyze(r.Context(), snapshot, mode)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"snapshot": snapshot,
		"analysis": analysis,
	})
}

// handleCriteria responds to GET /api/criteria?currency=USD&mode=Balanced.
func (s *Server) handleCriteria(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	currency := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("currency")))
	if currency == "" {
		currency = "USD"
	}

	mode := normalizeMode(r.URL.Query().Get("mode"))

	WriteJSON(w, http.StatusOK, s.app.Screener.ResolveCriteria(currency, mode))
}

// normalizeMode maps the query value onto a known screening mode,
// defaulting to Balanced.
func normalizeMode(mode string) string {
	if strings.EqualFold(strings.TrimSpace(mode), screener.ModeAggressive) {
		return screener.ModeAggressive
	}
	return screener.ModeBalanced
}
