// Package handler exposes the insights endpoint.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Karineprates/FinanceAI/internal/domain/insights"
	"github.com/Karineprates/FinanceAI/internal/domain/transaction"
	"github.com/Karineprates/FinanceAI/pkg/metrics"
	"github.com/Karineprates/FinanceAI/pkg/middleware"
)

// InsightsHandler serves the insights endpoint.
type InsightsHandler struct {
	orchestrator *insights.Orchestrator
	collection   *transaction.Collection
	metrics      *metrics.Metrics
	logger       *slog.Logger
	now          func() time.Time
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(orchestrator *insights.Orchestrator, collection *transaction.Collection, m *metrics.Metrics, logger *slog.Logger) *InsightsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &InsightsHandler{
		orchestrator: orchestrator,
		collection:   collection,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

// response is the wire shape of an insight result.
type response struct {
	Insights       []string `json:"insights"`
	Overview       []string `json:"overview"`
	Alerts         []string `json:"alerts"`
	Suggestions    []string `json:"suggestions"`
	Source         string   `json:"source"`
	FallbackReason string   `json:"fallbackReason,omitempty"`
	ElapsedMs      int64    `json:"elapsedMs"`
}

// Get computes the current insight list.
func (h *InsightsHandler) Get(w http.ResponseWriter, r *http.Request) {
	result := h.orchestrator.GetInsights(r.Context(), h.collection.All(), h.now())

	if h.metrics != nil {
		h.metrics.InsightRequests.WithLabelValues(string(result.Source)).Inc()
	}

	middleware.WriteJSON(w, http.StatusOK, response{
		Insights:       result.Items,
		Overview:       result.Overview(),
		Alerts:         result.Alerts(),
		Suggestions:    result.Suggestions(),
		Source:         string(result.Source),
		FallbackReason: result.FallbackReason,
		ElapsedMs:      result.Elapsed.Milliseconds(),
	})
}
