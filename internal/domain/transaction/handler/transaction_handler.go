// Package handler exposes the transaction CRUD, stats, search and export
// endpoints.
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Karineprates/FinanceAI/internal/domain/export"
	"github.com/Karineprates/FinanceAI/internal/domain/search"
	"github.com/Karineprates/FinanceAI/internal/domain/stats"
	"github.com/Karineprates/FinanceAI/internal/domain/transaction"
	"github.com/Karineprates/FinanceAI/pkg/middleware"
)

// TransactionHandler serves the transaction endpoints.
type TransactionHandler struct {
	collection *transaction.Collection
	index      *search.Index
	logger     *slog.Logger
	now        func() time.Time
}

// NewTransactionHandler creates a new transaction handler. A nil index
// disables the search endpoint.
func NewTransactionHandler(collection *transaction.Collection, index *search.Index, logger *slog.Logger) *TransactionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionHandler{
		collection: collection,
		index:      index,
		logger:     logger,
		now:        time.Now,
	}
}

// List returns all transactions.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.collection.All())
}

// Create validates and stores one transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var tx transaction.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	stored, err := h.collection.Add(r.Context(), tx)
	if err != nil {
		middleware.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.reindex()

	middleware.WriteJSON(w, http.StatusCreated, stored)
}

// Delete removes a transaction by id.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	removed, err := h.collection.Remove(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !removed {
		middleware.WriteError(w, http.StatusNotFound, fmt.Sprintf("transaction %s not found", id))
		return
	}
	h.reindex()

	w.WriteHeader(http.StatusNoContent)
}

// Stats returns the windowed aggregates for the current clock time.
func (h *TransactionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	s := stats.Compute(h.collection.All(), h.now())
	middleware.WriteJSON(w, http.StatusOK, s)
}

// Search runs a full-text query over notes and categories.
func (h *TransactionHandler) Search(w http.ResponseWriter, r *http.Request) {
	if h.index == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "search is not enabled")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		middleware.WriteError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	hits, err := h.index.Search(query, limit)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	byID := make(map[string]transaction.Transaction)
	for _, tx := range h.collection.All() {
		byID[tx.ID] = tx
	}

	type hit struct {
		Transaction transaction.Transaction `json:"transaction"`
		Score       float64                 `json:"score"`
	}
	results := make([]hit, 0, len(hits))
	for _, res := range hits {
		if tx, ok := byID[res.ID]; ok {
			results = append(results, hit{Transaction: tx, Score: res.Score})
		}
	}
	middleware.WriteJSON(w, http.StatusOK, results)
}

// Export renders the collection in the requested format: csv, json, backup
// or xlsx.
func (h *TransactionHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	txs := h.collection.All()

	var (
		out         []byte
		err         error
		contentType string
		filename    string
	)
	switch format {
	case "csv":
		out, err = export.CSV(txs)
		contentType, filename = "text/csv", "transactions.csv"
	case "json":
		out, err = export.JSON(txs)
		contentType, filename = "application/json", "transactions.json"
	case "backup":
		out, err = export.BackupEnvelope(txs, h.now())
		contentType, filename = "application/json", "backup.json"
	case "xlsx":
		out, err = export.XLSX(txs)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = "transactions.xlsx"
	default:
		middleware.WriteError(w, http.StatusBadRequest, fmt.Sprintf("unknown export format %q", format))
		return
	}
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (h *TransactionHandler) reindex() {
	if h.index == nil {
		return
	}
	if err := h.index.Reindex(h.collection.All()); err != nil {
		h.logger.Warn("search reindex failed", slog.Any("error", err))
	}
}
