// Package handler exposes the file import endpoint.
package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	importservice "github.com/Karineprates/FinanceAI/internal/domain/import/service"
	"github.com/Karineprates/FinanceAI/pkg/metrics"
	"github.com/Karineprates/FinanceAI/pkg/middleware"
)

// maxUploadBytes bounds the request body read; the parser enforces its own
// tighter cap and reports it in the result.
const maxUploadBytes = 8 << 20

// ImportHandler serves the import endpoint.
type ImportHandler struct {
	svc     *importservice.ImportService
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewImportHandler creates a new import handler. A nil metrics set disables
// instrumentation.
func NewImportHandler(svc *importservice.ImportService, m *metrics.Metrics, logger *slog.Logger) *ImportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportHandler{svc: svc, metrics: m, logger: logger}
}

// Import accepts a multipart upload (field "file") or a raw body with the
// filename in the query string, parses it and merges the records.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, filename, err := readUpload(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.svc.ImportFile(r.Context(), data, filename)
	if err != nil {
		middleware.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.ImportedRecords.Add(float64(report.Imported))
		h.metrics.SkippedRecords.Add(float64(report.Skipped))
		h.metrics.ImportErrors.Add(float64(len(report.Errors)))
	}

	middleware.WriteJSON(w, http.StatusOK, report)
}

func readUpload(r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, "", err
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", err
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", err
		}
		return data, header.Filename, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", err
	}
	return data, r.URL.Query().Get("filename"), nil
}
