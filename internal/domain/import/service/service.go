// Package service provides the import orchestration logic: format detection,
// parsing, duplicate-safe merging into the collection, and the per-import
// quality report.
package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.opentelemetry.io/otel"

	"github.com/Karineprates/FinanceAI/internal/domain/import/parser"
	"github.com/Karineprates/FinanceAI/internal/domain/import/sniffer"
	"github.com/Karineprates/FinanceAI/internal/domain/reconcile"
	"github.com/Karineprates/FinanceAI/internal/domain/search"
	"github.com/Karineprates/FinanceAI/internal/domain/transaction"
)

// maxSuggestionDistance bounds the edit distance for a category advisory.
const maxSuggestionDistance = 2

// Issue is a data quality advisory raised during import. Advisories never
// block records; they surface likely mistakes such as a category that almost
// matches an existing one.
type Issue struct {
	Type         string `json:"type"`
	AffectedRows int    `json:"affectedRows"`
	SampleValue  string `json:"sampleValue"`
	Suggestion   string `json:"suggestion"`
}

// Report summarizes one import operation.
type Report struct {
	Format       sniffer.Format `json:"format"`
	RowsTotal    int            `json:"rowsTotal"`
	Imported     int            `json:"imported"`
	Skipped      int            `json:"skipped"`
	Truncated    bool           `json:"truncated"`
	Errors       []string       `json:"errors,omitempty"`
	EarliestDate string         `json:"earliestDate,omitempty"`
	LatestDate   string         `json:"latestDate,omitempty"`
	TotalIncome  float64        `json:"totalIncome"`
	TotalExpense float64        `json:"totalExpense"`
	Issues       []Issue        `json:"issues,omitempty"`
	Elapsed      time.Duration  `json:"-"`
}

// ImportService orchestrates parsing and merging of uploaded files.
type ImportService struct {
	collection *transaction.Collection
	index      *search.Index
	logger     *slog.Logger
}

// NewImportService creates a new import service. A nil index disables search
// reindexing after merges.
func NewImportService(collection *transaction.Collection, index *search.Index, logger *slog.Logger) *ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportService{
		collection: collection,
		index:      index,
		logger:     logger,
	}
}

// ImportFile detects the payload format, parses it, merges the accepted
// records into the collection, and returns the import report. Per-record
// failures are collected in the report; only an unusable envelope or a
// persistence failure is returned as an error.
func (s *ImportService) ImportFile(ctx context.Context, data []byte, filename string) (*Report, error) {
	ctx, span := otel.Tracer("import").Start(ctx, "ImportService.ImportFile")
	defer span.End()

	start := time.Now()

	format, err := sniffer.DetectFormat(data, filename)
	if err != nil {
		return nil, fmt.Errorf("detect format: %w", err)
	}

	res := s.parse(data, format)
	report := &Report{
		Format:    format,
		RowsTotal: res.RowsTotal,
		Truncated: res.Truncated,
		Errors:    res.Errors,
	}

	if len(res.Transactions) > 0 {
		existing := s.collection.All()
		report.Issues = categoryAdvisories(res.Transactions, s.collection.Categories())

		merged := reconcile.Merge(existing, res.Transactions)
		if err := s.collection.Replace(ctx, merged.Merged); err != nil {
			return nil, fmt.Errorf("persist merged transactions: %w", err)
		}
		report.Imported = merged.Added
		report.Skipped = merged.Skipped
		summarize(report, res.Transactions)

		if s.index != nil && merged.Added > 0 {
			if err := s.index.Reindex(merged.Merged); err != nil {
				s.logger.WarnContext(ctx, "search reindex failed", slog.Any("error", err))
			}
		}
	}

	report.Elapsed = time.Since(start)
	s.logger.InfoContext(ctx, "import finished",
		slog.String("format", string(format)),
		slog.Int("rows", report.RowsTotal),
		slog.Int("imported", report.Imported),
		slog.Int("skipped", report.Skipped),
		slog.Int("errors", len(report.Errors)),
		slog.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

// parse dispatches to the right parser. JSON payloads whose root is an object
// are treated as backup envelopes; a list root is a plain record list.
func (s *ImportService) parse(data []byte, format sniffer.Format) *parser.Result {
	switch format {
	case sniffer.FormatJSON:
		trimmed := bytes.TrimLeft(data, " \t\r\n")
		if len(trimmed) > 0 && trimmed[0] == '{' {
			return parser.ParseBackup(data)
		}
		return parser.ParseJSON(data)
	case sniffer.FormatXLSX:
		return parser.ParseXLSX(data)
	default:
		return parser.ParseDelimited(data)
	}
}

// summarize fills the report's date range and income/expense totals from the
// parsed batch.
func summarize(report *Report, txs []transaction.Transaction) {
	for _, tx := range txs {
		if report.EarliestDate == "" || tx.Date < report.EarliestDate {
			report.EarliestDate = tx.Date
		}
		if tx.Date > report.LatestDate {
			report.LatestDate = tx.Date
		}
		switch tx.Type {
		case transaction.TypeIncome:
			report.TotalIncome += tx.Amount
		case transaction.TypeExpense:
			report.TotalExpense += tx.Amount
		}
	}
}

// categoryAdvisories flags incoming categories that nearly match an already
// known category, which usually means a typo or inconsistent spelling.
func categoryAdvisories(txs []transaction.Transaction, known []string) []Issue {
	if len(known) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, tx := range txs {
		counts[tx.Category]++
	}

	var issues []Issue
	for category, n := range counts {
		if match := closestCategory(category, known); match != "" {
			issues = append(issues, Issue{
				Type:         "category_near_match",
				AffectedRows: n,
				SampleValue:  category,
				Suggestion:   fmt.Sprintf("did you mean %q?", match),
			})
		}
	}
	return issues
}

// closestCategory returns the known category within the suggestion distance
// of the candidate, or "" when the candidate is already known or nothing is
// close enough.
func closestCategory(candidate string, known []string) string {
	for _, k := range known {
		if strings.EqualFold(k, candidate) {
			return ""
		}
	}

	ranks := fuzzy.RankFindNormalizedFold(candidate, known)
	best := ""
	bestDistance := maxSuggestionDistance + 1
	for _, r := range ranks {
		if r.Distance < bestDistance {
			bestDistance = r.Distance
			best = r.Target
		}
	}
	return best
}
