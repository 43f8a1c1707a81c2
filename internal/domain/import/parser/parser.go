// Package parser turns raw import payloads (delimited text, JSON, XLSX) into
// validated transaction candidates. Individual malformed records never abort
// a batch; only a broken envelope or an oversize file does.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Karineprates/FinanceAI/internal/domain/transaction"
)

const (
	// MaxRecords truncates a batch before per-record processing.
	MaxRecords = 2000

	// MaxFileBytes aborts parsing entirely when exceeded.
	MaxFileBytes = 2 * 1024 * 1024
	maxFileMiB   = MaxFileBytes / (1024 * 1024)
)

var (
	ErrNotAList       = errors.New("invalid JSON: root must be a list of transactions")
	ErrInvalidBackup  = errors.New("invalid backup: missing version or transactions")
	ErrMissingHeaders = errors.New("missing required columns: need date, type, category, amount")
)

// Result is the outcome of parsing one payload: the validated candidates plus
// the per-record error messages collected along the way.
type Result struct {
	Transactions []transaction.Transaction
	Errors       []string
	RowsTotal    int
	Truncated    bool
}

// sizeExceeded builds the single whole-batch error for an oversize file.
func sizeExceeded(n int) *Result {
	return &Result{
		Errors: []string{fmt.Sprintf("file too large (%d bytes): limit is %d MiB", n, maxFileMiB)},
	}
}

// truncationNotice is appended once when a batch runs past MaxRecords.
func truncationNotice() string {
	return fmt.Sprintf("import truncated: only the first %d records were processed", MaxRecords)
}

// fieldIndex is the case-insensitive field lookup table built once per header
// row. It maps canonical field names to column positions, accepting any
// capitalization of the known field names.
type fieldIndex map[string]int

var knownFields = []string{"id", "date", "type", "category", "amount", "note"}

// buildFieldIndex resolves headers to canonical fields. The first column
// matching a canonical name (case-insensitively) wins.
func buildFieldIndex(headers []string) fieldIndex {
	idx := make(fieldIndex, len(knownFields))
	for col, h := range headers {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
		for _, field := range knownFields {
			if name == field {
				if _, taken := idx[field]; !taken {
					idx[field] = col
				}
				break
			}
		}
	}
	return idx
}

func (fi fieldIndex) hasRequired() bool {
	for _, field := range []string{"date", "type", "category", "amount"} {
		if _, ok := fi[field]; !ok {
			return false
		}
	}
	return true
}

func (fi fieldIndex) get(record []string, field string) string {
	col, ok := fi[field]
	if !ok || col >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[col])
}

// buildRecord validates one row's raw field values and produces a normalized
// transaction. rowLabel names the row in error messages ("row 3").
func buildRecord(id, date, typ, category, amountRaw, note, rowLabel string) (transaction.Transaction, error) {
	if strings.TrimSpace(typ) == "" || strings.TrimSpace(date) == "" || strings.TrimSpace(category) == "" {
		return transaction.Transaction{}, fmt.Errorf("%s: missing required field (need date, type, category)", rowLabel)
	}

	amount, err := transaction.ParseAmount(amountRaw)
	if err != nil {
		return transaction.Transaction{}, fmt.Errorf("%s: %s", rowLabel, err.Error())
	}

	tx := transaction.Transaction{
		ID:       strings.TrimSpace(id),
		Date:     strings.TrimSpace(date),
		Type:     transaction.Type(strings.TrimSpace(typ)),
		Category: strings.TrimSpace(category),
		Amount:   amount,
		Note:     strings.TrimSpace(note),
	}
	if err := tx.Validate(); err != nil {
		return transaction.Transaction{}, fmt.Errorf("%s: %s", rowLabel, err.Error())
	}
	tx.Normalize()
	return tx, nil
}
