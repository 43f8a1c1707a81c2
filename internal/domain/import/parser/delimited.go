package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Karineprates/FinanceAI/internal/domain/import/sniffer"
)

// ParseDelimited parses CSV/TSV content. The header row decides column
// positions through a case-insensitive lookup table; data rows are validated
// one by one, each failure collected with its 1-based file line number.
func ParseDelimited(data []byte) *Result {
	if len(data) > MaxFileBytes {
		return sizeExceeded(len(data))
	}

	delimiter, err := sniffer.DetectDelimiter(data)
	if err != nil {
		return &Result{Errors: []string{err.Error()}}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return &Result{Errors: []string{fmt.Sprintf("could not read header row: %v", err)}}
	}

	idx := buildFieldIndex(headers)
	if !idx.hasRequired() {
		return &Result{Errors: []string{ErrMissingHeaders.Error()}}
	}

	res := &Result{}
	line := 1 // header consumed
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			res.RowsTotal++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		if isBlank(record) {
			continue
		}

		res.RowsTotal++
		if res.RowsTotal > MaxRecords {
			res.Truncated = true
			continue // rows past the cap are never processed
		}

		tx, err := buildRecord(
			idx.get(record, "id"),
			idx.get(record, "date"),
			idx.get(record, "type"),
			idx.get(record, "category"),
			idx.get(record, "amount"),
			idx.get(record, "note"),
			fmt.Sprintf("row %d", line),
		)
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}

	if res.Truncated {
		res.Errors = append(res.Errors, truncationNotice())
	}
	return res
}

func isBlank(record []string) bool {
	for _, f := range record {
		if f != "" {
			return false
		}
	}
	return true
}
