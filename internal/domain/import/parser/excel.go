package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX parses the first worksheet of an XLSX workbook (a sheet named
// "Transactions" wins when present). The header row feeds the same
// case-insensitive field table as delimited text, and data rows share the
// validation path.
func ParseXLSX(data []byte) *Result {
	if len(data) > MaxFileBytes {
		return sizeExceeded(len(data))
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return &Result{Errors: []string{fmt.Sprintf("could not open workbook: %v", err)}}
	}
	defer f.Close()

	sheet := transactionSheet(f)
	if sheet == "" {
		return &Result{Errors: []string{"workbook has no sheets"}}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return &Result{Errors: []string{fmt.Sprintf("could not read sheet %s: %v", sheet, err)}}
	}
	if len(rows) == 0 {
		return &Result{Errors: []string{ErrMissingHeaders.Error()}}
	}

	idx := buildFieldIndex(rows[0])
	if !idx.hasRequired() {
		return &Result{Errors: []string{ErrMissingHeaders.Error()}}
	}

	res := &Result{}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}

		res.RowsTotal++
		if res.RowsTotal > MaxRecords {
			res.Truncated = true
			continue
		}

		tx, err := buildRecord(
			idx.get(row, "id"),
			idx.get(row, "date"),
			idx.get(row, "type"),
			idx.get(row, "category"),
			idx.get(row, "amount"),
			idx.get(row, "note"),
			fmt.Sprintf("row %d", i+1),
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

func transactionSheet(f *excelize.File) string {
	sheets := f.GetSheetList()
	for _, s := range sheets {
		if strings.EqualFold(s, "Transactions") {
			return s
		}
	}
	if len(sheets) > 0 {
		return sheets[0]
	}
	return ""
}
