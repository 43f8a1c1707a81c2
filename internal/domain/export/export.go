// Package export renders the transaction set into the portable formats the
// importer accepts back: delimited CSV, a plain JSON list, the versioned
// backup envelope, and an XLSX workbook.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/Karineprates/FinanceAI/internal/domain/transaction"
)

// BackupVersion identifies the backup envelope schema.
const BackupVersion = 1

// xlsxSheetName is the worksheet the importer looks for first.
const xlsxSheetName = "Transactions"

// Backup is the export envelope. The importer rejects a backup missing its
// version or its transactions list, so both are always present here, even for
// an empty collection.
type Backup struct {
	Version      int                       `json:"version"`
	ExportedAt   string                    `json:"exportedAt"`
	Transactions []transaction.Transaction `json:"transactions"`
}

// CSV renders the records as comma-delimited text with a header row.
func CSV(txs []transaction.Transaction) ([]byte, error) {
	out, err := gocsv.MarshalBytes(&txs)
	if err != nil {
		return nil, fmt.Errorf("marshal csv: %w", err)
	}
	return out, nil
}

// JSON renders the records as a plain JSON list.
func JSON(txs []transaction.Transaction) ([]byte, error) {
	if txs == nil {
		txs = []transaction.Transaction{}
	}
	out, err := json.MarshalIndent(txs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return out, nil
}

// BackupEnvelope renders the versioned backup envelope with the export
// timestamp in RFC 3339 UTC.
func BackupEnvelope(txs []transaction.Transaction, now time.Time) ([]byte, error) {
	if txs == nil {
		txs = []transaction.Transaction{}
	}
	env := Backup{
		Version:      BackupVersion,
		ExportedAt:   now.UTC().Format(time.RFC3339),
		Transactions: txs,
	}
	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal backup: %w", err)
	}
	return out, nil
}

// XLSX renders the records into a single-sheet workbook the importer can read
// back.
func XLSX(txs []transaction.Transaction) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := []any{"id", "date", "type", "category", "amount", "note"}
	if err := f.SetSheetRow(xlsxSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, tx := range txs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		row := []any{tx.ID, tx.Date, string(tx.Type), tx.Category, tx.Amount, tx.Note}
		if err := f.SetSheetRow(xlsxSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
