package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Karineprates/FinanceAI/internal/domain/import/parser"
	"github.com/Karineprates/FinanceAI/internal/domain/transaction"
)

func sampleTransactions() []transaction.Transaction {
	return []transaction.Transaction{
		{ID: "a1", Date: "2024-01-05", Type: transaction.TypeExpense, Category: "Food", Amount: 12.5, Note: "lunch"},
		{ID: "b2", Date: "2024-01-10", Type: transaction.TypeIncome, Category: "Salary", Amount: 2500},
	}
}

func TestCSV_ImporterReadsItBack(t *testing.T) {
	out, err := CSV(sampleTransactions())
	require.NoError(t, err)

	header := strings.SplitN(string(out), "\n", 2)[0]
	assert.Contains(t, strings.ToLower(header), "date")
	assert.Contains(t, strings.ToLower(header), "amount")

	res := parser.ParseDelimited(out)
	require.Empty(t, res.Errors)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "a1", res.Transactions[0].ID)
	assert.InDelta(t, 12.5, res.Transactions[0].Amount, 1e-9)
}

func TestJSON_EmptySetIsAList(t *testing.T) {
	out, err := JSON(nil)
	require.NoError(t, err)

	var decoded []transaction.Transaction
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Empty(t, decoded)
}

func TestBackupEnvelope_RoundTrip(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	out, err := BackupEnvelope(sampleTransactions(), now)
	require.NoError(t, err)

	var env Backup
	require.NoError(t, json.Unmarshal(out, &env))
	assert.Equal(t, BackupVersion, env.Version)
	assert.Equal(t, "2024-06-01T10:00:00Z", env.ExportedAt)
	require.Len(t, env.Transactions, 2)

	res := parser.ParseBackup(out)
	require.Empty(t, res.Errors)
	assert.Len(t, res.Transactions, 2)
}

func TestXLSX_ImporterReadsItBack(t *testing.T) {
	out, err := XLSX(sampleTransactions())
	require.NoError(t, err)

	res := parser.ParseXLSX(out)
	require.Empty(t, res.Errors)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, transaction.TypeIncome, res.Transactions[1].Type)
	assert.Equal(t, "Salary", res.Transactions[1].Category)
}
