package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Karineprates/FinanceAI/internal/domain/import/sniffer"
	"github.com/Karineprates/FinanceAI/internal/domain/search"
	"github.com/Karineprates/FinanceAI/internal/domain/transaction"
)

func newTestService(seed []transaction.Transaction) *ImportService {
	col := transaction.NewCollection(seed, nil, nil)
	return NewImportService(col, nil, nil)
}

func TestImportFile_CSVMergesIntoCollection(t *testing.T) {
	svc := newTestService(nil)
	csvData := "date,type,category,amount,note\n" +
		"2024-01-05,expense,Food,12.50,lunch\n" +
		"2024-01-10,income,Salary,2500,\n"

	report, err := svc.ImportFile(context.Background(), []byte(csvData), "bank.csv")
	require.NoError(t, err)

	assert.Equal(t, sniffer.FormatDelimited, report.Format)
	assert.Equal(t, 2, report.RowsTotal)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 0, report.Skipped)
	assert.Empty(t, report.Errors)
	assert.Equal(t, "2024-01-05", report.EarliestDate)
	assert.Equal(t, "2024-01-10", report.LatestDate)
	assert.InDelta(t, 2500, report.TotalIncome, 1e-9)
	assert.InDelta(t, 12.50, report.TotalExpense, 1e-9)

	assert.Equal(t, 2, svc.collection.Len())
}

func TestImportFile_ReimportIsIdempotent(t *testing.T) {
	svc := newTestService(nil)
	csvData := "date,type,category,amount\n2024-01-05,expense,Food,12.50\n"

	first, err := svc.ImportFile(context.Background(), []byte(csvData), "bank.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Imported)

	// Same content again: ids are freshly assigned, the content key dedupes.
	second, err := svc.ImportFile(context.Background(), []byte(csvData), "bank.csv")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 1, second.Skipped)
	assert.Equal(t, 1, svc.collection.Len())
}

func TestImportFile_JSONObjectRootIsBackup(t *testing.T) {
	svc := newTestService(nil)
	payload := `{"version":1,"exportedAt":"2024-06-01T10:00:00Z","transactions":[
		{"id":"a","date":"2024-01-05","type":"expense","category":"Food","amount":9.99}
	]}`

	report, err := svc.ImportFile(context.Background(), []byte(payload), "backup.json")
	require.NoError(t, err)
	assert.Equal(t, sniffer.FormatJSON, report.Format)
	assert.Equal(t, 1, report.Imported)
}

func TestImportFile_JSONListRootIsRecordList(t *testing.T) {
	svc := newTestService(nil)
	payload := `[{"date":"2024-01-05","type":"income","category":"Salary","amount":100}]`

	report, err := svc.ImportFile(context.Background(), []byte(payload), "export.json")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
}

func TestImportFile_PerRecordErrorsDoNotAbort(t *testing.T) {
	svc := newTestService(nil)
	csvData := "date,type,category,amount\n" +
		"2024-01-05,gift,Misc,10\n" +
		"2024-01-06,expense,Food,10\n"

	report, err := svc.ImportFile(context.Background(), []byte(csvData), "bank.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "gift")
}

func TestImportFile_RefreshesSearchIndex(t *testing.T) {
	col := transaction.NewCollection(nil, nil, nil)
	idx, err := search.NewIndex()
	require.NoError(t, err)
	defer idx.Close()
	svc := NewImportService(col, idx, nil)

	csvData := "date,type,category,amount,note\n" +
		"2024-01-05,expense,Food,12.50,team lunch downtown\n"
	_, err = svc.ImportFile(context.Background(), []byte(csvData), "bank.csv")
	require.NoError(t, err)

	hits, err := idx.Search("lunch", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
}

func TestImportFile_EmptyFile(t *testing.T) {
	svc := newTestService(nil)
	_, err := svc.ImportFile(context.Background(), nil, "bank.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestImportFile_CategoryNearMatchAdvisory(t *testing.T) {
	seed := []transaction.Transaction{
		{ID: "1", Date: "2024-01-01", Type: transaction.TypeExpense, Category: "Groceries", Amount: 10},
	}
	svc := newTestService(seed)
	csvData := "date,type,category,amount\n2024-02-01,expense,Grocerie,15\n"

	report, err := svc.ImportFile(context.Background(), []byte(csvData), "bank.csv")
	require.NoError(t, err)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "category_near_match", report.Issues[0].Type)
	assert.Equal(t, "Grocerie", report.Issues[0].SampleValue)
	assert.Contains(t, report.Issues[0].Suggestion, "Groceries")
}

func TestImportFile_KnownCategoryRaisesNoAdvisory(t *testing.T) {
	seed := []transaction.Transaction{
		{ID: "1", Date: "2024-01-01", Type: transaction.TypeExpense, Category: "Food", Amount: 10},
	}
	svc := newTestService(seed)
	csvData := "date,type,category,amount\n2024-02-01,expense,food,15\n"

	report, err := svc.ImportFile(context.Background(), []byte(csvData), "bank.csv")
	require.NoError(t, err)
	assert.Empty(t, report.Issues)
}
