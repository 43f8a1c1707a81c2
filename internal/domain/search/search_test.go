package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Karineprates/FinanceAI/internal/domain/transaction"
)

func indexedTransactions() []transaction.Transaction {
	return []transaction.Transaction{
		{ID: "t1", Date: "2024-01-05", Type: transaction.TypeExpense, Category: "Groceries", Amount: 42.10, Note: "weekly shopping at the market"},
		{ID: "t2", Date: "2024-01-08", Type: transaction.TypeExpense, Category: "Transport", Amount: 2.80, Note: "metro ticket"},
		{ID: "t3", Date: "2024-01-10", Type: transaction.TypeIncome, Category: "Salary", Amount: 2500, Note: ""},
	}
}

func TestSearch_MatchesNote(t *testing.T) {
	idx, err := NewIndex()
	require.NoError(t, err)
	defer idx.Close()
	require.NoError(t, idx.Reindex(indexedTransactions()))

	results, err := idx.Search("metro", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "t2", results[0].ID)
}

func TestSearch_MatchesCategory(t *testing.T) {
	idx, err := NewIndex()
	require.NoError(t, err)
	defer idx.Close()
	require.NoError(t, idx.Reindex(indexedTransactions()))

	results, err := idx.Search("groceries", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "t1", results[0].ID)
}

func TestSearch_TypoTolerant(t *testing.T) {
	idx, err := NewIndex()
	require.NoError(t, err)
	defer idx.Close()
	require.NoError(t, idx.Reindex(indexedTransactions()))

	results, err := idx.Search("groseries", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "t1", results[0].ID)
}

func TestSearch_NoMatch(t *testing.T) {
	idx, err := NewIndex()
	require.NoError(t, err)
	defer idx.Close()
	require.NoError(t, idx.Reindex(indexedTransactions()))

	results, err := idx.Search("helicopter", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestReindex_ReplacesDocuments(t *testing.T) {
	idx, err := NewIndex()
	require.NoError(t, err)
	defer idx.Close()
	require.NoError(t, idx.Reindex(indexedTransactions()))

	require.NoError(t, idx.Reindex([]transaction.Transaction{
		{ID: "t9", Date: "2024-02-01", Type: transaction.TypeExpense, Category: "Books", Amount: 15, Note: "paperback"},
	}))

	results, err := idx.Search("metro", 10)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = idx.Search("paperback", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "t9", results[0].ID)
}
