// Package search provides full-text search over the transaction set using
// Bleve. Notes and categories are indexed; queries tolerate one edit of typo.
package search

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/Karineprates/FinanceAI/internal/domain/transaction"
)

const defaultLimit = 10

// document is the indexed shape of a transaction.
type document struct {
	Date     string  `json:"date"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Note     string  `json:"note"`
}

// Result is a search hit with its relevance score.
type Result struct {
	ID    string
	Score float64
}

// Index provides full-text search over transactions. It is an in-memory
// index rebuilt from the collection; Reindex replaces the whole document set.
type Index struct {
	mu    sync.RWMutex
	index bleve.Index
}

// NewIndex creates an empty in-memory search index.
func NewIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create search index: %w", err)
	}
	return &Index{index: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = simple.Name

	keywordFieldMapping := bleve.NewTextFieldMapping()
	keywordFieldMapping.Analyzer = keyword.Name

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("date", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("type", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("category", textFieldMapping)
	docMapping.AddFieldMappingsAt("note", textFieldMapping)
	docMapping.AddFieldMappingsAt("amount", bleve.NewNumericFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = simple.Name
	return indexMapping
}

// Reindex replaces the indexed document set with the given transactions.
func (i *Index) Reindex(txs []transaction.Transaction) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	fresh, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("rebuild search index: %w", err)
	}

	batch := fresh.NewBatch()
	for _, tx := range txs {
		doc := document{
			Date:     tx.Date,
			Type:     string(tx.Type),
			Category: tx.Category,
			Amount:   tx.Amount,
			Note:     tx.Note,
		}
		if err := batch.Index(tx.ID, doc); err != nil {
			return fmt.Errorf("index transaction %s: %w", tx.ID, err)
		}
	}
	if err := fresh.Batch(batch); err != nil {
		return fmt.Errorf("execute index batch: %w", err)
	}

	old := i.index
	i.index = fresh
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// Search runs a typo-tolerant match query over notes and categories and
// returns transaction ids ranked by relevance.
func (i *Index) Search(query string, limit int) ([]Result, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if limit <= 0 {
		limit = defaultLimit
	}

	matchQuery := bleve.NewMatchQuery(query)
	matchQuery.SetFuzziness(1)

	req := bleve.NewSearchRequest(matchQuery)
	req.Size = limit

	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		results = append(results, Result{ID: hit.ID, Score: hit.Score})
	}
	return results, nil
}

// Close releases the index resources.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.index == nil {
		return nil
	}
	err := i.index.Close()
	i.index = nil
	return err
}
