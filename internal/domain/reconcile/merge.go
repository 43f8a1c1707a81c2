// Package reconcile merges an incoming transaction batch into an existing
// collection, deduplicating by id and by semantic content.
package reconcile

import (
	"github.com/Karineprates/FinanceAI/internal/domain/transaction"
)

// Result reports the outcome of a merge.
type Result struct {
	Merged  []transaction.Transaction
	Added   int
	Skipped int
}

// Merge combines existing records with an incoming candidate batch. A
// candidate is skipped when its id already exists, or when its content key
// (date, category, amount, note-or-empty) matches any already-processed record
// from either the existing set or earlier-accepted candidates of the same
// batch. The content-key check is what keeps a re-imported export safe even
// after ids were reassigned, so repeated partial merges stay idempotent.
//
// Ordering: existing records keep their relative order, accepted candidates
// follow in batch order.
func Merge(existing, incoming []transaction.Transaction) Result {
	byID := make(map[string]struct{}, len(existing)+len(incoming))
	byContent := make(map[string]struct{}, len(existing)+len(incoming))

	merged := make([]transaction.Transaction, 0, len(existing)+len(incoming))
	for _, tx := range existing {
		byID[tx.ID] = struct{}{}
		byContent[tx.ContentKey()] = struct{}{}
		merged = append(merged, tx)
	}

	res := Result{}
	for _, tx := range incoming {
		if _, seen := byID[tx.ID]; seen {
			res.Skipped++
			continue
		}
		key := tx.ContentKey()
		if _, seen := byContent[key]; seen {
			res.Skipped++
			continue
		}
		byID[tx.ID] = struct{}{}
		byContent[key] = struct{}{}
		merged = append(merged, tx)
		res.Added++
	}

	res.Merged = merged
	return res
}
