package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Repository is the persistence port for the collection. Implementations load
// the full record set once on start and persist the full set after mutations.
type Repository interface {
	LoadAll(ctx context.Context) ([]Transaction, error)
	SaveAll(ctx context.Context, txs []Transaction) error
}

// Collection is the explicitly owned, mutable transaction set. It replaces a
// process-wide singleton: callers construct it with loaded records and an
// injected repository, and every mutation triggers a save through the port.
type Collection struct {
	mu     sync.RWMutex
	byID   map[string]int // id -> index into order
	order  []Transaction
	repo   Repository
	logger *slog.Logger
}

// NewCollection builds a collection around the given records. Records keep
// their relative order. A nil repository disables persistence (used by tests
// and the CLI).
func NewCollection(txs []Transaction, repo Repository, logger *slog.Logger) *Collection {
	c := &Collection{
		byID:   make(map[string]int, len(txs)),
		order:  make([]Transaction, 0, len(txs)),
		repo:   repo,
		logger: logger,
	}
	for _, tx := range txs {
		if _, dup := c.byID[tx.ID]; dup {
			continue
		}
		c.byID[tx.ID] = len(c.order)
		c.order = append(c.order, tx)
	}
	return c
}

// Load builds a collection from the repository's stored records.
func Load(ctx context.Context, repo Repository, logger *slog.Logger) (*Collection, error) {
	txs, err := repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return NewCollection(txs, repo, logger), nil
}

// All returns a copy of the records in insertion order.
func (c *Collection) All() []Transaction {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot()
}

// Len returns the number of records.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Add validates, normalizes, and appends a single record, then persists. A
// persistence failure rolls the append back, so memory and store never
// diverge past an error return.
func (c *Collection) Add(ctx context.Context, tx Transaction) (Transaction, error) {
	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}
	tx.Normalize()

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.byID[tx.ID]; dup {
		return Transaction{}, fmt.Errorf("duplicate transaction id %q", tx.ID)
	}

	prevByID, prevOrder := c.byID, c.order
	c.apply(append(c.snapshot(), tx))
	if err := c.save(ctx); err != nil {
		c.byID, c.order = prevByID, prevOrder
		return Transaction{}, err
	}
	return tx, nil
}

// Replace swaps the full record set for the merged result of a reconciliation
// and persists it. The caller owns the merge semantics; Replace only updates
// the indexes. A persistence failure restores the previous set.
func (c *Collection) Replace(ctx context.Context, txs []Transaction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prevByID, prevOrder := c.byID, c.order
	c.apply(txs)
	if err := c.save(ctx); err != nil {
		c.byID, c.order = prevByID, prevOrder
		return err
	}
	return nil
}

// Remove deletes a record by id and persists. It reports whether the record
// was removed; a persistence failure restores it.
func (c *Collection) Remove(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx, ok := c.byID[id]
	if !ok {
		return false, nil
	}

	next := c.snapshot()
	next = append(next[:idx], next[idx+1:]...)
	prevByID, prevOrder := c.byID, c.order
	c.apply(next)
	if err := c.save(ctx); err != nil {
		c.byID, c.order = prevByID, prevOrder
		return false, err
	}
	return true, nil
}

// Categories returns the distinct category labels currently in the collection.
func (c *Collection) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, tx := range c.order {
		if _, ok := seen[tx.Category]; ok {
			continue
		}
		seen[tx.Category] = struct{}{}
		out = append(out, tx.Category)
	}
	return out
}

// apply rebuilds the indexes from txs, skipping duplicate ids. Callers hold
// the write lock.
func (c *Collection) apply(txs []Transaction) {
	c.byID = make(map[string]int, len(txs))
	c.order = make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if _, dup := c.byID[tx.ID]; dup {
			continue
		}
		c.byID[tx.ID] = len(c.order)
		c.order = append(c.order, tx)
	}
}

// snapshot copies the current order. Callers hold at least the read lock.
func (c *Collection) snapshot() []Transaction {
	out := make([]Transaction, len(c.order))
	copy(out, c.order)
	return out
}

// save persists the current set through the port. Callers hold the write
// lock, so a failed save can be rolled back before any reader observes the
// unpersisted state.
func (c *Collection) save(ctx context.Context) error {
	if c.repo == nil {
		return nil
	}
	if err := c.repo.SaveAll(ctx, c.snapshot()); err != nil {
		if c.logger != nil {
			c.logger.Error("failed to persist transactions", "error", err)
		}
		return fmt.Errorf("persist transactions: %w", err)
	}
	return nil
}
