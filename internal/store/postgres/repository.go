// Package postgres implements the transaction persistence port on top of
// PostgreSQL. The collection loads the full record set on start and writes
// the full set back after mutations, so the adapter replaces the stored rows
// wholesale inside one transaction.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/Karineprates/FinanceAI/internal/domain/transaction"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies it
// in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository persists the transaction set in the transactions table. Row
// position keeps insertion order stable across load/save cycles.
type Repository struct {
	db     DB
	logger *slog.Logger
}

// NewRepository creates a new transaction repository.
func NewRepository(db DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

// LoadAll reads the full stored record set in insertion order.
func (r *Repository) LoadAll(ctx context.Context) ([]transaction.Transaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, date, type, category, amount, note
		 FROM transactions
		 ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []transaction.Transaction
	for rows.Next() {
		var tx transaction.Transaction
		var typ string
		if err := rows.Scan(&tx.ID, &tx.Date, &typ, &tx.Category, &tx.Amount, &tx.Note); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Type = transaction.Type(typ)
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}
	return txs, nil
}

// SaveAll replaces the stored record set with the given one atomically.
func (r *Repository) SaveAll(ctx context.Context, txs []transaction.Transaction) error {
	dbTx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() {
		_ = dbTx.Rollback(ctx)
	}()

	if _, err := dbTx.Exec(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	if len(txs) > 0 {
		rows := make([][]any, 0, len(txs))
		for i, tx := range txs {
			rows = append(rows, []any{i, tx.ID, tx.Date, string(tx.Type), tx.Category, tx.Amount, tx.Note})
		}
		copied, err := dbTx.CopyFrom(ctx,
			pgx.Identifier{"transactions"},
			[]string{"position", "id", "date", "type", "category", "amount", "note"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("copy transactions: %w", err)
		}
		if copied != int64(len(txs)) {
			return fmt.Errorf("copy transactions: wrote %d of %d rows", copied, len(txs))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}

	r.logger.DebugContext(ctx, "transaction set persisted", slog.Int("count", len(txs)))
	return nil
}
