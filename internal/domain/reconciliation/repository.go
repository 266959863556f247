package reconciliation

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"cashup/internal/domain/statement"
	"cashup/internal/domain/transaction"
)

var (
	// ErrNotFound means a status update targeted a nonexistent item id.
	ErrNotFound = errors.New("reconciliation item not found")

	// ErrInvalidTransition means a status update would break the
	// status/matched-id invariant (matched id set iff status is Matched).
	ErrInvalidTransition = errors.New("status and matched transaction id are inconsistent")

	// ErrTransactionClaimed means another item already matched the target
	// transaction. The caller should leave its item Pending.
	ErrTransactionClaimed = errors.New("transaction already matched by another item")
)

// Repository owns reconciliation_items rows. Only the ingestion service and
// the matcher write through it.
type Repository interface {
	// Save persists a movement as a new Pending item and returns it with
	// its assigned id.
	Save(ctx context.Context, m statement.Movement) (*Item, error)

	GetByID(ctx context.Context, id int64) (*Item, error)

	// List returns items matching the filter. Ordering is stable for a
	// fixed snapshot; callers needing a specific order sort themselves.
	List(ctx context.Context, filter ItemFilter) ([]*Item, error)

	// UpdateStatus transitions an item, enforcing the status/matched-id
	// invariant and the at-most-one-item-per-transaction guarantee.
	// Fails with ErrNotFound, ErrInvalidTransition, or ErrTransactionClaimed.
	UpdateStatus(ctx context.Context, id int64, status Status, matchedTransactionID *int64) (*Item, error)
}

// Ledger is the read-only view of the transaction ledger the matcher
// consults. Implementations return only transactions not already claimed
// by a reconciliation item; the in-pass claim set and the store guard
// cover claims made after the query. *postgres.TransactionRepository
// satisfies it.
type Ledger interface {
	Query(ctx context.Context, from, to time.Time, value decimal.Decimal) ([]*transaction.Transaction, error)
}
