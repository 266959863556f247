package transaction

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository persists ledger transactions.
type Repository interface {
	Create(ctx context.Context, params CreateTransactionParams) (*Transaction, error)
	GetByID(ctx context.Context, id int64) (*Transaction, error)
	List(ctx context.Context, limit, offset int) ([]*Transaction, error)

	// Query returns transactions dated within [from, to] whose value is
	// within the store's fixed epsilon of value, ordered by date then id.
	// This is the narrow view the reconciliation matcher consumes.
	Query(ctx context.Context, from, to time.Time, value decimal.Decimal) ([]*Transaction, error)
}
