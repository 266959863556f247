package title

import (
	"context"
	"errors"
)

// ErrNotFound means the title id does not exist.
var ErrNotFound = errors.New("title not found")

// Repository persists payable/receivable titles.
type Repository interface {
	Create(ctx context.Context, params CreateTitleParams) (*Title, error)
	GetByID(ctx context.Context, id int64) (*Title, error)
	List(ctx context.Context, limit, offset int) ([]*Title, error)

	// MarkSettled sets the title's status to Settled and records the
	// ledger transaction created for it. Fails with ErrNotFound.
	MarkSettled(ctx context.Context, id, transactionID int64) (*Title, error)
}
