package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"cashup/internal/domain/transaction"
)

// queryValueEpsilon is the amount tolerance applied by Query. Kept tight on
// purpose: the amount is the matcher's primary discriminator.
var queryValueEpsilon = decimal.New(1, -2) // 0.01

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, params transaction.CreateTransactionParams) (*transaction.Transaction, error) {
	query := `
		INSERT INTO transactions (type, date, value, description, client_supplier)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, type, date, value, description, client_supplier, created_at
	`

	tx, err := scanTransaction(r.db.QueryRowContext(
		ctx, query,
		params.Type, params.Date, params.Value, params.Description, params.ClientSupplier,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return tx, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*transaction.Transaction, error) {
	query := `
		SELECT id, type, date, value, description, client_supplier, created_at
		FROM transactions
		WHERE id = $1
	`

	tx, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

func (r *TransactionRepository) List(ctx context.Context, limit, offset int) ([]*transaction.Transaction, error) {
	query := `
		SELECT id, type, date, value, description, client_supplier, created_at
		FROM transactions
		ORDER BY date DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// Query returns transactions dated within [from, to] whose value is within
// the fixed epsilon of value, ordered by date then id so the matcher's
// tie-break is reproducible. Transactions already claimed by a
// reconciliation item are excluded, so a rematch pass never burns a
// candidate slot on a transaction it cannot take. Satisfies
// reconciliation.Ledger.
func (r *TransactionRepository) Query(ctx context.Context, from, to time.Time, value decimal.Decimal) ([]*transaction.Transaction, error) {
	query := `
		SELECT id, type, date, value, description, client_supplier, created_at
		FROM transactions
		WHERE date BETWEEN $1 AND $2
		  AND value BETWEEN $3 AND $4
		  AND NOT EXISTS (
			SELECT 1 FROM reconciliation_items
			WHERE matched_transaction_id = transactions.id
		  )
		ORDER BY date, id
	`

	rows, err := r.db.QueryContext(ctx, query, from, to,
		value.Sub(queryValueEpsilon), value.Add(queryValueEpsilon))
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows *sql.Rows) ([]*transaction.Transaction, error) {
	var transactions []*transaction.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}

func scanTransaction(row rowScanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction
	var clientSupplier sql.NullString

	err := row.Scan(
		&tx.ID, &tx.Type, &tx.Date, &tx.Value,
		&tx.Description, &clientSupplier, &tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if clientSupplier.Valid {
		tx.ClientSupplier = &clientSupplier.String
	}
	return &tx, nil
}
