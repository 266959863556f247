package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cashup/internal/domain/reconciliation"
	"cashup/internal/domain/statement"
)

type ReconciliationRepository struct {
	db *DB
}

func NewReconciliationRepository(db *DB) *ReconciliationRepository {
	return &ReconciliationRepository{db: db}
}

func (r *ReconciliationRepository) Save(ctx context.Context, m statement.Movement) (*reconciliation.Item, error) {
	query := `
		INSERT INTO reconciliation_items (external_id, date, description, value, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, external_id, date, description, value, status, matched_transaction_id, created_at
	`

	var externalID *string
	if m.ExternalID != "" {
		externalID = &m.ExternalID
	}

	item, err := scanItem(r.db.QueryRowContext(
		ctx, query,
		externalID, m.Date, m.Description, m.Value, reconciliation.StatusPending,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to save reconciliation item: %w", err)
	}
	return item, nil
}

func (r *ReconciliationRepository) GetByID(ctx context.Context, id int64) (*reconciliation.Item, error) {
	query := `
		SELECT id, external_id, date, description, value, status, matched_transaction_id, created_at
		FROM reconciliation_items
		WHERE id = $1
	`

	item, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, reconciliation.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reconciliation item: %w", err)
	}
	return item, nil
}

func (r *ReconciliationRepository) List(ctx context.Context, filter reconciliation.ItemFilter) ([]*reconciliation.Item, error) {
	query := `
		SELECT id, external_id, date, description, value, status, matched_transaction_id, created_at
		FROM reconciliation_items
	`

	var conditions []string
	var args []any
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if !filter.DateFrom.IsZero() {
		args = append(args, filter.DateFrom)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if !filter.DateTo.IsZero() {
		args = append(args, filter.DateTo)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliation items: %w", err)
	}
	defer rows.Close()

	var items []*reconciliation.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation item: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reconciliation items: %w", err)
	}
	return items, nil
}

func (r *ReconciliationRepository) UpdateStatus(ctx context.Context, id int64, status reconciliation.Status, matchedTransactionID *int64) (*reconciliation.Item, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", reconciliation.ErrInvalidTransition, status)
	}
	if (status == reconciliation.StatusMatched) != (matchedTransactionID != nil) {
		return nil, reconciliation.ErrInvalidTransition
	}

	// The NOT EXISTS guard enforces at most one item per transaction even
	// when two uploads run concurrently; the partial unique index on
	// matched_transaction_id backs it at the schema level.
	query := `
		UPDATE reconciliation_items
		SET status = $2, matched_transaction_id = $3
		WHERE id = $1
		  AND ($3::bigint IS NULL OR NOT EXISTS (
			SELECT 1 FROM reconciliation_items other
			WHERE other.matched_transaction_id = $3 AND other.id <> $1
		  ))
		RETURNING id, external_id, date, description, value, status, matched_transaction_id, created_at
	`

	item, err := scanItem(r.db.QueryRowContext(ctx, query, id, status, matchedTransactionID))
	if err == sql.ErrNoRows {
		// Either the item does not exist or the transaction is taken.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, reconciliation.ErrNotFound
		}
		return nil, reconciliation.ErrTransactionClaimed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update reconciliation item: %w", err)
	}
	return item, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*reconciliation.Item, error) {
	var item reconciliation.Item
	var externalID sql.NullString
	var matchedTransactionID sql.NullInt64

	err := row.Scan(
		&item.ID, &externalID, &item.Date, &item.Description, &item.Value,
		&item.Status, &matchedTransactionID, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if externalID.Valid {
		item.ExternalID = &externalID.String
	}
	if matchedTransactionID.Valid {
		item.MatchedTransactionID = &matchedTransactionID.Int64
	}
	return &item, nil
}
