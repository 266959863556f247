package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"cashup/internal/domain/title"
)

type TitleRepository struct {
	db *DB
}

func NewTitleRepository(db *DB) *TitleRepository {
	return &TitleRepository{db: db}
}

func (r *TitleRepository) Create(ctx context.Context, params title.CreateTitleParams) (*title.Title, error) {
	query := `
		INSERT INTO titles (type, client_supplier, due_date, value, status, payment_method, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, type, client_supplier, due_date, value, status, payment_method, notes, transaction_id, created_at
	`

	t, err := scanTitle(r.db.QueryRowContext(
		ctx, query,
		params.Type, params.ClientSupplier, params.DueDate, params.Value,
		title.StatusPending, params.PaymentMethod, params.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create title: %w", err)
	}
	return t, nil
}

func (r *TitleRepository) GetByID(ctx context.Context, id int64) (*title.Title, error) {
	query := `
		SELECT id, type, client_supplier, due_date, value, status, payment_method, notes, transaction_id, created_at
		FROM titles
		WHERE id = $1
	`

	t, err := scanTitle(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, title.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get title: %w", err)
	}
	return t, nil
}

func (r *TitleRepository) List(ctx context.Context, limit, offset int) ([]*title.Title, error) {
	query := `
		SELECT id, type, client_supplier, due_date, value, status, payment_method, notes, transaction_id, created_at
		FROM titles
		ORDER BY due_date, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list titles: %w", err)
	}
	defer rows.Close()

	var titles []*title.Title
	for rows.Next() {
		t, err := scanTitle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan title: %w", err)
		}
		titles = append(titles, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating titles: %w", err)
	}
	return titles, nil
}

func (r *TitleRepository) MarkSettled(ctx context.Context, id, transactionID int64) (*title.Title, error) {
	query := `
		UPDATE titles
		SET status = $2, transaction_id = $3
		WHERE id = $1
		RETURNING id, type, client_supplier, due_date, value, status, payment_method, notes, transaction_id, created_at
	`

	t, err := scanTitle(r.db.QueryRowContext(ctx, query, id, title.StatusSettled, transactionID))
	if err == sql.ErrNoRows {
		return nil, title.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark title settled: %w", err)
	}
	return t, nil
}

func scanTitle(row rowScanner) (*title.Title, error) {
	var t title.Title
	var paymentMethod, notes sql.NullString
	var transactionID sql.NullInt64

	err := row.Scan(
		&t.ID, &t.Type, &t.ClientSupplier, &t.DueDate, &t.Value,
		&t.Status, &paymentMethod, &notes, &transactionID, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if paymentMethod.Valid {
		t.PaymentMethod = &paymentMethod.String
	}
	if notes.Valid {
		t.Notes = &notes.String
	}
	if transactionID.Valid {
		t.TransactionID = &transactionID.Int64
	}
	return &t, nil
}
