package postgres

import (
	"context"
	"fmt"

	"cashup/internal/domain/audit"
)

type ActionLogRepository struct {
	db *DB
}

func NewActionLogRepository(db *DB) *ActionLogRepository {
	return &ActionLogRepository{db: db}
}

func (r *ActionLogRepository) Record(ctx context.Context, entry audit.Entry) error {
	query := `
		INSERT INTO action_logs (user_id, action, entity, entity_id)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, entry.UserID, entry.Action, entry.Entity, entry.EntityID)
	if err != nil {
		return fmt.Errorf("failed to record action log: %w", err)
	}
	return nil
}
