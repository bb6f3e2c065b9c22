package rollbackrepo

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dkovalev/loancore/internal/domain"
	"github.com/dkovalev/loancore/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, record *domain.RollbackRecord) (*domain.RollbackRecord, error) {
	query := `
        INSERT INTO rollback_records (id, transaction_id, original_operation, rollback_reason,
                                      compensating_actions, rolled_back_by, error_details)
        VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
        RETURNING id, transaction_id, original_operation, rollback_reason,
                  compensating_actions, rolled_back_by, COALESCE(error_details, ''), created_at
    `
	var created domain.RollbackRecord
	err := r.db.QueryRow(ctx, query,
		uuid.New().String(), record.TransactionID, record.OriginalOperation, record.RollbackReason,
		record.CompensatingActions, record.RolledBackBy, record.ErrorDetails).
		Scan(&created.ID, &created.TransactionID, &created.OriginalOperation, &created.RollbackReason,
			&created.CompensatingActions, &created.RolledBackBy, &created.ErrorDetails, &created.CreatedAt)
	if err != nil {
		zap.L().Error("failed to create rollback record", zap.Error(err))
		return nil, err
	}
	return &created, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.RollbackRecord, error) {
	query := `
        SELECT id, transaction_id, original_operation, rollback_reason,
               compensating_actions, rolled_back_by, COALESCE(error_details, ''), created_at
        FROM rollback_records
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("failed to list rollback records", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var records []domain.RollbackRecord
	for rows.Next() {
		var rec domain.RollbackRecord
		if err := rows.Scan(&rec.ID, &rec.TransactionID, &rec.OriginalOperation, &rec.RollbackReason,
			&rec.CompensatingActions, &rec.RolledBackBy, &rec.ErrorDetails, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
