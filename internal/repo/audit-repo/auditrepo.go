package auditrepo

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

func (r *Repository) Create(ctx context.Context, event *domain.AuditEvent) error {
	query := `
        INSERT INTO audit_logs (id, transaction_id, operation, level, service, metadata)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.db.Exec(ctx, query,
		uuid.New().String(), event.TransactionID, event.Operation, event.Level, event.Service, event.Metadata)
	if err != nil {
		zap.L().Error("failed to write audit log", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) ListByTransaction(ctx context.Context, transactionID string) ([]domain.AuditEvent, error) {
	query := `
        SELECT id, transaction_id, operation, level, service, metadata, created_at
        FROM audit_logs
        WHERE transaction_id = $1
        ORDER BY created_at
    `
	rows, err := r.db.Query(ctx, query, transactionID)
	if err != nil {
		zap.L().Error("failed to list audit logs", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var events []domain.AuditEvent
	for rows.Next() {
		var e domain.AuditEvent
		if err := rows.Scan(&e.ID, &e.TransactionID, &e.Operation, &e.Level, &e.Service, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
