// Package auditservice emits structured audit events for every financial
// operation. The sink is fire-and-forget: failures are logged locally and
// never abort the operation that produced the event.
package auditservice

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/dkovalev/loancore/internal/domain"
)

const (
	LevelInfo  = "INFO"
	LevelError = "ERROR"
)

type Repo interface {
	Create(ctx context.Context, event *domain.AuditEvent) error
	ListByTransaction(ctx context.Context, transactionID string) ([]domain.AuditEvent, error)
}

type Webhook interface {
	Post(url string, contentType string, body []byte) (int, []byte, error)
}

type Event struct {
	TransactionID string
	Operation     string
	Level         string
	Service       string
	Metadata      map[string]any
}

type Service struct {
	repo       Repo
	webhookURL string
	client     Webhook
	workerPool WorkerPoolI
}

func New(repo Repo, webhookURL string, client Webhook) *Service {
	return &Service{
		repo:       repo,
		webhookURL: webhookURL,
		client:     client,
		workerPool: NewWorkerPool(4),
	}
}

// Record persists the event and, when a webhook sink is configured, forwards
// it asynchronously. Errors are swallowed after logging. The write runs on a
// fresh context so it survives outside the caller's unit of work.
func (s *Service) Record(ctx context.Context, event Event) {
	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		zap.L().Error("failed to marshal audit metadata", zap.Error(err))
		metadata = []byte("{}")
	}
	if event.Level == "" {
		event.Level = LevelInfo
	}
	if event.Service == "" {
		event.Service = "system"
	}

	row := &domain.AuditEvent{
		TransactionID: event.TransactionID,
		Operation:     event.Operation,
		Level:         event.Level,
		Service:       event.Service,
		Metadata:      string(metadata),
	}
	if err := s.repo.Create(context.Background(), row); err != nil {
		zap.L().Error("failed to persist audit event",
			zap.String("operation", event.Operation), zap.Error(err))
	}

	if s.webhookURL == "" || s.client == nil {
		return
	}
	body, err := json.Marshal(map[string]any{
		"transaction_id": event.TransactionID,
		"operation":      event.Operation,
		"level":          event.Level,
		"service":        event.Service,
		"metadata":       event.Metadata,
	})
	if err != nil {
		zap.L().Error("failed to marshal audit webhook payload", zap.Error(err))
		return
	}
	if err := s.workerPool.AddTask(ctx, func() error {
		status, _, err := s.client.Post(s.webhookURL, "application/json", body)
		if err != nil {
			return err
		}
		if status >= 300 {
			zap.L().Warn("audit webhook returned non-success status", zap.Int("status", status))
		}
		return nil
	}); err != nil {
		zap.L().Error("failed to enqueue audit webhook delivery", zap.Error(err))
	}
}

func (s *Service) GetTrail(ctx context.Context, transactionID string) ([]domain.AuditEvent, error) {
	return s.repo.ListByTransaction(ctx, transactionID)
}

func (s *Service) Close() {
	s.workerPool.Close()
}
