package auditservice

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/dkovalev/loancore/internal/domain"
)

// inlinePool runs tasks synchronously so tests see webhook calls immediately.
type inlinePool struct{}

func (inlinePool) AddTask(_ context.Context, task Task) error { return task() }
func (inlinePool) Close()                                     {}

func TestRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	service := New(repo, "", nil)

	var row *domain.AuditEvent
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, event *domain.AuditEvent) error {
			row = event
			return nil
		})

	service.Record(context.Background(), Event{
		TransactionID: "loan-1",
		Operation:     "PAYMENT_COMPLETED",
		Metadata:      map[string]any{"amount": 1068.49},
	})

	assert.Equal(t, "loan-1", row.TransactionID)
	assert.Equal(t, "PAYMENT_COMPLETED", row.Operation)
	assert.Equal(t, LevelInfo, row.Level)
	assert.Equal(t, "system", row.Service)

	var metadata map[string]any
	assert.NoError(t, json.Unmarshal([]byte(row.Metadata), &metadata))
	assert.Equal(t, 1068.49, metadata["amount"])
}

func TestRecordSwallowsRepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	service := New(repo, "", nil)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("database error"))

	// must not panic or surface the error
	service.Record(context.Background(), Event{TransactionID: "loan-1", Operation: "X"})
}

func TestRecordForwardsToWebhook(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	webhook := NewMockWebhook(ctrl)
	service := New(repo, "https://audit.example.com/sink", webhook)
	service.workerPool = inlinePool{}

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	webhook.EXPECT().Post("https://audit.example.com/sink", "application/json", gomock.Any()).
		DoAndReturn(func(_, _ string, body []byte) (int, []byte, error) {
			var payload map[string]any
			assert.NoError(t, json.Unmarshal(body, &payload))
			assert.Equal(t, "DISBURSEMENT_COMPLETED", payload["operation"])
			return 200, nil, nil
		})

	service.Record(context.Background(), Event{
		TransactionID: "loan-1",
		Operation:     "DISBURSEMENT_COMPLETED",
		Service:       "disbursement",
	})
}

func TestGetTrail(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	service := New(repo, "", nil)

	repo.EXPECT().ListByTransaction(gomock.Any(), "loan-1").
		Return([]domain.AuditEvent{{ID: "evt-1"}, {ID: "evt-2"}}, nil)

	trail, err := service.GetTrail(context.Background(), "loan-1")
	assert.NoError(t, err)
	assert.Len(t, trail, 2)
}
