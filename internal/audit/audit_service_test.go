package audit_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/WEBX2024/HRMS/internal/audit"
	"github.com/WEBX2024/HRMS/internal/events"
	"github.com/WEBX2024/HRMS/internal/messaging/kafka"
)

type fakeAuditRepository struct {
	createFn func(ctx context.Context, entry *audit.LoginAudit) error
	entries  []*audit.LoginAudit
}

func (f *fakeAuditRepository) Create(ctx context.Context, entry *audit.LoginAudit) error {
	if f.createFn != nil {
		return f.createFn(ctx, entry)
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepository) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]audit.LoginAudit, int64, error) {
	out := make([]audit.LoginAudit, len(f.entries))
	for i, e := range f.entries {
		out[i] = *e
	}
	return out, int64(len(out)), nil
}

func (f *fakeAuditRepository) ListByEmail(ctx context.Context, email string, limit int) ([]audit.LoginAudit, error) {
	return nil, nil
}

type fakeOutbox struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
	events   []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *gorm.DB) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

func TestAuditService_LogAttempt(t *testing.T) {
	ctx := context.Background()

	t.Run("records the attempt and enqueues the event", func(t *testing.T) {
		repo := &fakeAuditRepository{}
		outbox := &fakeOutbox{}
		svc := audit.NewService(repo, outbox)

		tenantID := uuid.New()
		svc.LogAttempt(ctx, audit.Attempt{
			Email:     "dewi@acme.test",
			Status:    audit.StatusBadPassword,
			IPAddress: "10.0.0.7",
			TenantID:  &tenantID,
			DeviceInfo: map[string]string{
				"platform": "web",
			},
		})

		assert.Len(t, repo.entries, 1)
		entry := repo.entries[0]
		assert.Equal(t, audit.StatusBadPassword, entry.Status)
		assert.Equal(t, "dewi@acme.test", entry.Email)
		assert.NotEmpty(t, entry.DeviceInfo)

		if assert.Len(t, outbox.events, 1) {
			assert.Equal(t, events.LoginAttemptedTopic, outbox.events[0].Topic)
			var event events.LoginAttemptedEvent
			assert.NoError(t, json.Unmarshal(outbox.events[0].Payload, &event))
			assert.Equal(t, audit.StatusBadPassword, event.Status)
			assert.Equal(t, tenantID.String(), event.TenantID)
		}
	})

	t.Run("write failure is swallowed", func(t *testing.T) {
		repo := &fakeAuditRepository{
			createFn: func(ctx context.Context, entry *audit.LoginAudit) error {
				return errors.New("connection reset")
			},
		}
		svc := audit.NewService(repo, nil)

		assert.NotPanics(t, func() {
			svc.LogAttempt(ctx, audit.Attempt{
				Email:  "dewi@acme.test",
				Status: audit.StatusSuccess,
			})
		})
	})

	t.Run("outbox failure is swallowed too", func(t *testing.T) {
		repo := &fakeAuditRepository{}
		outbox := &fakeOutbox{
			createFn: func(ctx context.Context, event kafka.OutboxEvent) error {
				return errors.New("outbox table missing")
			},
		}
		svc := audit.NewService(repo, outbox)

		assert.NotPanics(t, func() {
			svc.LogAttempt(ctx, audit.Attempt{
				Email:  "dewi@acme.test",
				Status: audit.StatusSuccess,
			})
		})
		assert.Len(t, repo.entries, 1)
	})
}
