package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/WEBX2024/HRMS/internal/events"
	"github.com/WEBX2024/HRMS/internal/messaging/kafka"
)

// Attempt is one login attempt to record.
type Attempt struct {
	Email         string
	Status        string
	IPAddress     string
	UserAgent     string
	UserID        *uuid.UUID
	TenantID      *uuid.UUID
	FailureReason string
	DeviceInfo    map[string]string
}

//go:generate mockgen -source=audit_service.go -destination=mock/audit_service_mock.go -package=mock
type Service interface {
	// LogAttempt never returns an error: an audit write failure degrades
	// observability, not login availability. Failures are logged here and
	// swallowed.
	LogAttempt(ctx context.Context, attempt Attempt)

	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]LoginAudit, int64, error)
}

type service struct {
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("audit.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.service")
	}
	return &service{repo: repo, outbox: outbox, logger: l, now: time.Now}
}

func (s *service) LogAttempt(ctx context.Context, attempt Attempt) {
	entry := &LoginAudit{
		ID:        uuid.New(),
		TenantID:  attempt.TenantID,
		UserID:    attempt.UserID,
		Email:     attempt.Email,
		Status:    attempt.Status,
		IPAddress: attempt.IPAddress,
		UserAgent: attempt.UserAgent,
		CreatedAt: s.now().UTC(),
	}
	if attempt.FailureReason != "" {
		entry.FailureReason = &attempt.FailureReason
	}
	if len(attempt.DeviceInfo) > 0 {
		if raw, err := json.Marshal(attempt.DeviceInfo); err == nil {
			entry.DeviceInfo = raw
		}
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("login audit write failed",
			zap.String("email", attempt.Email),
			zap.String("status", attempt.Status),
			zap.Error(err),
		)
	}

	s.emitAttempt(ctx, entry)
}

// emitAttempt feeds the security event stream. Same rule as the DB write:
// a broken outbox must never fail a login.
func (s *service) emitAttempt(ctx context.Context, entry *LoginAudit) {
	if s.outbox == nil {
		return
	}

	event := events.LoginAttemptedEvent{
		EventType:  "login_attempted",
		Email:      entry.Email,
		Status:     entry.Status,
		IPAddress:  entry.IPAddress,
		OccurredAt: entry.CreatedAt,
	}
	if entry.TenantID != nil {
		event.TenantID = entry.TenantID.String()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("encode login event failed", zap.Error(err))
		return
	}
	outboxEvent := kafka.OutboxEvent{
		ID:            uuid.NewString(),
		AggregateType: "login_audit",
		AggregateID:   entry.ID.String(),
		EventType:     event.EventType,
		Topic:         events.LoginAttemptedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := s.outbox.Create(ctx, outboxEvent); err != nil {
		s.logger.Error("enqueue login event failed", zap.Error(err))
	}
}

func (s *service) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]LoginAudit, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByTenant(ctx, tenantID, limit, offset)
}
