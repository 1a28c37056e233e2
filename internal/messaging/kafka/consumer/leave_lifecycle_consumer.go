package consumer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/WEBX2024/HRMS/internal/events"
)

// Notifier delivers a leave decision to the people who care about it.
// Delivery failures are retried by redelivering the kafka message, so
// implementations must be idempotent per request ID.
type Notifier interface {
	NotifyLeaveStatusChanged(ctx context.Context, event events.LeaveStatusChangedEvent) error
}

// LogNotifier stands in for a real mail or push channel. It satisfies
// Notifier by writing a structured record.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger ...*zap.Logger) *LogNotifier {
	l := zap.L().Named("notify.leave")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notify.leave")
	}
	return &LogNotifier{logger: l}
}

func (n *LogNotifier) NotifyLeaveStatusChanged(_ context.Context, event events.LeaveStatusChangedEvent) error {
	n.logger.Info("leave status notification",
		zap.String("request_id", event.RequestID),
		zap.String("tenant_id", event.TenantID),
		zap.String("employee_id", event.EmployeeID),
		zap.String("status", event.Status),
		zap.Float64("days", event.Days),
	)
	return nil
}

func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	notifier Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.LeaveStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			// Poison message: commit past it, a retry cannot fix the payload.
			log.Error("decode leave lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := notifier.NotifyLeaveStatusChanged(ctx, event); err != nil {
			log.Error("notify leave status change failed",
				zap.String("request_id", event.RequestID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave lifecycle message failed", zap.Error(err))
			continue
		}
	}
}
