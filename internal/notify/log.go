package notify

import (
	"context"
	"log/slog"
	"time"
)

// Log is the Notifier used when no broker is configured. Events land in the
// structured log instead of a topic.
type Log struct {
	logger *slog.Logger
}

var _ Notifier = (*Log)(nil)

// NewLog constructs a log-backed notifier.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Emit(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	l.logger.InfoContext(ctx, "lifecycle notification",
		"type", string(event.Type),
		"identity_id", event.IdentityID,
		"email", event.Email,
		"request_id", event.RequestID,
	)
	return nil
}
