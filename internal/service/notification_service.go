package service

import (
	"context"

	"github.com/rs/zerolog"
)

// Notifier receives domain events that will eventually fan out to users.
type Notifier interface {
	SubmissionReceived(ctx context.Context, studentID uint, itemTitle string)
}

// logNotifier records events without delivering anything. Delivery is a
// later phase; the seam exists so callers already emit the events.
type logNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier constructs the logging Notifier stub.
func NewLogNotifier(logger zerolog.Logger) Notifier {
	return &logNotifier{logger: logger.With().Str("component", "notifier").Logger()}
}

func (n *logNotifier) SubmissionReceived(_ context.Context, studentID uint, itemTitle string) {
	n.logger.Debug().
		Uint("student_id", studentID).
		Str("item", itemTitle).
		Msg("submission event recorded, delivery not yet implemented")
}
