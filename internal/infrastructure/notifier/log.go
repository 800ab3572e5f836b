package notifier

import (
	"context"

	"job-board/internal/domain/notification"
	"job-board/internal/logger"

	"go.uber.org/zap"
)

// LogNotifier writes rendered messages to the log instead of sending them.
// Meant for local development.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (LogNotifier) Send(_ context.Context, msg notification.Message) error {
	body, err := Render(msg.Template, msg.Data)
	if err != nil {
		return err
	}

	logger.Info("Email not sent, log notifier active",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("template", msg.Template),
		zap.String("body", body),
		zap.String("event", "email_logged"),
	)
	return nil
}
