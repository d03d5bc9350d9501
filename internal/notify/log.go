package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogSender пишет оповещения в лог вместо отправки. Транспорт по умолчанию для локального запуска.
type LogSender struct {
	logger *logrus.Logger
}

func NewLogSender(logger *logrus.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Deliver(_ context.Context, to, subject, body string) error {
	s.logger.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
		"body":    body,
	}).Info("Notification")
	return nil
}
