package mail

import (
	"context"
	"log/slog"
)

// ConsoleSender logs messages instead of delivering them. It stands in
// for SendGrid in local development and in tests.
type ConsoleSender struct {
	logger *slog.Logger
}

func NewConsoleSender(logger *slog.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logger}
}

func (s *ConsoleSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "mail (console)",
		"to", msg.ToAddress,
		"subject", msg.Subject,
		"body", msg.PlainText,
	)
	return nil
}
