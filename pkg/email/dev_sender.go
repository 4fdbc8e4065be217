package email

import (
	"context"
	"log/slog"
)

// DevSender logs emails instead of delivering them. Used when Postmark
// credentials are not configured.
type DevSender struct {
	log *slog.Logger
}

func NewDevSender(log *slog.Logger) *DevSender {
	if log == nil {
		panic("email: logger is required")
	}
	return &DevSender{log: log}
}

func (s *DevSender) SendEmail(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "email not sent, dev sender active",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("tag", msg.Tag))
	return nil
}
