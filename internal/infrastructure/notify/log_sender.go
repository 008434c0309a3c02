package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tradeyard/marketplace-api/internal/core/ports"
)

// LogSender writes notifications to the structured log instead of a mail
// provider. It stands in until an outbound email integration exists.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, n ports.Notification) error {
	s.log.Info().
		Str("recipient_id", n.RecipientID).
		Str("recipient_email", n.RecipientEmail).
		Str("subject", n.Subject).
		Str("body", n.Body).
		Msg("notification sent")
	return nil
}
