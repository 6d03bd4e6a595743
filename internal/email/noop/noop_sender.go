package noop

import (
	"context"

	"github.com/rs/zerolog/log"

	"fedauth/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that only logs.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	log.Ctx(ctx).Info().Str("to", toEmail).Str("name", toName).Msg("noop email: welcome")
	return nil
}
