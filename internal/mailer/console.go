package mailer

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// ConsoleSender logs messages instead of delivering them and keeps a copy
// for inspection.
type ConsoleSender struct {
	logger zerolog.Logger

	mu   sync.Mutex
	sent []Message
}

func NewConsoleSender(logger zerolog.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logger}
}

func (s *ConsoleSender) Send(_ context.Context, msg *Message) error {
	s.mu.Lock()
	s.sent = append(s.sent, *msg)
	s.mu.Unlock()

	to := make([]string, 0, len(msg.To))
	for _, addr := range msg.To {
		to = append(to, addr.Address)
	}
	s.logger.Info().
		Strs("to", to).
		Str("subject", msg.Subject).
		Int("html_bytes", len(msg.HTMLBody)).
		Msg("Email (console provider)")
	return nil
}

func (s *ConsoleSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.sent))
	copy(out, s.sent)
	return out
}
