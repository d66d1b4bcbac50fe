package mailer

import (
	"context"

	"gym-app-go/pkg/logger"
)

type Message struct {
	To      []string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NopSender logs messages instead of delivering them.
type NopSender struct {
	log logger.Logger
}

func NewNopSender(log logger.Logger) *NopSender {
	return &NopSender{log: logger.OrNop(log)}
}

func (s *NopSender) Send(_ context.Context, msg Message) error {
	s.log.Debug("mailer: delivery disabled", "to", msg.To, "subject", msg.Subject)
	return nil
}
