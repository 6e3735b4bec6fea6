// Package notify sends transactional email to guests.
package notify

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("email delivery is not configured")

// Message is a single outgoing email.
type Message struct {
	To      []string
	Subject string
	HTML    string
	ReplyTo string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NopMailer drops every message. It is used when no provider is configured.
type NopMailer struct {
	Logger *zap.Logger
}

func (m NopMailer) Send(_ context.Context, msg Message) error {
	if m.Logger != nil {
		m.Logger.Debug("email not sent, no provider configured", zap.String("subject", msg.Subject))
	}
	return nil
}
