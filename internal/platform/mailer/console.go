// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package mailer

import (
	"context"
	"log/slog"
)

// ConsoleMailer writes outgoing mail to the structured log instead of
// delivering it. Used in development when no SendGrid key is configured, so
// verification and reset links stay visible in the server output.
type ConsoleMailer struct {
	logger *slog.Logger
}

// NewConsoleMailer creates the development mail backend.
func NewConsoleMailer(logger *slog.Logger) *ConsoleMailer {
	return &ConsoleMailer{logger: logger}
}

// Send logs the message instead of delivering it.
func (m *ConsoleMailer) Send(ctx context.Context, message *Message) error {
	m.logger.InfoContext(ctx, "email_console_delivery",
		slog.String("to", message.ToAddress),
		slog.String("subject", message.Subject),
		slog.String("body", message.TextBody),
	)
	return nil
}
