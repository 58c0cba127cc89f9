// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

/*
Package mailer delivers transactional email for the Thuto platform.

Two backends implement the [Mailer] interface: SendGrid for production and a
console writer for development, selected at startup from configuration. The
service layer depends only on the interface, so tests can capture outgoing
mail without network access.
*/
package mailer

import (
	"context"
	"fmt"
)

// Message is a single transactional email.
type Message struct {
	ToName    string
	ToAddress string
	Subject   string
	TextBody  string
	HTMLBody  string
}

// Mailer is any backend that can deliver a [Message].
type Mailer interface {
	Send(ctx context.Context, message *Message) error
}

// # Message Builders

// VerificationEmail builds the email-verification message. The link carries
// the raw token; only its hash is stored server-side.
func VerificationEmail(name, address, baseURL, token string) *Message {
	link := fmt.Sprintf("%s/verify-email?token=%s", baseURL, token)
	return &Message{
		ToName:    name,
		ToAddress: address,
		Subject:   "Verify your email address",
		TextBody: fmt.Sprintf(
			"Hi %s,\n\nWelcome to Thuto. Please confirm your email address by opening the link below:\n\n%s\n\nThe link expires in 24 hours. If you did not create this account, you can ignore this message.\n",
			name, link,
		),
		HTMLBody: fmt.Sprintf(
			`<p>Hi %s,</p><p>Welcome to Thuto. Please confirm your email address by clicking the link below:</p><p><a href="%s">Verify my email</a></p><p>The link expires in 24 hours. If you did not create this account, you can ignore this message.</p>`,
			name, link,
		),
	}
}

// PasswordResetEmail builds the password-reset message.
func PasswordResetEmail(name, address, baseURL, token string) *Message {
	link := fmt.Sprintf("%s/reset-password?token=%s", baseURL, token)
	return &Message{
		ToName:    name,
		ToAddress: address,
		Subject:   "Reset your password",
		TextBody: fmt.Sprintf(
			"Hi %s,\n\nA password reset was requested for your account. Open the link below to choose a new password:\n\n%s\n\nThe link expires in 1 hour. If you did not request this, no action is needed.\n",
			name, link,
		),
		HTMLBody: fmt.Sprintf(
			`<p>Hi %s,</p><p>A password reset was requested for your account. Click the link below to choose a new password:</p><p><a href="%s">Reset my password</a></p><p>The link expires in 1 hour. If you did not request this, no action is needed.</p>`,
			name, link,
		),
	}
}
