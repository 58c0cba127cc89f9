// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendgridMailer delivers mail through the SendGrid v3 API.
type SendgridMailer struct {
	apiKey string
	from   *sgmail.Email
}

// NewSendgridMailer creates the production mail backend.
func NewSendgridMailer(apiKey, fromName, fromAddress string) *SendgridMailer {
	return &SendgridMailer{
		apiKey: apiKey,
		from:   sgmail.NewEmail(fromName, fromAddress),
	}
}

/*
Send delivers one message via SendGrid.

Parameters:
  - ctx: context.Context for request cancellation
  - message: The message to deliver

Returns:
  - error: The transport failure or a non-2xx API response, if any
*/
func (m *SendgridMailer) Send(ctx context.Context, message *Message) error {
	personalization := sgmail.NewPersonalization()
	personalization.Subject = "[Thuto] " + message.Subject
	personalization.AddTos(sgmail.NewEmail(message.ToName, message.ToAddress))

	mail := sgmail.NewV3Mail()
	mail.SetFrom(m.from)
	mail.AddPersonalizations(personalization)
	mail.AddContent(
		sgmail.NewContent("text/plain", message.TextBody),
		sgmail.NewContent("text/html", message.HTMLBody),
	)

	request := sendgrid.GetRequest(m.apiKey, sendgridEndpoint, sendgridHost)
	request.Method = http.MethodPost
	request.Body = sgmail.GetRequestBody(mail)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("mailer: sendgrid_request_failed: %w", err)
	}
	if response.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("mailer: sendgrid_rejected: status=%d body=%s", response.StatusCode, response.Body)
	}

	return nil
}
