package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/polkiloo/restaurant/internal/domain/model"
)

type sendGridClient interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

// SendGridSender sends mail through the SendGrid v3 API.
type SendGridSender struct {
	client   sendGridClient
	fromName string
}

// NewSendGridSender creates a SendGrid transport. fromName is shown next to the sender address.
func NewSendGridSender(apiKey, fromName string) *SendGridSender {
	return &SendGridSender{client: sendgrid.NewSendClient(apiKey), fromName: fromName}
}

// Send posts msg to SendGrid. Any non-2xx answer is an error.
func (s *SendGridSender) Send(ctx context.Context, msg model.Message) error {
	if err := checkMessage(msg); err != nil {
		return err
	}

	email := sgmail.NewV3MailInit(
		sgmail.NewEmail(s.fromName, msg.From),
		msg.Subject,
		sgmail.NewEmail("", msg.To),
		sgmail.NewContent("text/plain", msg.Body),
	)

	resp, err := s.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sendgrid send: unexpected status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

var _ Sender = (*SendGridSender)(nil)
