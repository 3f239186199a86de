// Package mail delivers plain-text notification emails through SMTP or SendGrid.
package mail

import (
	"context"
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/restaurant/internal/domain/errors"
	"github.com/polkiloo/restaurant/internal/domain/model"
)

var (
	// ErrNoRecipient is returned for messages without a destination address.
	ErrNoRecipient     = fmt.Errorf("mail: message has no recipient: %w", domainErrors.ErrInvalidMessage)
	// ErrHeaderLineBreak is returned when an address or subject would inject headers.
	ErrHeaderLineBreak = fmt.Errorf("mail: header values must not contain line breaks: %w", domainErrors.ErrInvalidMessage)
)

// Sender hands a message over to a mail transport.
type Sender interface {
	Send(ctx context.Context, msg model.Message) error
}

func checkMessage(msg model.Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return ErrNoRecipient
	}
	if strings.ContainsAny(msg.To+msg.From+msg.Subject, "\r\n") {
		return ErrHeaderLineBreak
	}
	return nil
}
