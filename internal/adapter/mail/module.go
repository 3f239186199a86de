package mail

import (
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/restaurant/internal/config"
)

const displayName = "Restaurant"

// Module exposes the configured mail transport to fx graph.
var Module = fx.Provide(newSender)

type senderParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newSender(p senderParams) (Sender, error) {
	switch p.Config.MailProvider {
	case config.MailProviderSMTP:
		p.Logger.Info("mail transport configured", slog.String("provider", "smtp"), slog.String("host", p.Config.SMTPHost))
		return NewSMTPSender(SMTPConfig{
			Host:     p.Config.SMTPHost,
			Port:     p.Config.SMTPPort,
			Username: p.Config.MailUser,
			Password: p.Config.MailPassword,
		}), nil
	case config.MailProviderSendGrid:
		p.Logger.Info("mail transport configured", slog.String("provider", "sendgrid"))
		return NewSendGridSender(p.Config.SendGridAPIKey, displayName), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", p.Config.MailProvider)
	}
}
