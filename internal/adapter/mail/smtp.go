package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/polkiloo/restaurant/internal/domain/model"
)

const implicitTLSPort = "465"

// SMTPConfig holds the relay endpoint and credentials.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

type dialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// SMTPSender sends mail over an authenticated SMTP session.
// Port 465 uses implicit TLS, other ports upgrade with STARTTLS when offered.
type SMTPSender struct {
	cfg  SMTPConfig
	dial dialFunc
	tls  *tls.Config
}

// NewSMTPSender creates an SMTP transport.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	dialer := &net.Dialer{}
	return &SMTPSender{
		cfg:  cfg,
		dial: dialer.DialContext,
		tls:  &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12},
	}
}

// Send delivers msg, honoring the context deadline for the whole SMTP exchange.
func (s *SMTPSender) Send(ctx context.Context, msg model.Message) error {
	if err := checkMessage(msg); err != nil {
		return err
	}

	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	conn, err := s.dial(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	if s.cfg.Port == implicitTLSPort {
		conn = tls.Client(conn, s.tls)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if err := s.deliver(client, msg); err != nil {
		return err
	}
	return client.Quit()
}

func (s *SMTPSender) deliver(client *smtp.Client, msg model.Message) error {
	if s.cfg.Port != implicitTLSPort {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(s.tls); err != nil {
				return fmt.Errorf("smtp starttls: %w", err)
			}
		}
	}

	if s.cfg.Username != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
			if err := client.Auth(auth); err != nil {
				return fmt.Errorf("smtp auth: %w", err)
			}
		}
	}

	if err := client.Mail(msg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(buildRaw(msg)); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp data close: %w", err)
	}
	return nil
}

func buildRaw(msg model.Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + msg.From + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(msg.Body, "\r\n", "\n"), "\n", "\r\n"))
	return []byte(b.String())
}

var _ Sender = (*SMTPSender)(nil)
