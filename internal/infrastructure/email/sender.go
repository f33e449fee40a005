// SPDX-License-Identifier: AGPL-3.0-or-later
package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	mail "github.com/go-mail/mail/v2"

	"github.com/btouchard/campaignd/internal/infrastructure/config"
	"github.com/btouchard/campaignd/pkg/logger"
)

// Sender is the low-level SMTP transport: it knows how to dial and
// deliver one already-composed Message, nothing about the catalog or
// audit log.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a fully-composed, ready-to-send email. campaignd never
// renders templates, so Subject/Text are always literal strings
// supplied by a PlainEmail.
type Message struct {
	To      []string
	Subject string
	Text    string
}

// SMTPSender dials the configured relay for every Send call, with a
// go-mail/mail/v2 dialer supporting either TLS or STARTTLS.
type SMTPSender struct {
	config config.SMTPConfig
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{config: cfg}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if s.config.Host == "" {
		logger.Logger.Info("SMTP not configured, email not sent", "subject", msg.Subject)
		return nil
	}

	if len(msg.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.config.From)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)

	d := mail.NewDialer(s.config.Host, s.config.Port, s.config.Username, s.config.Password)

	// Configure TLS: either SSL (port 465, implicit) or STARTTLS
	// (port 587, explicit), not both.
	if s.config.StartTLS {
		d.TLSConfig = &tls.Config{ServerName: s.config.Host}
		d.StartTLSPolicy = mail.MandatoryStartTLS
	} else {
		d.SSL = true
		d.TLSConfig = &tls.Config{ServerName: s.config.Host}
	}

	d.Timeout = 10 * time.Second

	logger.Logger.Info("sending email", "to", msg.To, "subject", msg.Subject)

	done := make(chan error, 1)
	go func() { done <- d.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
