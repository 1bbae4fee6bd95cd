// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

// Package mail implements the auth.Notifier port over SMTP.
package mail

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/samber/oops"

	"github.com/petjournal/guardian/internal/auth"
)

// Config holds SMTP relay settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPNotifier delivers auth.Messages through an SMTP relay. Plain auth
// is used when a username is configured. No delivery retries: the flows
// treat a failed send as a collaborator failure.
type SMTPNotifier struct {
	cfg Config
}

// NewSMTPNotifier creates an SMTPNotifier.
func NewSMTPNotifier(cfg Config) (*SMTPNotifier, error) {
	if cfg.Host == "" {
		return nil, oops.Code("MAIL_MISSING_HOST").Errorf("smtp host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, oops.Code("MAIL_INVALID_PORT").With("port", cfg.Port).Errorf("smtp port out of range")
	}
	return &SMTPNotifier{cfg: cfg}, nil
}

// Send delivers the message. The context bounds connection establishment;
// the SMTP dialogue itself inherits the connection's deadline.
func (n *SMTPNotifier) Send(ctx context.Context, msg auth.Message) error {
	addr := net.JoinHostPort(n.cfg.Host, fmt.Sprintf("%d", n.cfg.Port))

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return oops.Code("MAIL_DIAL_FAILED").With("addr", addr).Wrap(err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline) //nolint:errcheck // best effort, dial already succeeded
	}

	client, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		_ = conn.Close() //nolint:errcheck // handshake error takes precedence
		return oops.Code("MAIL_HANDSHAKE_FAILED").With("addr", addr).Wrap(err)
	}
	defer client.Close() //nolint:errcheck // quit below is the meaningful close

	if n.cfg.Username != "" {
		a := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
		if err := client.Auth(a); err != nil {
			return oops.Code("MAIL_AUTH_FAILED").With("addr", addr).Wrap(err)
		}
	}

	if err := client.Mail(msg.From); err != nil {
		return oops.Code("MAIL_SEND_FAILED").With("operation", "MAIL FROM").Wrap(err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return oops.Code("MAIL_SEND_FAILED").With("operation", "RCPT TO").Wrap(err)
	}

	w, err := client.Data()
	if err != nil {
		return oops.Code("MAIL_SEND_FAILED").With("operation", "DATA").Wrap(err)
	}
	if _, err := w.Write([]byte(Render(msg))); err != nil {
		return oops.Code("MAIL_SEND_FAILED").With("operation", "write body").Wrap(err)
	}
	if err := w.Close(); err != nil {
		return oops.Code("MAIL_SEND_FAILED").With("operation", "close body").Wrap(err)
	}

	if err := client.Quit(); err != nil {
		return oops.Code("MAIL_SEND_FAILED").With("operation", "QUIT").Wrap(err)
	}
	return nil
}

// Render serializes a message as an RFC 5322 mail with CRLF line endings.
// Header values are sanitized: the Subject carries guardian-supplied text,
// and an embedded CR or LF would otherwise start a new header line.
func Render(msg auth.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", headerValue(msg.From))
	fmt.Fprintf(&b, "To: %s\r\n", headerValue(msg.To))
	fmt.Fprintf(&b, "Subject: %s\r\n", headerValue(msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return b.String()
}

// headerValue strips CR and LF so a value cannot escape its header line.
func headerValue(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' {
			return -1
		}
		return r
	}, s)
}
