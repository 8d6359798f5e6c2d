// Package mail delivers plain-text messages through SMTP, SendGrid or the log.
package mail

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-site/pkg/config"
)

// ErrNoRecipients is returned when a message has nobody to deliver to.
var ErrNoRecipients = errors.New("mail: message has no recipients")

// Message is a single plain-text email.
type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	Body    string
}

func (m Message) validate() error {
	if len(m.To) == 0 {
		return ErrNoRecipients
	}
	return nil
}

// Transport sends a message or reports why it could not.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// NewTransport picks the transport named by cfg.Driver.
func NewTransport(cfg config.MailConfig, logger *zap.Logger) Transport {
	switch cfg.Driver {
	case config.MailDriverConsole:
		return NewConsoleTransport(logger)
	case config.MailDriverSendgrid:
		return NewSendgridTransport(cfg.SendgridAPIKey, cfg.Timeout)
	default:
		return NewSMTPTransport(cfg.Server, cfg.Port, cfg.Username, cfg.Password, cfg.Timeout)
	}
}

// render produces the RFC 5322 header block and body.
func render(msg Message, now time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	if msg.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", msg.ReplyTo)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", sanitizeHeader(msg.Subject)))
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
