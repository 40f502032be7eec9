// Package notify dispatches issued credentials by email on request. The
// dispatch is a courtesy: failures never affect the credential itself.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/intakeworks/storygate/internal/credentials"
	"github.com/intakeworks/storygate/internal/scoring"
)

// System sends credential emails.
type System interface {
	SendCredential(ctx context.Context, to string, c credentials.Credential) error
}

// Options configures the SMTP notifier.
type Options struct {
	Host     string
	Port     int
	From     string
	Password string
}

type mailer struct {
	opts   Options
	logger *slog.Logger
}

// New creates an SMTP-backed notifier.
func New(opts Options, logger *slog.Logger) System {
	return &mailer{
		opts:   opts,
		logger: logger.With("system", "notify"),
	}
}

func (m *mailer) SendCredential(ctx context.Context, to string, c credentials.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body := buildMessage(m.opts.From, to, c)
	addr := fmt.Sprintf("%s:%d", m.opts.Host, m.opts.Port)

	var auth smtp.Auth
	if m.opts.Password != "" {
		auth = smtp.PlainAuth("", m.opts.From, m.opts.Password, m.opts.Host)
	}

	if err := smtp.SendMail(addr, auth, m.opts.From, []string{to}, body); err != nil {
		return fmt.Errorf("send credential email: %w", err)
	}

	m.logger.Info("credential email sent", "identity", c.IdentityHash)
	return nil
}

func buildMessage(from, to string, c credentials.Credential) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: Your %s reward code\r\n", c.Tier)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&b, "Your reward code: %s\r\n%s\r\n\r\nShow this code at the food booth to claim it.\r\n",
		c.Code, scoring.Description(c.Tier))
	return []byte(b.String())
}

// Disabled is a no-op notifier used when email dispatch is turned off.
type Disabled struct{}

func (Disabled) SendCredential(ctx context.Context, to string, c credentials.Credential) error {
	return fmt.Errorf("email dispatch disabled")
}
