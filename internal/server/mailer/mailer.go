// Package mailer sends the flatworm warning mail. Sending is best effort:
// callers log failures and never surface them to the uploader.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	sc "wormdetector/internal/server/config"
)

// Alerter notifies a user that a flatworm was detected in their upload.
type Alerter interface {
	FlatwormAlert(ctx context.Context, username, email string, confidence float64, when time.Time) error
}

// SMTPAlerter delivers alerts over SMTP via go-mail.
type SMTPAlerter struct {
	config *sc.Config
}

func NewSMTPAlerter(config *sc.Config) *SMTPAlerter {
	return &SMTPAlerter{config: config}
}

// seam for testing
var dialAndSend = func(c *mail.Client, ctx context.Context, msg *mail.Msg) error {
	return c.DialAndSendWithContext(ctx, msg)
}

func (a *SMTPAlerter) FlatwormAlert(ctx context.Context, username, email string, confidence float64, when time.Time) error {

	msg := mail.NewMsg()
	if err := msg.From(a.config.SMTPFrom); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(email); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}

	msg.Subject("Flatworm Detected!")
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Hello %s,\n\n"+
			"Our system detected a flatworm in your submitted image.\n\n"+
			"Confidence: %.2f\n"+
			"Time: %s\n\n"+
			"Please review this immediately.\n\n"+
			"Regards,\nWorm Detection System",
		username, confidence, when.Format("2006-01-02 15:04:05")))

	opts := []mail.Option{mail.WithPort(a.config.SMTPPort)}
	if a.config.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(a.config.SMTPUser),
			mail.WithPassword(a.config.SMTPPassword),
		)
	}

	client, err := mail.NewClient(a.config.SMTPHost, opts...)
	if err != nil {
		return fmt.Errorf("smtp client error: %w", err)
	}

	if err := dialAndSend(client, ctx, msg); err != nil {
		return fmt.Errorf("mail send error: %w", err)
	}

	return nil
}

// NopAlerter is used when no SMTP host is configured.
type NopAlerter struct{}

func (NopAlerter) FlatwormAlert(context.Context, string, string, float64, time.Time) error {
	return nil
}
