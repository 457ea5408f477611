package mail

import (
	"context"
	"log"
)

// Sender is the outbound mail collaborator.
type Sender interface {
	Send(ctx context.Context, subject, htmlBody, to, from string) error
}

// LogSender writes outgoing mail to the process log instead of delivering it.
// Used in development when no Postmark credentials are configured.
type LogSender struct{}

// Send logs the message and reports success.
func (LogSender) Send(_ context.Context, subject, htmlBody, to, from string) error {
	log.Printf("mail (log only) to=%s from=%s subject=%q body:\n%s", to, from, subject, htmlBody)
	return nil
}
