package mail

import (
	"context"
	"fmt"

	"github.com/mrz1836/postmark"
)

// PostmarkSender delivers transactional mail through the Postmark API.
type PostmarkSender struct {
	client *postmark.Client
}

// Config holds the Postmark API credentials.
type Config struct {
	ServerToken  string
	AccountToken string
}

// NewPostmarkSender creates a Postmark-backed Sender. Both tokens are
// required; failing here beats silent delivery failures at runtime.
func NewPostmarkSender(cfg Config) (*PostmarkSender, error) {
	if cfg.ServerToken == "" {
		return nil, fmt.Errorf("postmark server token is required")
	}
	if cfg.AccountToken == "" {
		return nil, fmt.Errorf("postmark account token is required")
	}
	return &PostmarkSender{
		client: postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
	}, nil
}

// Send delivers a single HTML email.
func (s *PostmarkSender) Send(ctx context.Context, subject, htmlBody, to, from string) error {
	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:     from,
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message)
	}
	return nil
}
