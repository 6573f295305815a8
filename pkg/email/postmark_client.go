package email

import (
	"context"
	"fmt"

	"github.com/mrz1836/postmark"

	"github.com/camtang26/cre8tiveCA/pkg/validator"
)

type postmarkClient struct {
	client *postmark.Client
	from   string
	reply  string
}

// NewPostmarkClient creates a Postmark-backed email sender. Both tokens and
// both addresses are required.
func NewPostmarkClient(cfg Config) (EmailSender, error) {
	err := validator.Apply(
		validator.RequiredString("POSTMARK_SERVER_TOKEN", cfg.PostmarkServerToken),
		validator.RequiredString("POSTMARK_ACCOUNT_TOKEN", cfg.PostmarkAccountToken),
		validator.ValidEmail("MAIL_FROM", cfg.SenderEmail),
		validator.ValidEmail("MAIL_REPLY_TO", cfg.SupportEmail),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &postmarkClient{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		from:   cfg.SenderEmail,
		reply:  cfg.SupportEmail,
	}, nil
}

// MustNewPostmarkClient creates a Postmark client that panics on invalid config.
func MustNewPostmarkClient(cfg Config) EmailSender {
	client, err := NewPostmarkClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// SendEmail implements EmailSender using Postmark's transactional API.
// Opens are tracked and links only in the HTML part. Replies go to MAIL_REPLY_TO.
func (c *postmarkClient) SendEmail(ctx context.Context, params SendEmailParams) (Receipt, error) {
	if err := params.Validate(); err != nil {
		return Receipt{}, err
	}

	resp, err := c.client.SendEmail(ctx, postmark.Email{
		From:       c.from,
		ReplyTo:    c.reply,
		To:         params.SendTo,
		Subject:    params.Subject,
		Tag:        params.Tag,
		HTMLBody:   params.BodyHTML,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	switch {
	case err != nil:
		return Receipt{}, fmt.Errorf("%w: postmark: %w", ErrFailedToSendEmail, err)
	case resp.ErrorCode > 0:
		return Receipt{}, fmt.Errorf("%w: postmark error %d: %s", ErrFailedToSendEmail, resp.ErrorCode, resp.Message)
	}
	return Receipt{MessageID: resp.MessageID, Driver: DriverPostmark}, nil
}
