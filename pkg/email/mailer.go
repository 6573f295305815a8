package email

import (
	"context"
	"fmt"

	"github.com/camtang26/cre8tiveCA/pkg/validator"
)

// EmailSender represents an interface for sending emails.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) (Receipt, error)
}

// SendEmailParams represents the parameters for sending an email.
type SendEmailParams struct {
	SendTo          string `json:"send_to"`       // Email address of the recipient
	Subject         string `json:"subject"`       // Subject of the email
	BodyHTML        string `json:"body_html"`     // HTML body of the email
	Tag             string `json:"tag,omitempty"` // Optional
	SaveToSentItems bool   `json:"save_to_sent_items"`
}

// Receipt identifies an accepted message. MessageID is provider specific.
type Receipt struct {
	MessageID string `json:"message_id"`
	Driver    string `json:"driver"`
}

// Validate checks the recipient, subject and body. The returned error wraps
// both ErrInvalidParams and validator.ValidationErrors.
func (p SendEmailParams) Validate() error {
	err := validator.Apply(
		validator.RequiredString("send_to", p.SendTo),
		validator.ValidEmail("send_to", p.SendTo),
		validator.RequiredString("subject", p.Subject),
		validator.MaxLenString("subject", p.Subject, 255),
		validator.RequiredString("body_html", p.BodyHTML),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return nil
}
