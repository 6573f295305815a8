package email

import (
	"context"
	"fmt"

	"github.com/camtang26/cre8tiveCA/pkg/graph"
)

// GraphMailer is the subset of *graph.MailClient the Graph driver needs.
type GraphMailer interface {
	SendMail(ctx context.Context, msg graph.Message) (graph.SendResult, error)
}

type graphSender struct {
	mailer GraphMailer
}

// NewGraphSender sends through Microsoft Graph. A nil mailer yields a sender
// whose every call fails with graph.ErrMisconfigured, so a service without
// Azure credentials still starts and reports the problem per request.
func NewGraphSender(mailer GraphMailer) EmailSender {
	return &graphSender{mailer: mailer}
}

// SendEmail keeps the graph error in the chain: callers use errors.As to tell
// a token failure (*graph.AuthTokenError) from a rejection (*graph.APIError).
func (s *graphSender) SendEmail(ctx context.Context, params SendEmailParams) (Receipt, error) {
	if err := params.Validate(); err != nil {
		return Receipt{}, err
	}
	if s.mailer == nil {
		return Receipt{}, fmt.Errorf("%w: %w", ErrFailedToSendEmail, graph.ErrMisconfigured)
	}

	res, err := s.mailer.SendMail(ctx, graph.Message{
		To:              []string{params.SendTo},
		Subject:         params.Subject,
		HTMLBody:        params.BodyHTML,
		SaveToSentItems: params.SaveToSentItems,
	})
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %w", ErrFailedToSendEmail, err)
	}
	return Receipt{MessageID: res.MessageID, Driver: DriverGraph}, nil
}
