package bridge

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/camtang26/cre8tiveCA/handler"
	"github.com/camtang26/cre8tiveCA/pkg/email"
	"github.com/camtang26/cre8tiveCA/pkg/email/templates"
	"github.com/camtang26/cre8tiveCA/pkg/graph"
	"github.com/camtang26/cre8tiveCA/pkg/logger"
	"github.com/camtang26/cre8tiveCA/pkg/validator"
)

const (
	msgEmailSent          = "Email sent successfully"
	msgEmailFailed        = "Failed to send email"
	msgAzureNotConfigured = "Azure credentials not configured. Please update the service environment variables."
	msgTokenFailed        = "Failed to obtain access token"
)

type emailRequest struct {
	RecipientEmail  string         `json:"recipient_email"`
	EmailSubject    string         `json:"email_subject"`
	EmailBodyHTML   string         `json:"email_body_html"`
	SaveToSentItems *bool          `json:"save_to_sent_items"`
	Metadata        map[string]any `json:"metadata"`
}

func (r emailRequest) validate() error {
	return validator.Apply(
		validator.RequiredString("recipient_email", r.RecipientEmail),
		validator.ValidEmail("recipient_email", r.RecipientEmail),
		validator.RequiredString("email_subject", r.EmailSubject),
		validator.MaxLenString("email_subject", r.EmailSubject, 255),
		validator.RequiredString("email_body_html", r.EmailBodyHTML),
	)
}

// emailSent keeps messageId at the top level, where existing agent tools
// read it.
type emailSent struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	MessageID string `json:"messageId"`
}

func (s *Service) sendEmail(ctx handler.Context, req emailRequest) handler.Response {
	if err := req.validate(); err != nil {
		return handler.Error(err)
	}

	body, err := templates.Render(ctx, templates.Layout(req.EmailBodyHTML, s.footer))
	if err != nil {
		s.log.ErrorContext(ctx, "failed to render email layout", logger.Error(err))
		return handler.Error(err)
	}

	receipt, err := s.mailer.SendEmail(ctx, email.SendEmailParams{
		SendTo:          req.RecipientEmail,
		Subject:         req.EmailSubject,
		BodyHTML:        body,
		Tag:             "agent-email",
		SaveToSentItems: req.SaveToSentItems == nil || *req.SaveToSentItems,
	})
	if err != nil {
		return s.emailFailure(ctx, err)
	}

	s.log.InfoContext(ctx, "agent email sent",
		logger.Event("email_sent"),
		slog.String("driver", receipt.Driver),
		slog.String("message_id", receipt.MessageID),
	)
	return handler.JSON(emailSent{
		Status:    handler.StatusSuccess,
		Message:   msgEmailSent,
		MessageID: receipt.MessageID,
	})
}

func (s *Service) emailFailure(ctx handler.Context, err error) handler.Response {
	var (
		tokenErr *graph.AuthTokenError
		apiErr   *graph.APIError
	)
	switch {
	case errors.Is(err, email.ErrInvalidParams):
		return handler.Error(err)
	case errors.Is(err, graph.ErrMisconfigured):
		s.log.ErrorContext(ctx, "azure credentials not configured", logger.Event("email_misconfigured"))
		return handler.Fail(http.StatusInternalServerError, msgAzureNotConfigured, "Missing or placeholder Azure credentials")
	case errors.As(err, &tokenErr):
		s.log.ErrorContext(ctx, "graph token unavailable",
			logger.Error(err),
			slog.String("error_code", tokenErr.ErrorCode),
		)
		return handler.Fail(http.StatusInternalServerError, msgTokenFailed, map[string]string{
			"error":             tokenErr.ErrorCode,
			"error_description": tokenErr.Description,
		})
	case errors.As(err, &apiErr):
		return handler.Fail(http.StatusBadRequest, msgEmailFailed, apiErr.Body)
	default:
		s.log.ErrorContext(ctx, "email delivery failed", logger.Error(err))
		return handler.Fail(http.StatusInternalServerError, handler.ErrInternal.Message, msgEmailFailed)
	}
}
