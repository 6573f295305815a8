// Package email sends transactional mail through a pluggable driver.
//
// Three drivers implement EmailSender:
//   - graph (default): Microsoft Graph sendMail as SENDER_UPN, via graph.MailClient
//   - postmark: Postmark transactional API
//   - dev: writes HTML and JSON files to MAIL_DEV_DIR instead of sending
//
// NewSender picks one from Config.Driver:
//
//	sender, err := email.NewSender(cfg, email.Deps{Graph: mailClient, Logger: log})
//	receipt, err := sender.SendEmail(ctx, email.SendEmailParams{
//	    SendTo:          "user@example.com",
//	    Subject:         "Your consultation",
//	    BodyHTML:        html,
//	    SaveToSentItems: true,
//	})
//
// Every driver validates SendEmailParams first; validation failures wrap
// ErrInvalidParams and validator.ValidationErrors. Delivery failures wrap
// ErrFailedToSendEmail and, for the graph driver, the underlying graph error,
// so callers can match *graph.AuthTokenError, *graph.APIError or
// graph.ErrMisconfigured with errors.As and errors.Is.
//
// The templates subpackage wraps agent supplied HTML in the branded layout:
//
//	html, err := templates.Render(ctx, templates.Layout(body, cfg.Footer))
package email
