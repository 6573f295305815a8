package email_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/camtang26/cre8tiveCA/pkg/email"
	"github.com/camtang26/cre8tiveCA/pkg/graph"
	"github.com/camtang26/cre8tiveCA/pkg/validator"
)

type mockGraphMailer struct {
	mock.Mock
}

func (m *mockGraphMailer) SendMail(ctx context.Context, msg graph.Message) (graph.SendResult, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(graph.SendResult), args.Error(1)
}

func validParams() email.SendEmailParams {
	return email.SendEmailParams{
		SendTo:          "user@example.com",
		Subject:         "Your consultation",
		BodyHTML:        "<p>See you soon</p>",
		SaveToSentItems: true,
	}
}

func TestSendEmailParams_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*email.SendEmailParams)
		field  string
	}{
		{name: "valid", mutate: func(*email.SendEmailParams) {}},
		{name: "empty recipient", mutate: func(p *email.SendEmailParams) { p.SendTo = "" }, field: "send_to"},
		{name: "invalid recipient", mutate: func(p *email.SendEmailParams) { p.SendTo = "user@" }, field: "send_to"},
		{name: "blank subject", mutate: func(p *email.SendEmailParams) { p.Subject = "   " }, field: "subject"},
		{name: "long subject", mutate: func(p *email.SendEmailParams) { p.Subject = strings.Repeat("s", 256) }, field: "subject"},
		{name: "empty body", mutate: func(p *email.SendEmailParams) { p.BodyHTML = "" }, field: "body_html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := validParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, email.ErrInvalidParams)
			assert.True(t, validator.Extract(err).Has(tt.field))
		})
	}
}

func TestGraphSender(t *testing.T) {
	t.Parallel()

	t.Run("maps params onto a graph message", func(t *testing.T) {
		t.Parallel()

		m := &mockGraphMailer{}
		m.On("SendMail", mock.Anything, graph.Message{
			To:              []string{"user@example.com"},
			Subject:         "Your consultation",
			HTMLBody:        "<p>See you soon</p>",
			SaveToSentItems: true,
		}).Return(graph.SendResult{MessageID: "msg-1"}, nil).Once()

		receipt, err := email.NewGraphSender(m).SendEmail(context.Background(), validParams())
		require.NoError(t, err)
		assert.Equal(t, email.Receipt{MessageID: "msg-1", Driver: email.DriverGraph}, receipt)
		m.AssertExpectations(t)
	})

	t.Run("keeps graph errors in the chain", func(t *testing.T) {
		t.Parallel()

		m := &mockGraphMailer{}
		rejection := &graph.APIError{StatusCode: 400, Message: "Invalid recipient"}
		m.On("SendMail", mock.Anything, mock.Anything).Return(graph.SendResult{}, rejection).Once()

		_, err := email.NewGraphSender(m).SendEmail(context.Background(), validParams())
		require.Error(t, err)
		assert.ErrorIs(t, err, email.ErrFailedToSendEmail)

		var apiErr *graph.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "Invalid recipient", apiErr.Message)
	})

	t.Run("nil mailer reports misconfiguration", func(t *testing.T) {
		t.Parallel()

		_, err := email.NewGraphSender(nil).SendEmail(context.Background(), validParams())
		assert.ErrorIs(t, err, graph.ErrMisconfigured)
	})

	t.Run("invalid params never reach graph", func(t *testing.T) {
		t.Parallel()

		m := &mockGraphMailer{}
		p := validParams()
		p.SendTo = "nope"

		_, err := email.NewGraphSender(m).SendEmail(context.Background(), p)
		assert.ErrorIs(t, err, email.ErrInvalidParams)
		m.AssertNotCalled(t, "SendMail", mock.Anything, mock.Anything)
	})
}

func TestDevSender(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")
	fixed := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	sender := email.NewDevSender(dir, email.WithDevClock(func() time.Time { return fixed }))

	p := validParams()
	p.Tag = "Booking Confirmation!"
	receipt, err := sender.SendEmail(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, email.DriverDev, receipt.Driver)
	assert.NotEmpty(t, receipt.MessageID)

	htmlFiles, err := filepath.Glob(filepath.Join(dir, "2025_06_02_093000_booking_confirmation_*.html"))
	require.NoError(t, err)
	require.Len(t, htmlFiles, 1)

	body, err := os.ReadFile(htmlFiles[0])
	require.NoError(t, err)
	assert.Equal(t, p.BodyHTML, string(body))

	raw, err := os.ReadFile(strings.TrimSuffix(htmlFiles[0], ".html") + ".json")
	require.NoError(t, err)

	var meta map[string]any
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, receipt.MessageID, meta["message_id"])
	assert.Equal(t, "user@example.com", meta["send_to"])
	assert.Equal(t, "2025-06-02T09:30:00Z", meta["timestamp"])
	assert.Equal(t, true, meta["save_to_sent_items"])
}

func TestNewPostmarkClient(t *testing.T) {
	t.Parallel()

	valid := email.Config{
		PostmarkServerToken:  "server-token",
		PostmarkAccountToken: "account-token",
		SenderEmail:          "bookings@example.com",
		SupportEmail:         "support@example.com",
	}

	client, err := email.NewPostmarkClient(valid)
	require.NoError(t, err)
	assert.NotNil(t, client)

	tests := []struct {
		name   string
		mutate func(*email.Config)
		msg    string
	}{
		{name: "server token", mutate: func(c *email.Config) { c.PostmarkServerToken = "" }, msg: "POSTMARK_SERVER_TOKEN"},
		{name: "account token", mutate: func(c *email.Config) { c.PostmarkAccountToken = "" }, msg: "POSTMARK_ACCOUNT_TOKEN"},
		{name: "sender", mutate: func(c *email.Config) { c.SenderEmail = "bookings" }, msg: "MAIL_FROM"},
		{name: "reply to", mutate: func(c *email.Config) { c.SupportEmail = "" }, msg: "MAIL_REPLY_TO"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid
			tt.mutate(&cfg)
			client, err := email.NewPostmarkClient(cfg)
			assert.Nil(t, client)
			assert.ErrorIs(t, err, email.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Panics(t, func() { email.MustNewPostmarkClient(cfg) })
		})
	}
}

func TestNewSender(t *testing.T) {
	t.Parallel()

	t.Run("defaults to graph", func(t *testing.T) {
		t.Parallel()

		m := &mockGraphMailer{}
		m.On("SendMail", mock.Anything, mock.Anything).Return(graph.SendResult{MessageID: "sent"}, nil).Once()

		sender, err := email.NewSender(email.Config{}, email.Deps{Graph: m})
		require.NoError(t, err)

		receipt, err := sender.SendEmail(context.Background(), validParams())
		require.NoError(t, err)
		assert.Equal(t, email.DriverGraph, receipt.Driver)
	})

	t.Run("dev", func(t *testing.T) {
		t.Parallel()

		sender, err := email.NewSender(email.Config{Driver: "DEV", DevDir: t.TempDir()}, email.Deps{})
		require.NoError(t, err)
		assert.IsType(t, &email.DevSender{}, sender)
	})

	t.Run("postmark config errors surface", func(t *testing.T) {
		t.Parallel()

		_, err := email.NewSender(email.Config{Driver: email.DriverPostmark}, email.Deps{})
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Parallel()

		_, err := email.NewSender(email.Config{Driver: "smtp"}, email.Deps{})
		assert.ErrorIs(t, err, email.ErrUnknownDriver)
	})
}
