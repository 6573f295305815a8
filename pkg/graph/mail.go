package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/camtang26/cre8tiveCA/pkg/logger"
)

const (
	providerName = "graph"
	maxErrorBody = 4 << 10
)

// TokenSource yields bearer tokens. *TokenCache satisfies it.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Message is one outgoing HTML email.
type Message struct {
	To              []string
	Subject         string
	HTMLBody        string
	SaveToSentItems bool
}

// SendResult identifies an accepted message. MessageID falls back to "sent"
// because Graph's sendMail normally returns no message id.
type SendResult struct {
	MessageID string
	RequestID string
}

// MailClient sends mail as a fixed mailbox through /users/{upn}/sendMail.
type MailClient struct {
	tokens    TokenSource
	senderUPN string
	baseURL   string
	client    *http.Client
	log       *slog.Logger
	observer  Observer
}

type MailOption func(*MailClient)

func WithMailBaseURL(u string) MailOption {
	return func(m *MailClient) {
		if u != "" {
			m.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithMailHTTPClient(hc *http.Client) MailOption {
	return func(m *MailClient) {
		if hc != nil {
			m.client = hc
		}
	}
}

func WithMailLogger(l *slog.Logger) MailOption {
	return func(m *MailClient) {
		if l != nil {
			m.log = l
		}
	}
}

func WithMailObserver(o Observer) MailOption {
	return func(m *MailClient) {
		if o != nil {
			m.observer = o
		}
	}
}

// NewMailClient builds a client sending as senderUPN. The default HTTP client
// times out after 15 seconds.
func NewMailClient(tokens TokenSource, senderUPN string, opts ...MailOption) *MailClient {
	m := &MailClient{
		tokens:    tokens,
		senderUPN: senderUPN,
		baseURL:   DefaultBaseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
		log:       logger.Discard(),
		observer:  noopObserver{},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With(logger.Component("graph.mail"), logger.Provider(providerName))
	return m
}

type sendMailRequest struct {
	Message         graphMessage `json:"message"`
	SaveToSentItems bool         `json:"saveToSentItems"`
}

type graphMessage struct {
	Subject      string      `json:"subject"`
	Body         itemBody    `json:"body"`
	ToRecipients []recipient `json:"toRecipients"`
}

type itemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type recipient struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

type emailAddress struct {
	Address string `json:"address"`
}

type graphErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SendMail acquires a token and posts the message. Token failures are
// returned unchanged (*AuthTokenError); a non-2xx Graph response is *APIError.
func (m *MailClient) SendMail(ctx context.Context, msg Message) (SendResult, error) {
	token, err := m.tokens.AccessToken(ctx)
	if err != nil {
		return SendResult{}, err
	}

	payload := sendMailRequest{
		Message: graphMessage{
			Subject:      msg.Subject,
			Body:         itemBody{ContentType: "HTML", Content: msg.HTMLBody},
			ToRecipients: make([]recipient, 0, len(msg.To)),
		},
		SaveToSentItems: msg.SaveToSentItems,
	}
	for _, to := range msg.To {
		payload.Message.ToRecipients = append(payload.Message.ToRecipients, recipient{EmailAddress: emailAddress{Address: to}})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return SendResult{}, fmt.Errorf("graph: encode sendMail request: %w", err)
	}

	endpoint := m.baseURL + "/users/" + url.PathEscape(m.senderUPN) + "/sendMail"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return SendResult{}, fmt.Errorf("graph: build sendMail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := m.client.Do(req)
	elapsed := time.Since(started)
	if err != nil {
		m.observer.ObserveUpstream(providerName, "error", elapsed)
		return SendResult{}, fmt.Errorf("graph: sendMail: %w", err)
	}
	defer resp.Body.Close()

	requestID := resp.Header.Get("request-id")
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		_, _ = io.Copy(io.Discard, resp.Body)
		m.observer.ObserveUpstream(providerName, "success", elapsed)
		messageID := resp.Header.Get("x-ms-message-id")
		if messageID == "" {
			messageID = "sent"
		}
		m.log.InfoContext(ctx, "email sent",
			slog.Int("recipients", len(msg.To)),
			slog.String("graph_request_id", requestID),
			logger.Duration(elapsed),
		)
		return SendResult{MessageID: messageID, RequestID: requestID}, nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: requestID, Body: string(raw)}
	var ge graphErrorBody
	if json.Unmarshal(raw, &ge) == nil {
		apiErr.Code = ge.Error.Code
		apiErr.Message = ge.Error.Message
	}

	m.observer.ObserveUpstream(providerName, "rejected", elapsed)
	m.log.WarnContext(ctx, "graph rejected sendMail",
		logger.StatusCode(resp.StatusCode),
		slog.String("graph_error_code", apiErr.Code),
		slog.String("graph_request_id", requestID),
		logger.Duration(elapsed),
	)
	return SendResult{}, apiErr
}
