package calcom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/camtang26/cre8tiveCA/pkg/logger"
)

const (
	providerName = "calcom"
	maxBody      = 64 << 10
)

// BookingRequest is one consultation to book. Zero EventTypeID and empty
// TimeZone fall back to the configured defaults; a zero End is omitted and
// Cal.com derives it from the event type length.
type BookingRequest struct {
	EventTypeID int
	Start       time.Time
	End         time.Time
	TimeZone    string
	Name        string
	Email       string
	Guests      []string
	Metadata    map[string]any
	Language    string
}

// Booking is the subset of Cal.com's booking the bridge reports back.
type Booking struct {
	ID         int64  `json:"id"`
	UID        string `json:"uid"`
	Title      string `json:"title"`
	Start      string `json:"start"`
	End        string `json:"end"`
	MeetingURL string `json:"meetingUrl"`
}

type Client struct {
	cfg      Config
	client   *http.Client
	log      *slog.Logger
	observer Observer
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.cfg.BaseURL = u
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(c *Client) {
		if o != nil {
			c.observer = o
		}
	}
}

// NewClient never fails; configuration problems surface from CreateBooking.
func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:      cfg.withDefaults(),
		log:      logger.Discard(),
		observer: noopObserver{},
	}
	c.client = &http.Client{Timeout: c.cfg.Timeout}
	for _, opt := range opts {
		opt(c)
	}
	c.cfg.BaseURL = strings.TrimRight(c.cfg.BaseURL, "/")
	c.log = c.log.With(logger.Component("calcom"), logger.Provider(providerName))
	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool { return c.cfg.Validate() == nil }

type bookingPayload struct {
	EventTypeID int            `json:"eventTypeId"`
	Start       string         `json:"start"`
	End         string         `json:"end,omitempty"`
	TimeZone    string         `json:"timeZone"`
	Responses   responses      `json:"responses"`
	Metadata    map[string]any `json:"metadata"`
	Language    string         `json:"language"`
}

type responses struct {
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Guests []string `json:"guests,omitempty"`
}

type bookingEnvelope struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Data    *Booking `json:"data"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (e bookingEnvelope) message() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Error != nil && e.Error.Message != "":
		return e.Error.Message
	default:
		return FallbackMessage
	}
}

// CreateBooking posts the booking. It returns ErrMisconfigured without a
// request when no API key is set, *APIError when Cal.com declines, and a
// wrapped transport error otherwise.
func (c *Client) CreateBooking(ctx context.Context, br BookingRequest) (*Booking, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	payload := bookingPayload{
		EventTypeID: br.EventTypeID,
		Start:       br.Start.UTC().Format(time.RFC3339),
		TimeZone:    br.TimeZone,
		Responses:   responses{Name: br.Name, Email: br.Email, Guests: br.Guests},
		Metadata:    br.Metadata,
		Language:    NormalizeLanguage(br.Language),
	}
	if payload.EventTypeID <= 0 {
		payload.EventTypeID = c.cfg.DefaultEventTypeID
	}
	if payload.TimeZone == "" {
		payload.TimeZone = c.cfg.DefaultTimeZone
	}
	if !br.End.IsZero() {
		payload.End = br.End.UTC().Format(time.RFC3339)
	}
	if payload.Metadata == nil {
		payload.Metadata = map[string]any{}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("calcom: encode booking: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/bookings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("calcom: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("cal-api-version", c.cfg.APIVersion)

	started := time.Now()
	resp, err := c.client.Do(req)
	elapsed := time.Since(started)
	if err != nil {
		c.observer.ObserveUpstream(providerName, "error", elapsed)
		c.log.ErrorContext(ctx, "cal.com request failed", logger.Error(err), logger.Duration(elapsed))
		return nil, fmt.Errorf("calcom: create booking: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		c.observer.ObserveUpstream(providerName, "error", elapsed)
		return nil, fmt.Errorf("calcom: read response: %w", err)
	}

	var env bookingEnvelope
	decodeErr := json.Unmarshal(raw, &env)
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if ok && decodeErr == nil && env.Status == "success" && env.Data != nil {
		c.observer.ObserveUpstream(providerName, "success", elapsed)
		c.log.InfoContext(ctx, "consultation booked",
			slog.String("booking_uid", env.Data.UID),
			slog.Int("event_type_id", payload.EventTypeID),
			logger.Duration(elapsed),
		)
		return env.Data, nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode, Message: FallbackMessage, Body: raw}
	if decodeErr == nil {
		apiErr.Message = env.message()
	}
	c.observer.ObserveUpstream(providerName, "rejected", elapsed)
	c.log.WarnContext(ctx, "cal.com rejected booking",
		logger.StatusCode(resp.StatusCode),
		slog.String("calcom_message", apiErr.Message),
		logger.Duration(elapsed),
	)
	return nil, apiErr
}
