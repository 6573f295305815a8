package email

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/camtang26/cre8tiveCA/pkg/logger"
)

// DevSender writes each message to disk as an HTML file plus a JSON metadata
// file instead of delivering it.
type DevSender struct {
	dir string
	now func() time.Time
	log *slog.Logger
}

type DevOption func(*DevSender)

// WithDevClock overrides the timestamp source used in file names.
func WithDevClock(now func() time.Time) DevOption {
	return func(d *DevSender) {
		if now != nil {
			d.now = now
		}
	}
}

func WithDevLogger(l *slog.Logger) DevOption {
	return func(d *DevSender) {
		if l != nil {
			d.log = l
		}
	}
}

// NewDevSender creates a sender that saves emails under dir, creating it on
// first use.
func NewDevSender(dir string, opts ...DevOption) *DevSender {
	d := &DevSender{dir: dir, now: time.Now, log: logger.Discard()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type emailMetadata struct {
	MessageID       string `json:"message_id"`
	Timestamp       string `json:"timestamp"`
	SendTo          string `json:"send_to"`
	Subject         string `json:"subject"`
	Tag             string `json:"tag,omitempty"`
	SaveToSentItems bool   `json:"save_to_sent_items"`
}

// SendEmail saves the email and returns a random message id that also
// appears in both file names.
func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) (Receipt, error) {
	if err := params.Validate(); err != nil {
		return Receipt{}, err
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return Receipt{}, fmt.Errorf("%w: create directory: %v", ErrFailedToSendEmail, err)
	}

	now := d.now()
	id := uuid.NewString()

	identifier := params.Tag
	if identifier == "" {
		identifier = params.Subject
	}
	base := fmt.Sprintf("%s_%s_%s", now.Format("2006_01_02_150405"), sanitizeFilename(identifier), id[:8])

	htmlPath := filepath.Join(d.dir, base+".html")
	if err := os.WriteFile(htmlPath, []byte(params.BodyHTML), 0o644); err != nil {
		return Receipt{}, fmt.Errorf("%w: write HTML file: %v", ErrFailedToSendEmail, err)
	}

	meta, err := json.MarshalIndent(emailMetadata{
		MessageID:       id,
		Timestamp:       now.Format(time.RFC3339),
		SendTo:          params.SendTo,
		Subject:         params.Subject,
		Tag:             params.Tag,
		SaveToSentItems: params.SaveToSentItems,
	}, "", "  ")
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: marshal metadata: %v", ErrFailedToSendEmail, err)
	}
	if err := os.WriteFile(filepath.Join(d.dir, base+".json"), meta, 0o644); err != nil {
		return Receipt{}, fmt.Errorf("%w: write JSON file: %v", ErrFailedToSendEmail, err)
	}

	d.log.InfoContext(ctx, "email saved to disk", slog.String("path", htmlPath), slog.String("message_id", id))
	return Receipt{MessageID: id, Driver: DriverDev}, nil
}

var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeFilename lowercases s, maps spaces to underscores, drops anything
// else unsafe and caps the length at 100.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = sanitizeRegex.ReplaceAllString(s, "")

	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
