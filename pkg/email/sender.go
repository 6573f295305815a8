package email

import (
	"fmt"
	"log/slog"
	"strings"
)

// Deps carries the collaborators a driver may need.
type Deps struct {
	// Graph is nil when Azure credentials or SENDER_UPN are missing.
	Graph  GraphMailer
	Logger *slog.Logger
}

// NewSender returns the driver named by cfg.Driver. An empty driver means graph.
func NewSender(cfg Config, deps Deps) (EmailSender, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverGraph:
		return NewGraphSender(deps.Graph), nil
	case DriverPostmark:
		return NewPostmarkClient(cfg)
	case DriverDev:
		return NewDevSender(cfg.DevDir, WithDevLogger(deps.Logger)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
