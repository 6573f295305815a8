package calcom

import (
	"fmt"
	"time"

	"github.com/camtang26/cre8tiveCA/pkg/config"
)

const (
	DefaultBaseURL     = "https://api.cal.com/v2"
	DefaultAPIVersion  = "2"
	DefaultEventTypeID = 1837761
	DefaultTimeZone    = "America/New_York"
	DefaultLanguage    = "en"
)

type Config struct {
	APIKey             string        `env:"CAL_COM_API_KEY"`
	BaseURL            string        `env:"CAL_COM_API_BASE_URL" envDefault:"https://api.cal.com/v2"`
	APIVersion         string        `env:"CAL_COM_API_VERSION" envDefault:"2"`
	DefaultEventTypeID int           `env:"DEFAULT_EVENT_TYPE_ID" envDefault:"1837761"`
	DefaultTimeZone    string        `env:"DEFAULT_ATTENDEE_TIMEZONE" envDefault:"America/New_York"`
	Timeout            time.Duration `env:"CAL_COM_TIMEOUT" envDefault:"30s"`
}

// Validate reports ErrMisconfigured when the API key is missing or a placeholder.
func (c Config) Validate() error {
	if !config.Configured(c.APIKey) {
		return fmt.Errorf("%w: missing CAL_COM_API_KEY", ErrMisconfigured)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.DefaultEventTypeID <= 0 {
		c.DefaultEventTypeID = DefaultEventTypeID
	}
	if c.DefaultTimeZone == "" {
		c.DefaultTimeZone = DefaultTimeZone
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return c
}
