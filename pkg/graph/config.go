package graph

import (
	"fmt"
	"strings"
	"time"

	"github.com/camtang26/cre8tiveCA/pkg/config"
)

const (
	DefaultScope        = "https://graph.microsoft.com/.default"
	DefaultAuthorityURL = "https://login.microsoftonline.com"
	DefaultBaseURL      = "https://graph.microsoft.com/v1.0"
)

type Config struct {
	TenantID       string        `env:"AZURE_TENANT_ID"`
	ClientID       string        `env:"AZURE_CLIENT_ID"`
	ClientSecret   string        `env:"AZURE_CLIENT_SECRET"`
	Scope          string        `env:"GRAPH_SCOPE" envDefault:"https://graph.microsoft.com/.default"`
	AuthorityURL   string        `env:"AZURE_AUTHORITY_URL" envDefault:"https://login.microsoftonline.com"`
	BaseURL        string        `env:"GRAPH_BASE_URL" envDefault:"https://graph.microsoft.com/v1.0"`
	TokenTimeout   time.Duration `env:"GRAPH_TOKEN_TIMEOUT" envDefault:"10s"`
	RequestTimeout time.Duration `env:"GRAPH_REQUEST_TIMEOUT" envDefault:"15s"`
}

// Validate reports ErrMisconfigured naming every missing credential.
func (c Config) Validate() error {
	var missing []string
	if !config.Configured(c.TenantID) {
		missing = append(missing, "AZURE_TENANT_ID")
	}
	if !config.Configured(c.ClientID) {
		missing = append(missing, "AZURE_CLIENT_ID")
	}
	if !config.Configured(c.ClientSecret) {
		missing = append(missing, "AZURE_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrMisconfigured, strings.Join(missing, ", "))
	}
	return nil
}

// TokenURL is the v2.0 token endpoint of the configured tenant.
func (c Config) TokenURL() string {
	authority := c.AuthorityURL
	if authority == "" {
		authority = DefaultAuthorityURL
	}
	return strings.TrimRight(authority, "/") + "/" + c.TenantID + "/oauth2/v2.0/token"
}

func (c Config) withDefaults() Config {
	if c.Scope == "" {
		c.Scope = DefaultScope
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.TokenTimeout <= 0 {
		c.TokenTimeout = 10 * time.Second
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 15 * time.Second
	}
	return c
}
