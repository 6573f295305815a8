package bridge

import "time"

type Config struct {
	ServiceName        string        `env:"SERVICE_NAME" envDefault:"cre8tiveca-bridge"`
	Version            string        `env:"SERVICE_VERSION" envDefault:"dev"`
	DiagnosticsEnabled bool          `env:"DIAGNOSTICS_ENABLED" envDefault:"false"`
	ReadinessTimeout   time.Duration `env:"READINESS_TIMEOUT" envDefault:"2s"`
}
