// Package config loads process configuration from environment variables.
//
// It wraps github.com/joho/godotenv (optional .env files) and
// github.com/caarlos0/env/v11 (struct tags) behind a small generic API:
//
//	type Config struct {
//	    TenantID string `env:"AZURE_TENANT_ID,required"`
//	    Timeout  time.Duration `env:"GRAPH_TOKEN_TIMEOUT" envDefault:"10s"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Every package in this module owns its Config struct; the server binary loads
// each of them once at startup. Parsed values are cached per struct type, so
// repeated Load calls for the same type are served from memory and never observe
// later environment changes. Failed parses are not cached.
//
// The default .env file in the working directory is read on the first Load and
// silently skipped when absent. LoadEnv reads explicit files instead; later files
// override earlier ones, and values already present in the process environment
// always win.
//
// ResetCache and ForceReload exist for tests that mutate the environment.
package config
