package webhook

type Config struct {
	Secret       string `env:"ELEVENLABS_WEBHOOK_SECRET"`
	Enabled      bool   `env:"WEBHOOK_AUTH_ENABLED" envDefault:"true"`
	MaxBodyBytes int64  `env:"WEBHOOK_MAX_BODY_BYTES" envDefault:"1048576"`
}
