package losapi

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig is the environment-variable configuration surface consumed by
// NewFromEnv. Variables are prefixed, e.g. LOS_ROOT_URL.
type EnvConfig struct {
	RootURL    string        `envconfig:"ROOT_URL" required:"true"`
	DefaultTTL time.Duration `envconfig:"DEFAULT_TTL" default:"600s"`
	Timeout    time.Duration `envconfig:"TIMEOUT" default:"30s"`
	UserAgent  string        `envconfig:"USER_AGENT"`
	RequestID  string        `envconfig:"REQUEST_ID"`
	Debug      bool          `envconfig:"DEBUG"`
}

// NewFromEnv constructs a Client from prefixed environment variables,
// applying opts on top. An empty prefix defaults to "LOS".
func NewFromEnv(prefix string, opts ...Option) (*Client, error) {
	if prefix == "" {
		prefix = "LOS"
	}

	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return nil, &ClientError{
			Type:    ErrorTypeConfiguration,
			Message: "cannot read environment configuration",
			Cause:   err,
		}
	}
	if cfg.RootURL == "" {
		return nil, &ClientError{
			Type:    ErrorTypeConfiguration,
			Message: prefix + "_ROOT_URL must be set",
		}
	}

	base := []Option{
		WithDefaultTTL(cfg.DefaultTTL),
		WithTimeout(cfg.Timeout),
	}
	if cfg.UserAgent != "" {
		base = append(base, WithUserAgent(cfg.UserAgent))
	}
	if cfg.RequestID != "" {
		base = append(base, WithRequestID(cfg.RequestID))
	}
	if cfg.Debug {
		base = append(base, WithSimpleLogger())
	}

	client := New(cfg.RootURL, append(base, opts...)...)
	if err := client.ValidationError(); err != nil {
		return nil, err
	}
	return client, nil
}
