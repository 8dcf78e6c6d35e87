package config

import (
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Store         StoreConfig         `mapstructure:"store"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	PollRateLimit PollRateLimitConfig `mapstructure:"poll_rate_limit"`
	Validation    ValidationConfig    `mapstructure:"validation"`
	Debug         DebugConfig         `mapstructure:"debug"`
	Tracing       TracingConfig       `mapstructure:"tracing"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" validate:"gt=0"`
	TrustedProxies  []string      `mapstructure:"trusted_proxies" validate:"dive,cidr|ip"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

type StoreConfig struct {
	TTL           time.Duration `mapstructure:"ttl" validate:"gt=0"`
	SweepInterval time.Duration `mapstructure:"sweep_interval" validate:"gt=0"`
	ReadPolicy    string        `mapstructure:"read_policy" validate:"oneof=keep consume"`
}

type RateLimitConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Window      time.Duration `mapstructure:"window" validate:"gt=0"`
	MaxRequests int           `mapstructure:"max_requests" validate:"gt=0"`
}

type PollRateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	RPS     float64       `mapstructure:"rps" validate:"gt=0"`
	Burst   int           `mapstructure:"burst" validate:"gt=0"`
	MaxIdle time.Duration `mapstructure:"max_idle" validate:"gt=0"`
}

type ValidationConfig struct {
	StrictID         bool `mapstructure:"strict_id"`
	MaxIDLength      int  `mapstructure:"max_id_length" validate:"gt=0"`
	MaxResultLength  int  `mapstructure:"max_result_length" validate:"gt=0"`
	MaxStatusLength  int  `mapstructure:"max_status_length" validate:"gt=0"`
	MaxMessageLength int  `mapstructure:"max_message_length" validate:"gt=0"`
}

type DebugConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type TracingConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	ServiceName string        `mapstructure:"service_name"`
	OTLP        OTLPConfig    `mapstructure:"otlp"`
	Sampler     SamplerConfig `mapstructure:"sampler"`
}

type OTLPConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
}

type SamplerConfig struct {
	Type  string  `mapstructure:"type" validate:"omitempty,oneof=always_on always_off traceidratio parentbased_always_on parentbased_traceidratio"`
	Param float64 `mapstructure:"param" validate:"gte=0,lte=1"`
}

func Load(configFile string) (*Config, error) {
	return LoadConfig(configFile)
}
