package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig reads configFile (optional; "" means defaults plus environment),
// applies environment overrides and validates the result.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindEnvVariables(v); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(v, &cfg)

	if err := ValidateStatic(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.trusted_proxies", []string{})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("store.ttl", "30m")
	v.SetDefault("store.sweep_interval", "5m")
	v.SetDefault("store.read_policy", "keep")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.window", "60s")
	v.SetDefault("rate_limit.max_requests", 20)

	v.SetDefault("poll_rate_limit.enabled", false)
	v.SetDefault("poll_rate_limit.rps", 2.0)
	v.SetDefault("poll_rate_limit.burst", 10)
	v.SetDefault("poll_rate_limit.max_idle", "10m")

	v.SetDefault("validation.strict_id", true)
	v.SetDefault("validation.max_id_length", 50)
	v.SetDefault("validation.max_result_length", 5000)
	v.SetDefault("validation.max_status_length", 20)
	v.SetDefault("validation.max_message_length", 500)

	v.SetDefault("debug.enabled", false)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "relay-service")
	v.SetDefault("tracing.otlp.endpoint", "localhost:4317")
	v.SetDefault("tracing.otlp.insecure", true)
	v.SetDefault("tracing.sampler.type", "parentbased_always_on")
	v.SetDefault("tracing.sampler.param", 1.0)
}

func bindEnvVariables(v *viper.Viper) error {
	bindings := map[string][]string{
		// PORT is what most PaaS platforms inject.
		"server.port":           {"SERVER_PORT", "PORT"},
		"server.host":           {"SERVER_HOST"},
		"server.max_body_bytes": {"SERVER_MAX_BODY_BYTES"},

		"logging.level":  {"LOGGING_LEVEL"},
		"logging.format": {"LOGGING_FORMAT"},

		"store.ttl":            {"STORE_TTL"},
		"store.sweep_interval": {"STORE_SWEEP_INTERVAL"},
		"store.read_policy":    {"STORE_READ_POLICY"},

		"rate_limit.enabled":      {"RATE_LIMIT_ENABLED"},
		"rate_limit.window":       {"RATE_LIMIT_WINDOW"},
		"rate_limit.max_requests": {"RATE_LIMIT_MAX_REQUESTS"},

		"poll_rate_limit.enabled": {"POLL_RATE_LIMIT_ENABLED"},

		"validation.strict_id": {"VALIDATION_STRICT_ID"},

		"debug.enabled": {"DEBUG_ENABLED"},

		"tracing.enabled":       {"TRACING_ENABLED"},
		"tracing.service_name":  {"TRACING_SERVICE_NAME"},
		"tracing.otlp.endpoint": {"TRACING_OTLP_ENDPOINT"},
		"tracing.otlp.insecure": {"TRACING_OTLP_INSECURE"},
	}

	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

func applyEnvOverrides(v *viper.Viper, cfg *Config) {
	if proxies := v.GetString("SERVER_TRUSTED_PROXIES"); proxies != "" {
		list := strings.Split(proxies, ",")
		out := make([]string, 0, len(list))
		for _, p := range list {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		cfg.Server.TrustedProxies = out
	}
}
