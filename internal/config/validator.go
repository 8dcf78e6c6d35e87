package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidateStatic checks struct tags first, then rules that span fields.
func ValidateStatic(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	var errs []error

	if err := v.Struct(cfg); err != nil {
		errs = append(errs, formatValidationErrors(err)...)
	}

	errs = append(errs, validateCrossField(cfg)...)

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func validateCrossField(cfg *Config) []error {
	var errs []error

	if cfg.Store.SweepInterval > cfg.Store.TTL {
		errs = append(errs, &ValidationError{
			Field:   "store.sweep_interval",
			Message: fmt.Sprintf("must not exceed store.ttl (%s)", cfg.Store.TTL),
		})
	}

	// Strictly shaped ids are 13 digits, a dash and up to 20 characters.
	if cfg.Validation.StrictID && cfg.Validation.MaxIDLength < 19 {
		errs = append(errs, &ValidationError{
			Field:   "validation.max_id_length",
			Message: "must be at least 19 when strict_id is enabled",
		})
	}

	if cfg.Tracing.Enabled && cfg.Tracing.OTLP.Endpoint == "" {
		errs = append(errs, &ValidationError{
			Field:   "tracing.otlp.endpoint",
			Message: "endpoint is required when tracing is enabled",
		})
	}

	return errs
}

func formatValidationErrors(err error) []error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []error{err}
	}

	out := make([]error, 0, len(validationErrors))
	for _, e := range validationErrors {
		out = append(out, &ValidationError{
			Field:   fieldPath(e.Namespace()),
			Message: formatSingleValidationError(e),
		})
	}
	return out
}

// fieldPath drops the root struct name: "Config.server.port" -> "server.port".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func formatSingleValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s, got %v", e.Param(), e.Value())
	case "max":
		return fmt.Sprintf("must be at most %s, got %v", e.Param(), e.Value())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s, got %q", e.Param(), e.Value())
	case "cidr|ip":
		return fmt.Sprintf("must be an IP or CIDR, got %q", e.Value())
	default:
		return fmt.Sprintf("failed validation: %s", e.Tag())
	}
}
