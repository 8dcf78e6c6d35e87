package relay

import (
	"strings"

	"relay/pkg/clock"
	"relay/pkg/models"
)

const (
	NoResultProvided  = "No result provided"
	NoMessageProvided = "No message provided"
	DefaultStatus     = "unknown"
)

type ValidatorConfig struct {
	StrictID         bool
	MaxIDLength      int
	MaxResultLength  int
	MaxStatusLength  int
	MaxMessageLength int
}

func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		StrictID:         true,
		MaxIDLength:      50,
		MaxResultLength:  5000,
		MaxStatusLength:  20,
		MaxMessageLength: 500,
	}
}

// Validator turns an untrusted producer payload into a stored envelope.
// The correlation id is a hard gate; every other field is normalized.
type Validator struct {
	cfg   ValidatorConfig
	clock clock.Clock
}

func NewValidator(cfg ValidatorConfig, clk clock.Clock) *Validator {
	if clk == nil {
		clk = clock.Real()
	}
	return &Validator{cfg: cfg, clock: clk}
}

// Validate accepts a decoded JSON value and returns a complete envelope or a
// validation error carrying the rejection reason.
func (v *Validator) Validate(raw any) (models.Envelope, error) {
	return v.validate(raw, "")
}

// ValidateWithPathID is Validate for endpoints that carry the id in the URL.
// A non-empty pathID replaces any requestId found in the body.
func (v *Validator) ValidateWithPathID(raw any, pathID string) (models.Envelope, error) {
	return v.validate(raw, pathID)
}

// ValidateID applies the correlation id rules alone. Every entry point that
// accepts an id goes through it.
func (v *Validator) ValidateID(id string) (string, error) {
	return v.checkID(id)
}

func (v *Validator) validate(raw any, pathID string) (models.Envelope, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return models.Envelope{}, errInvalidPayload
	}

	fields, flow := unwrap(obj)

	var rawID any
	if pathID != "" {
		rawID = pathID
	} else {
		rawID = fields["requestId"]
	}

	id, err := v.checkID(rawID)
	if err != nil {
		return models.Envelope{}, err
	}

	result, hasResult := fields["result"]
	status, hasStatus := fields["status"]
	message, hasMessage := fields["message"]

	normalizedStatus := normalizeText(status, hasStatus, v.cfg.MaxStatusLength, DefaultStatus)
	if strings.TrimSpace(normalizedStatus) == "" {
		normalizedStatus = DefaultStatus
	}

	return models.NewEnvelopeBuilder().
		WithRequestID(id).
		WithResult(normalizeResult(result, hasResult, v.cfg.MaxResultLength)).
		WithStatus(normalizedStatus).
		WithMessage(normalizeText(message, hasMessage, v.cfg.MaxMessageLength, NoMessageProvided)).
		WithFlow(flow).
		WithReceivedAt(v.clock.Now()).
		Build()
}
