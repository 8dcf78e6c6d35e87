package models

import "fmt"

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidateEnvelope checks the invariants every stored envelope must hold.
func ValidateEnvelope(env Envelope) error {
	if env.RequestID == "" {
		return &ValidationError{
			Field:   "requestId",
			Message: "request ID is required",
		}
	}

	if env.Status == "" {
		return &ValidationError{
			Field:   "status",
			Message: "status is required",
		}
	}

	if env.ReceivedAt.IsZero() {
		return &ValidationError{
			Field:   "receivedAt",
			Message: "received timestamp is required",
		}
	}

	return nil
}
