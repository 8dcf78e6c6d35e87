package relay

import (
	apperrors "relay/pkg/errors"
)

// Rejection reasons reported in the "reason" field of a 400 response.
const (
	ReasonInvalidFormat   = "invalid_format"
	ReasonInvalidPayload  = "missing_or_invalid_payload"
	ReasonMissingID       = "missing_correlation_id"
	ReasonIDTooLong       = "correlation_id_too_long"
	ReasonIDBadCharset    = "correlation_id_bad_charset"
	ReasonIDBadShape      = "correlation_id_bad_shape"
	ReasonPayloadTooLarge = "payload_too_large"
)

func reject(reason, message string) *apperrors.Error {
	return apperrors.ErrValidation.WithReason(reason).WithMessage(message)
}

var (
	errInvalidFormat   = reject(ReasonInvalidFormat, "Invalid data format")
	errInvalidPayload  = reject(ReasonInvalidPayload, "Invalid data format")
	errMissingID       = reject(ReasonMissingID, "Missing or invalid requestId")
	errIDTooLong       = reject(ReasonIDTooLong, "requestId is too long")
	errIDBadCharset    = reject(ReasonIDBadCharset, "requestId contains invalid characters")
	errIDBadShape      = reject(ReasonIDBadShape, "requestId has an unexpected format")
	errPayloadTooLarge = apperrors.ErrPayloadTooLarge.WithReason(ReasonPayloadTooLarge)
)
