package models

import "time"

type EnvelopeBuilder struct {
	envelope Envelope
}

func NewEnvelopeBuilder() *EnvelopeBuilder {
	return &EnvelopeBuilder{}
}

func (b *EnvelopeBuilder) WithRequestID(id string) *EnvelopeBuilder {
	b.envelope.RequestID = id
	return b
}

func (b *EnvelopeBuilder) WithResult(result string) *EnvelopeBuilder {
	b.envelope.Result = result
	return b
}

func (b *EnvelopeBuilder) WithStatus(status string) *EnvelopeBuilder {
	b.envelope.Status = status
	return b
}

func (b *EnvelopeBuilder) WithMessage(message string) *EnvelopeBuilder {
	b.envelope.Message = message
	return b
}

func (b *EnvelopeBuilder) WithFlow(flow string) *EnvelopeBuilder {
	b.envelope.Flow = flow
	return b
}

func (b *EnvelopeBuilder) WithReceivedAt(t time.Time) *EnvelopeBuilder {
	b.envelope.ReceivedAt = t
	return b
}

// Build returns a copy of the assembled envelope, or an error if it is incomplete.
func (b *EnvelopeBuilder) Build() (Envelope, error) {
	if err := ValidateEnvelope(b.envelope); err != nil {
		return Envelope{}, err
	}
	return b.envelope, nil
}
