package models

import "time"

// Envelope is the normalized record stored for one correlation id.
type Envelope struct {
	RequestID  string    `json:"requestId"`
	Result     string    `json:"result"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	Flow       string    `json:"flow,omitempty"` // wrapper key the payload arrived under, empty if unwrapped
	ReceivedAt time.Time `json:"receivedAt"`
}

// Age reports how long the envelope has been stored as of now.
func (e Envelope) Age(now time.Time) time.Duration {
	return now.Sub(e.ReceivedAt)
}

// EnvelopeSummary is the debug view of a stored envelope; it never carries the result body.
type EnvelopeSummary struct {
	RequestID  string    `json:"requestId"`
	Status     string    `json:"status"`
	Flow       string    `json:"flow,omitempty"`
	HasResult  bool      `json:"hasResult"`
	ReceivedAt time.Time `json:"receivedAt"`
}

func (e Envelope) Summary() EnvelopeSummary {
	return EnvelopeSummary{
		RequestID:  e.RequestID,
		Status:     e.Status,
		Flow:       e.Flow,
		HasResult:  e.Result != "",
		ReceivedAt: e.ReceivedAt,
	}
}
