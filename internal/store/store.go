package store

import (
	"fmt"
	"strings"
	"time"

	"relay/pkg/models"
)

// ReadPolicy decides whether a successful Get removes the entry.
type ReadPolicy string

const (
	// ReadKeep leaves the entry in place until it expires or is cleared.
	ReadKeep ReadPolicy = "keep"
	// ReadConsume deletes the entry on the first successful read.
	ReadConsume ReadPolicy = "consume"
)

func ParseReadPolicy(s string) (ReadPolicy, error) {
	switch ReadPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case ReadKeep, "":
		return ReadKeep, nil
	case ReadConsume:
		return ReadConsume, nil
	default:
		return "", fmt.Errorf("unknown read policy %q", s)
	}
}

// Store holds at most one envelope per correlation id.
type Store interface {
	// Put inserts or replaces the envelope for env.RequestID.
	Put(env models.Envelope)
	// Get returns the live envelope for id. Expired entries are reported absent.
	Get(id string) (models.Envelope, bool)
	Delete(id string) bool
	Clear() int
	// Sweep removes every entry whose age at now has reached the TTL.
	Sweep(now time.Time) int
	Len() int
	Snapshot() []models.EnvelopeSummary
}
