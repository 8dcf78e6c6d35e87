package relay

import (
	"context"
	"io"
	"time"

	"relay/internal/logger"
	"relay/internal/store"
	"relay/pkg/clock"
	apperrors "relay/pkg/errors"
	"relay/pkg/logging"
	"relay/pkg/metrics"
	"relay/pkg/models"
	"relay/pkg/tracing"
)

// Service correlates producer writes with consumer polls.
type Service struct {
	validator *Validator
	store     store.Store
	clock     clock.Clock
	logger    logger.Logger
}

func NewService(validator *Validator, st store.Store, clk clock.Clock, log logger.Logger) *Service {
	if clk == nil {
		clk = clock.Real()
	}
	if log == nil {
		log = logger.NopLogger()
	}
	return &Service{
		validator: validator,
		store:     st,
		clock:     clk,
		logger:    log,
	}
}

// Receive decodes body, validates it and stores the resulting envelope.
// pathID, when set, takes precedence over any id in the body.
func (s *Service) Receive(ctx context.Context, body io.Reader, pathID string) (models.Envelope, error) {
	raw, err := decodeBody(body)
	if err != nil {
		s.rejected(ctx, err)
		return models.Envelope{}, err
	}

	env, err := s.validator.ValidateWithPathID(raw, pathID)
	if err != nil {
		s.rejected(ctx, err)
		return models.Envelope{}, err
	}

	s.store.Put(env)
	metrics.IncReceived("stored", "")
	tracing.AnnotateSpan(ctx, env.RequestID, "stored", "")

	ctx = logging.WithCorrelationID(ctx, env.RequestID)
	s.logger.InfowCtx(ctx, "Stored result",
		"status", env.Status,
		"flow", env.Flow,
		"result_length", len(env.Result),
	)
	return env, nil
}

func (s *Service) rejected(ctx context.Context, err error) {
	reason := apperrors.ReasonOf(err)
	metrics.IncReceived("rejected", reason)
	tracing.AnnotateSpan(ctx, "", "rejected", reason)
	s.logger.WarnwCtx(ctx, "Rejected payload", "reason", reason, "error", err)
}

// PollResult is a found envelope together with its age at read time.
type PollResult struct {
	Envelope models.Envelope
	Age      time.Duration
}

// Poll looks up id. A missing or expired entry is reported with ok=false and
// no error; only a malformed id is an error.
func (s *Service) Poll(ctx context.Context, id string) (PollResult, bool, error) {
	id, err := s.validator.ValidateID(id)
	if err != nil {
		metrics.IncPoll("rejected")
		s.logger.WarnwCtx(ctx, "Rejected poll", "reason", apperrors.ReasonOf(err))
		return PollResult{}, false, err
	}

	ctx = logging.WithCorrelationID(ctx, id)

	env, ok := s.store.Get(id)
	if !ok {
		metrics.IncPoll("not_ready")
		tracing.AnnotateSpan(ctx, id, "not_ready", "")
		s.logger.DebugwCtx(ctx, "Result not ready")
		return PollResult{}, false, nil
	}

	age := env.Age(s.clock.Now())
	metrics.IncPoll("found")
	tracing.AnnotateSpan(ctx, id, "found", "")
	metrics.ObserveEntryAge(age)
	s.logger.InfowCtx(ctx, "Delivered result", "age_seconds", age.Seconds())

	return PollResult{Envelope: env, Age: age}, true, nil
}

// Clear drops every stored entry and returns how many were removed.
func (s *Service) Clear(ctx context.Context) int {
	n := s.store.Clear()
	s.logger.InfowCtx(ctx, "Cleared all results", "cleared", n)
	return n
}

// Remove drops the entry for id, if any.
func (s *Service) Remove(ctx context.Context, id string) (bool, error) {
	id, err := s.validator.ValidateID(id)
	if err != nil {
		return false, err
	}

	removed := s.store.Delete(id)
	s.logger.InfowCtx(logging.WithCorrelationID(ctx, id), "Cleared result", "removed", removed)
	return removed, nil
}

func (s *Service) Snapshot() []models.EnvelopeSummary {
	return s.store.Snapshot()
}

func (s *Service) ActiveResponses() int {
	return s.store.Len()
}
