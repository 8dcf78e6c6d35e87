package constants

import "time"

const (
	ServiceName = "relay-service"
)

const (
	ShutdownTimeout    = 10 * time.Second
	HealthCheckTimeout = 2 * time.Second
)

const (
	// Limiter names used as metric labels.
	LimiterReceive = "receive"
	LimiterPoll    = "poll"
)

const (
	SweepTargetStore   = "store"
	SweepTargetReceive = "receive_limiter"
	SweepTargetPoll    = "poll_limiter"
)
