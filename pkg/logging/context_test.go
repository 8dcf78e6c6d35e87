package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLogFields(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetLogFields(ctx))

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithCorrelationID(ctx, "1700000000000-abcde")
	ctx = WithServiceName(ctx, "relay-service")

	assert.Equal(t, []interface{}{
		"request_id", "req-1",
		"correlation_id", "1700000000000-abcde",
		"service_name", "relay-service",
	}, GetLogFields(ctx))
	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Empty(t, GetTraceID(ctx))
}

func TestEarlyLog(t *testing.T) {
	var out, errOut bytes.Buffer
	code := -1
	l := &EarlyLog{out: &out, err: &errOut, exit: func(c int) { code = c }}

	l.Info("listening on %d", 3000)
	l.Fatal("bad config: %s", "x")

	assert.Equal(t, "INFO: listening on 3000\n", out.String())
	assert.Equal(t, "FATAL: bad config: x\n", errOut.String())
	assert.Equal(t, 1, code)
}
