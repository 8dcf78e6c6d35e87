package relay

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relay/internal/logger"
	"relay/internal/store"
	"relay/pkg/clock"
	apperrors "relay/pkg/errors"
)

func newTestService(policy store.ReadPolicy) (*Service, *clock.Fake) {
	clk := clock.NewFake(t0)
	st := store.NewMemoryStore(30*time.Minute, policy, clk)
	return NewService(NewValidator(DefaultValidatorConfig(), clk), st, clk, logger.NopLogger()), clk
}

func TestService_RoundTrip(t *testing.T) {
	svc, clk := newTestService(store.ReadKeep)
	ctx := context.Background()

	_, err := svc.Receive(ctx, strings.NewReader(`{"requestId":"`+validID+`","result":"R","status":"success"}`), "")
	require.NoError(t, err)

	clk.Advance(4 * time.Second)
	res, found, err := svc.Poll(ctx, validID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "R", res.Envelope.Result)
	assert.Equal(t, "success", res.Envelope.Status)
	assert.Equal(t, 4*time.Second, res.Age)

	_, found, _ = svc.Poll(ctx, validID)
	assert.True(t, found, "keep policy serves repeated polls")
}

func TestService_ConsumePolicy(t *testing.T) {
	svc, _ := newTestService(store.ReadConsume)
	ctx := context.Background()

	_, err := svc.Receive(ctx, strings.NewReader(`{"requestId":"`+validID+`"}`), "")
	require.NoError(t, err)

	_, found, _ := svc.Poll(ctx, validID)
	assert.True(t, found)
	_, found, _ = svc.Poll(ctx, validID)
	assert.False(t, found)
}

func TestService_RejectedWriteLeavesStoreUnchanged(t *testing.T) {
	svc, _ := newTestService(store.ReadKeep)
	ctx := context.Background()

	_, err := svc.Receive(ctx, strings.NewReader(`{"requestId":"`+validID+`","result":"first"}`), "")
	require.NoError(t, err)

	_, err = svc.Receive(ctx, strings.NewReader(`{"requestId":"<script>","result":"evil"}`), "")
	assert.True(t, apperrors.IsValidation(err))
	_, err = svc.Receive(ctx, strings.NewReader(`{"requestId":`), "")
	assert.Equal(t, ReasonInvalidFormat, apperrors.ReasonOf(err))

	assert.Equal(t, 1, svc.ActiveResponses())
	res, _, _ := svc.Poll(ctx, validID)
	assert.Equal(t, "first", res.Envelope.Result)
}

func TestService_PollNotReadyVersusRejected(t *testing.T) {
	svc, clk := newTestService(store.ReadKeep)
	ctx := context.Background()

	_, found, err := svc.Poll(ctx, validID)
	assert.NoError(t, err)
	assert.False(t, found, "never submitted")

	_, _, err = svc.Poll(ctx, "../../x")
	assert.Equal(t, ReasonIDBadCharset, apperrors.ReasonOf(err))

	_, err = svc.Receive(ctx, strings.NewReader(`{"requestId":"`+validID+`"}`), "")
	require.NoError(t, err)
	clk.Advance(30 * time.Minute)

	_, found, err = svc.Poll(ctx, validID)
	assert.NoError(t, err)
	assert.False(t, found, "expired looks like not ready")
}

func TestService_ClearAndRemove(t *testing.T) {
	svc, _ := newTestService(store.ReadKeep)
	ctx := context.Background()

	for _, id := range []string{"1111111111111-aaaaa", "2222222222222-bbbbb"} {
		_, err := svc.Receive(ctx, strings.NewReader(`{"requestId":"`+id+`"}`), "")
		require.NoError(t, err)
	}

	removed, err := svc.Remove(ctx, "1111111111111-aaaaa")
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = svc.Remove(ctx, "bad id")
	assert.True(t, apperrors.IsValidation(err))

	assert.Equal(t, 1, svc.Clear(ctx))
	assert.Empty(t, svc.Snapshot())
}
