package relay

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relay/internal/logger"
	"relay/internal/store"
	"relay/pkg/clock"
	"relay/pkg/health"
	"relay/pkg/middleware"
	"relay/pkg/ratelimit"
)

type testServer struct {
	router *gin.Engine
	clock  *clock.Fake
	store  *store.MemoryStore
}

func newTestServer(t *testing.T, debug bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clk := clock.NewFake(t0)
	st := store.NewMemoryStore(30*time.Minute, store.ReadKeep, clk)
	svc := NewService(NewValidator(DefaultValidatorConfig(), clk), st, clk, logger.NopLogger())

	registry := health.NewCheckerRegistry()
	registry.Register(health.NewStoreChecker(st, time.Second))

	router := gin.New()
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.BodyLimitMiddleware(1 << 20))
	router.NoRoute(middleware.NotFoundHandler())

	h := NewHandler(svc, registry, logger.NopLogger())
	h.RegisterRoutes(router, RouteOptions{
		ReceiveGuards: []gin.HandlerFunc{ratelimit.Middleware("receive", ratelimit.NewSlidingWindow(time.Minute, 20, clk))},
		Debug:         debug,
	})

	return &testServer{router: router, clock: clk, store: st}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.RemoteAddr = "198.51.100.4:1234"
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHandler_ReceiveThenPoll(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(http.MethodPost, "/receive-data", `{"check":{"requestId":"`+validID+`","result":{"followers":10},"status":"success","message":"ok"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{
		"success":   true,
		"message":   "Data received successfully",
		"requestId": validID,
	}, decode(t, w))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	s.clock.Advance(2 * time.Second)
	w = s.do(http.MethodGet, "/poll-result/"+validID, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(t, `{"followers":10}`, data["result"])
	assert.Equal(t, "success", data["status"])
	assert.Equal(t, "ok", data["message"])
	assert.Equal(t, float64(t0.UnixMilli()), data["timestamp"])
	assert.Equal(t, float64(2), data["ageSeconds"])
}

func TestHandler_PollNotReady(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(http.MethodGet, "/poll-result/"+validID, "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, map[string]any{
		"success":   false,
		"message":   "Result not ready yet",
		"requestId": validID,
	}, decode(t, w))
}

func TestHandler_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantReason string
	}{
		{name: "bad json", method: http.MethodPost, path: "/receive-data", body: `{oops`, wantStatus: http.StatusBadRequest, wantReason: ReasonInvalidFormat},
		{name: "array payload", method: http.MethodPost, path: "/receive-data", body: `[1]`, wantStatus: http.StatusBadRequest, wantReason: ReasonInvalidPayload},
		{name: "missing id", method: http.MethodPost, path: "/receive-data", body: `{"result":"x"}`, wantStatus: http.StatusBadRequest, wantReason: ReasonMissingID},
		{name: "poll bad charset", method: http.MethodGet, path: "/poll-result/abc%3Cscript%3E", wantStatus: http.StatusBadRequest, wantReason: ReasonIDBadCharset},
		{name: "poll too long", method: http.MethodGet, path: "/poll-result/" + strings.Repeat("1", 51), wantStatus: http.StatusBadRequest, wantReason: ReasonIDTooLong},
		{name: "poll bad shape", method: http.MethodGet, path: "/poll-result/abc", wantStatus: http.StatusBadRequest, wantReason: ReasonIDBadShape},
		{name: "oversized", method: http.MethodPost, path: "/receive-data", body: `{"requestId":"` + validID + `","result":"` + strings.Repeat("x", 1<<20) + `"}`, wantStatus: http.StatusRequestEntityTooLarge, wantReason: ReasonPayloadTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, false)
			w := s.do(tt.method, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decode(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantReason, body["reason"])
			assert.Equal(t, 0, s.store.Len())
		})
	}
}

func TestHandler_PathIDWins(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(http.MethodPost, "/poll-result/"+validID, `{"requestId":"9999999999999-zzzzz","result":"R"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, validID, decode(t, w)["requestId"])

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/poll-result/"+validID, "").Code)
	assert.Equal(t, http.StatusAccepted, s.do(http.MethodGet, "/poll-result/9999999999999-zzzzz", "").Code)
}

func TestHandler_IdempotentOverwrite(t *testing.T) {
	s := newTestServer(t, false)

	s.do(http.MethodPost, "/receive-data", `{"requestId":"`+validID+`","result":"one","status":"a"}`)
	s.do(http.MethodPost, "/receive-data", `{"requestId":"`+validID+`","result":"two"}`)

	data := decode(t, s.do(http.MethodGet, "/poll-result/"+validID, ""))["data"].(map[string]any)
	assert.Equal(t, "two", data["result"])
	assert.Equal(t, DefaultStatus, data["status"])
	assert.Equal(t, 1, s.store.Len())
}

func TestHandler_Expiry(t *testing.T) {
	s := newTestServer(t, false)

	s.do(http.MethodPost, "/receive-data", `{"requestId":"`+validID+`"}`)
	s.clock.Advance(30 * time.Minute)

	assert.Equal(t, http.StatusAccepted, s.do(http.MethodGet, "/poll-result/"+validID, "").Code)
}

func TestHandler_RateLimit(t *testing.T) {
	s := newTestServer(t, false)

	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("17171717171%02d-abcde", i)
		require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/receive-data", `{"requestId":"`+id+`"}`).Code, i)
	}

	w := s.do(http.MethodPost, "/receive-data", `{"requestId":"`+validID+`"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate_limit_exceeded", decode(t, w)["reason"])
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, 20, s.store.Len())

	// Polling is not subject to the write limiter.
	assert.Equal(t, http.StatusAccepted, s.do(http.MethodGet, "/poll-result/"+validID, "").Code)

	s.clock.Advance(time.Minute)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/receive-data", `{"requestId":"`+validID+`"}`).Code)
}

func TestHandler_Clear(t *testing.T) {
	s := newTestServer(t, false)
	s.do(http.MethodPost, "/receive-data", `{"requestId":"1111111111111-aaaaa"}`)
	s.do(http.MethodPost, "/receive-data", `{"requestId":"2222222222222-bbbbb"}`)

	w := s.do(http.MethodDelete, "/api/clear-data/1111111111111-aaaaa", "")
	assert.Equal(t, float64(1), decode(t, w)["cleared"])
	w = s.do(http.MethodDelete, "/api/clear-data/1111111111111-aaaaa", "")
	assert.Equal(t, float64(0), decode(t, w)["cleared"])

	w = s.do(http.MethodDelete, "/api/clear-data", "")
	assert.Equal(t, float64(1), decode(t, w)["cleared"])
	assert.Equal(t, 0, s.store.Len())
}

func TestHandler_HealthAndDebug(t *testing.T) {
	s := newTestServer(t, false)
	s.do(http.MethodPost, "/receive-data", `{"requestId":"`+validID+`","result":"secret"}`)

	w := s.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(1), body["activeResponses"])

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/debug-storage", "").Code)

	s = newTestServer(t, true)
	s.do(http.MethodPost, "/receive-data", `{"check":{"requestId":"`+validID+`","result":"secret"}}`)
	w = s.do(http.MethodGet, "/debug-storage", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")

	body = decode(t, w)
	assert.Equal(t, float64(1), body["totalStored"])
	entry := body["data"].(map[string]any)[validID].(map[string]any)
	assert.Equal(t, "check", entry["flow"])
	assert.Equal(t, true, entry["hasResult"])
}

func TestHandler_ConcurrentWrites(t *testing.T) {
	s := newTestServer(t, false)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("17171717171%02d-abcde", i)
			s.do(http.MethodPost, "/receive-data", `{"requestId":"`+id+`","result":"`+id+`"}`)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("17171717171%02d-abcde", i)
		data := decode(t, s.do(http.MethodGet, "/poll-result/"+id, ""))["data"].(map[string]any)
		assert.Equal(t, id, data["result"])
	}
}
