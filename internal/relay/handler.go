package relay

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"relay/internal/logger"
	apperrors "relay/pkg/errors"
	"relay/pkg/health"
)

type BaseHandler struct {
	Service *Service
	Logger  logger.Logger
}

// HandleError renders err. Client faults are logged at warn, server faults at error.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.Logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)
	}

	c.JSON(status, apperrors.ToErrorResponse(err))
}

// RouteOptions carries the per-route guards built from configuration.
type RouteOptions struct {
	// ReceiveGuards run before every producer write.
	ReceiveGuards []gin.HandlerFunc
	// PollGuards run before every consumer poll.
	PollGuards []gin.HandlerFunc
	// Debug exposes /debug-storage.
	Debug bool
}

type Handler struct {
	BaseHandler
	health *health.CheckerRegistry
	now    func() time.Time
}

func NewHandler(service *Service, registry *health.CheckerRegistry, log logger.Logger) *Handler {
	if registry == nil {
		registry = health.NewCheckerRegistry()
	}
	return &Handler{
		BaseHandler: BaseHandler{
			Service: service,
			Logger:  log,
		},
		health: registry,
		now:    time.Now,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine, opts RouteOptions) {
	router.POST("/receive-data", chain(opts.ReceiveGuards, h.ReceiveData)...)
	router.POST("/poll-result/:id", chain(opts.ReceiveGuards, h.ReceiveForID)...)
	router.GET("/poll-result/:id", chain(opts.PollGuards, h.PollResult)...)

	api := router.Group("/api")
	{
		api.DELETE("/clear-data", h.ClearAll)
		api.DELETE("/clear-data/:id", h.ClearOne)
	}

	router.GET("/health", h.Health)

	if opts.Debug {
		router.GET("/debug-storage", h.DebugStorage)
	}
}

func chain(guards []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(guards)+1)
	out = append(out, guards...)
	return append(out, handler)
}

// ReceiveData godoc
// @Summary      Store a producer result
// @Description  Accepts a payload carrying requestId, optionally nested under check, posts, highlights or both.
// @Tags         relay
// @Accept       json
// @Produce      json
// @Param        payload  body      object  true  "Producer payload"
// @Success      200      {object}  ReceiveResponse
// @Failure      400      {object}  errors.ErrorResponse
// @Failure      413      {object}  errors.ErrorResponse
// @Failure      429      {object}  errors.ErrorResponse
// @Router       /receive-data [post]
func (h *Handler) ReceiveData(c *gin.Context) {
	h.receive(c, "")
}

// ReceiveForID godoc
// @Summary      Store a producer result for a known id
// @Description  Same as /receive-data, but the id in the path replaces any requestId in the body.
// @Tags         relay
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Correlation id"
// @Param        payload  body      object  true  "Producer payload"
// @Success      200      {object}  ReceiveResponse
// @Failure      400      {object}  errors.ErrorResponse
// @Failure      413      {object}  errors.ErrorResponse
// @Failure      429      {object}  errors.ErrorResponse
// @Router       /poll-result/{id} [post]
func (h *Handler) ReceiveForID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		h.HandleError(c, errMissingID)
		return
	}
	h.receive(c, id)
}

func (h *Handler) receive(c *gin.Context, pathID string) {
	env, err := h.Service.Receive(c.Request.Context(), c.Request.Body, pathID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ReceiveResponse{
		Success:   true,
		Message:   "Data received successfully",
		RequestID: env.RequestID,
	})
}

// PollResult godoc
// @Summary      Poll for a result
// @Description  Returns 200 with the stored result, or 202 while nothing is stored for the id.
// @Tags         relay
// @Produce      json
// @Param        id   path      string  true  "Correlation id"
// @Success      200  {object}  PollResponse
// @Success      202  {object}  NotReadyResponse
// @Failure      400  {object}  errors.ErrorResponse
// @Failure      429  {object}  errors.ErrorResponse
// @Router       /poll-result/{id} [get]
func (h *Handler) PollResult(c *gin.Context) {
	res, found, err := h.Service.Poll(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if !found {
		c.JSON(http.StatusAccepted, NotReadyResponse{
			Success:   false,
			Message:   "Result not ready yet",
			RequestID: c.Param("id"),
		})
		return
	}

	env := res.Envelope
	c.JSON(http.StatusOK, PollResponse{
		Success: true,
		Data: PollData{
			Result:     env.Result,
			Status:     env.Status,
			Message:    env.Message,
			Timestamp:  env.ReceivedAt.UnixMilli(),
			ReceivedAt: env.ReceivedAt.UTC().Format(time.RFC3339Nano),
			AgeSeconds: res.Age.Seconds(),
		},
	})
}

// ClearAll godoc
// @Summary      Clear all stored results
// @Tags         relay
// @Produce      json
// @Success      200  {object}  ClearResponse
// @Router       /api/clear-data [delete]
func (h *Handler) ClearAll(c *gin.Context) {
	n := h.Service.Clear(c.Request.Context())
	c.JSON(http.StatusOK, ClearResponse{Success: true, Cleared: n})
}

// ClearOne godoc
// @Summary      Clear one stored result
// @Tags         relay
// @Produce      json
// @Param        id   path      string  true  "Correlation id"
// @Success      200  {object}  ClearResponse
// @Failure      400  {object}  errors.ErrorResponse
// @Router       /api/clear-data/{id} [delete]
func (h *Handler) ClearOne(c *gin.Context) {
	removed, err := h.Service.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	cleared := 0
	if removed {
		cleared = 1
	}
	c.JSON(http.StatusOK, ClearResponse{Success: true, Cleared: cleared})
}

type HealthResponse struct {
	Status          health.Status                 `json:"status" example:"healthy"`
	Timestamp       time.Time                     `json:"timestamp"`
	ActiveResponses int                           `json:"activeResponses" example:"3"`
	Checks          map[string]health.CheckResult `json:"checks"`
}

// Health godoc
// @Summary      Service health
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Failure      503  {object}  HealthResponse
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	result := h.health.Check(c.Request.Context())

	status := http.StatusOK
	if result.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, HealthResponse{
		Status:          result.Status,
		Timestamp:       h.now().UTC(),
		ActiveResponses: h.Service.ActiveResponses(),
		Checks:          result.Checks,
	})
}

// DebugStorage godoc
// @Summary      List stored correlation ids
// @Description  Only registered when debug is enabled. Result bodies are not included.
// @Tags         debug
// @Produce      json
// @Success      200  {object}  DebugStorageResponse
// @Router       /debug-storage [get]
func (h *Handler) DebugStorage(c *gin.Context) {
	c.JSON(http.StatusOK, newDebugStorageResponse(h.Service.Snapshot()))
}
