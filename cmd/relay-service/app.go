package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"

	"relay/internal/config"
	"relay/internal/constants"
	"relay/internal/logger"
	"relay/internal/relay"
	"relay/internal/store"
	"relay/pkg/bootstrap"
	"relay/pkg/clock"
	"relay/pkg/health"
	"relay/pkg/metrics"
	"relay/pkg/middleware"
	"relay/pkg/ratelimit"
	"relay/pkg/tracing"
)

type App struct {
	*bootstrap.Base
	clock clock.Clock

	store          *store.MemoryStore
	receiveLimiter *ratelimit.SlidingWindow
	pollLimiter    *ratelimit.TokenBucket
	sweeper        *store.Sweeper
	service        *relay.Service

	router   *gin.Engine
	server   *http.Server
	listener net.Listener
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		Base:  bootstrap.NewBase(cfg, log),
		clock: clock.Real(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.InitTracing(constants.ServiceName); err != nil {
		return err
	}

	if err := a.initComponents(); err != nil {
		return fmt.Errorf("failed to initialize components: %w", err)
	}

	if err := a.initRouter(); err != nil {
		return fmt.Errorf("failed to initialize router: %w", err)
	}

	a.initServer()

	a.Logger.InfowCtx(ctx, "Application initialized")
	return nil
}

func (a *App) initComponents() error {
	cfg := a.Config

	policy, err := store.ParseReadPolicy(cfg.Store.ReadPolicy)
	if err != nil {
		return err
	}

	a.store = store.NewMemoryStore(cfg.Store.TTL, policy, a.clock)
	a.sweeper = store.NewSweeper(cfg.Store.SweepInterval, a.clock, a.Logger)
	a.sweeper.Add(constants.SweepTargetStore, a.store)

	if cfg.RateLimit.Enabled {
		a.receiveLimiter = ratelimit.NewSlidingWindow(cfg.RateLimit.Window, cfg.RateLimit.MaxRequests, a.clock)
		a.sweeper.Add(constants.SweepTargetReceive, a.receiveLimiter)
	}

	if cfg.PollRateLimit.Enabled {
		a.pollLimiter = ratelimit.NewTokenBucket(cfg.PollRateLimit.RPS, cfg.PollRateLimit.Burst, cfg.PollRateLimit.MaxIdle, a.clock)
		a.sweeper.Add(constants.SweepTargetPoll, a.pollLimiter)
	}

	validator := relay.NewValidator(relay.ValidatorConfig{
		StrictID:         cfg.Validation.StrictID,
		MaxIDLength:      cfg.Validation.MaxIDLength,
		MaxResultLength:  cfg.Validation.MaxResultLength,
		MaxStatusLength:  cfg.Validation.MaxStatusLength,
		MaxMessageLength: cfg.Validation.MaxMessageLength,
	}, a.clock)

	a.service = relay.NewService(validator, a.store, a.clock, a.Logger)
	return nil
}

func (a *App) initRouter() error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	if err := router.SetTrustedProxies(a.Config.Server.TrustedProxies); err != nil {
		return fmt.Errorf("invalid trusted proxies: %w", err)
	}

	if a.Config.Tracing.Enabled {
		router.Use(tracing.GinMiddleware(constants.ServiceName))
	}

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware(a.Logger))
	router.Use(middleware.LoggerMiddleware(a.Logger))
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.BodyLimitMiddleware(a.Config.Server.MaxBodyBytes))
	router.NoRoute(middleware.NotFoundHandler())

	metrics.RegisterRelayMetrics()

	healthRegistry := health.NewCheckerRegistry()
	healthRegistry.Register(health.NewStoreChecker(a.store, constants.HealthCheckTimeout))
	healthRegistry.Register(health.NewSweeperChecker(a.sweeper, a.clock))

	opts := relay.RouteOptions{Debug: a.Config.Debug.Enabled}
	if a.receiveLimiter != nil {
		opts.ReceiveGuards = append(opts.ReceiveGuards, ratelimit.Middleware(constants.LimiterReceive, a.receiveLimiter))
		a.Logger.Infow("Rate limiting enabled",
			"window", a.Config.RateLimit.Window.String(),
			"max_requests", a.Config.RateLimit.MaxRequests,
		)
	}
	if a.pollLimiter != nil {
		opts.PollGuards = append(opts.PollGuards, ratelimit.Middleware(constants.LimiterPoll, a.pollLimiter))
		a.Logger.Infow("Poll rate limiting enabled",
			"rps", a.Config.PollRateLimit.RPS,
			"burst", a.Config.PollRateLimit.Burst,
		)
	}
	if opts.Debug {
		a.Logger.Warnw("Debug storage endpoint enabled")
	}

	handler := relay.NewHandler(a.service, healthRegistry, a.Logger)
	handler.RegisterRoutes(router, opts)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	a.router = router
	return nil
}

func (a *App) initServer() {
	a.server = &http.Server{
		Addr:              net.JoinHostPort(a.Config.Server.Host, strconv.Itoa(a.Config.Server.Port)),
		Handler:           a.router,
		ReadTimeout:       a.Config.Server.ReadTimeout,
		ReadHeaderTimeout: a.Config.Server.ReadTimeout,
		WriteTimeout:      a.Config.Server.WriteTimeout,
		IdleTimeout:       a.Config.Server.IdleTimeout,
	}
}

// Run serves HTTP and runs the sweeper until ctx is cancelled or the server
// fails, then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	ln := a.listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", a.server.Addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", a.server.Addr, err)
		}
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfowCtx(ctx, "HTTP server starting", "addr", ln.Addr().String())
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.sweeper.Run(gCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	})

	runErr := g.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
	defer cancel()
	if err := a.Shutdown(shutdownCtx, nil); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

func (a *App) shutdownTimeout() time.Duration {
	if a.Config.Server.ShutdownTimeout > 0 {
		return a.Config.Server.ShutdownTimeout
	}
	return constants.ShutdownTimeout
}
