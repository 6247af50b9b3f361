package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/artist-booking/internal/config"
	"github.com/iliyamo/artist-booking/internal/database"
	"github.com/iliyamo/artist-booking/internal/handler"
	"github.com/iliyamo/artist-booking/internal/queue"
	"github.com/iliyamo/artist-booking/internal/repository"
	"github.com/iliyamo/artist-booking/internal/router"
	"github.com/iliyamo/artist-booking/internal/service"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)

	db, err := database.Open(cfg.DB)
	if err != nil {
		logger.Fatalf("db open (%s): %v", cfg.DB.Driver, err)
	}
	defer db.Close()
	if err := database.Migrate(db, cfg.DB.Driver); err != nil {
		logger.Fatalf("db migrate: %v", err)
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		logger.Warn("redis unreachable: response cache and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var publisher service.EventPublisher = queue.NopPublisher{}
	if cfg.Rabbit.Enabled {
		publisher = queue.NewPublisher(cfg.Rabbit.URL, logger)
		consumer := queue.NewConsumer(cfg.Rabbit.URL, "logs", logger)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("booking consumer stopped: %v", err)
			}
		}()
	}

	store := repository.NewStore(db)
	authSvc := service.NewAuthService(store, service.AuthSettingsFrom(cfg), logger)

	e := echo.New()
	e.HideBanner = true
	e.Logger = logger
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Infoj(log.JSON{
				"request_id": v.RequestID,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
			})
			return nil
		},
	}))
	e.Use(echomw.CORS())

	router.Register(e, router.Handlers{
		Auth:     handler.NewAuthHandler(authSvc),
		Profiles: handler.NewProfileHandler(service.NewProfileService(store, logger)),
		Bookings: handler.NewBookingHandler(service.NewBookingService(store, publisher, logger)),
		Messages: handler.NewMessageHandler(service.NewMessageService(store, logger)),
		Reviews:  handler.NewReviewHandler(service.NewReviewService(store, logger)),
	}, router.Deps{
		DB:        db,
		Resolver:  authSvc,
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
	})

	addr := ":" + cfg.Port
	go func() {
		logger.Infof("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DB.Driver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}

func newLogger(level string) *log.Logger {
	l := log.New("artist-booking")
	switch strings.ToLower(level) {
	case "debug":
		l.SetLevel(log.DEBUG)
	case "warn":
		l.SetLevel(log.WARN)
	case "error":
		l.SetLevel(log.ERROR)
	default:
		l.SetLevel(log.INFO)
	}
	return l
}
