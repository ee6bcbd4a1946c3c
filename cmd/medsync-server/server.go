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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/medsync/medsync/internal/config"
	"github.com/medsync/medsync/internal/domain/hospital"
	"github.com/medsync/medsync/internal/domain/inventory"
	"github.com/medsync/medsync/internal/domain/sharing"
	"github.com/medsync/medsync/internal/platform/auth"
	"github.com/medsync/medsync/internal/platform/db"
	"github.com/medsync/medsync/internal/platform/middleware"
)

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger.Level(level)
}

func jwtConfig(cfg *config.Config) auth.JWTConfig {
	return auth.JWTConfig{
		Issuer:     cfg.AuthIssuer,
		Audience:   cfg.AuthAudience,
		SigningKey: []byte(cfg.AuthSigningKey),
		Skipper:    auth.AuthSkipper,
	}
}

// newEcho builds the server with global middleware, health endpoints and
// authentication. Domain routes are mounted on the returned /api/v1 group.
func newEcho(cfg *config.Config, logger zerolog.Logger, pinger db.Pinger) (*echo.Echo, *echo.Group) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.BodyLimit(cfg.BodyLimit))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
	}))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware(jwtConfig(cfg)))
	} else {
		e.Use(auth.JWTMiddleware(jwtConfig(cfg)))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/db", db.HealthHandler(pinger))

	return e, e.Group("/api/v1")
}

// registerDomains wires the hospital directory, the resource inventory and
// the request workflow over the given pool.
func registerDomains(api *echo.Group, pool *pgxpool.Pool, logger zerolog.Logger) {
	hospSvc := hospital.NewService(hospital.NewRepoPG(pool))
	hospSvc.SetLogger(logger)
	hospital.NewHandler(hospSvc).RegisterRoutes(api)

	invSvc := inventory.NewService(inventory.NewRepoPG(pool), hospSvc)
	invSvc.SetLogger(logger)
	inventory.NewHandler(invSvc).RegisterRoutes(api)

	shareSvc := sharing.NewService(sharing.NewRepoPG(pool), hospSvc, invSvc)
	shareSvc.SetLogger(logger)
	sharing.NewHandler(shareSvc).RegisterRoutes(api)
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnIdleTime: 5 * time.Minute,
		ApplicationName: "medsync-server",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	if cfg.IsDev() && cfg.AuthSigningKey == "" {
		logger.Warn().Msg("development auth: unauthenticated requests run as dev-user with the admin role")
	}

	e, api := newEcho(cfg, logger, pool)
	registerDomains(api, pool, logger)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Bool("tls", cfg.TLSEnabled).Msg("starting server")
		var err error
		if cfg.TLSEnabled {
			err = e.StartTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = e.Start(addr)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
