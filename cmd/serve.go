package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "adsyclub/docs"
	"adsyclub/internal/handlers"
	"adsyclub/internal/jobs/background"
	"adsyclub/internal/middleware"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	echoSwagger "github.com/swaggo/echo-swagger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the background scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func runServer(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, "adsyclub")
	if err != nil {
		return err
	}
	defer a.Close()

	var jwks *keyfunc.JWKS
	if a.cfg.Auth.JWKSURL != "" {
		jwks, err = middleware.LoadJWKS(a.cfg.Auth.JWKSURL)
		if err != nil {
			return err
		}
		defer jwks.EndBackground()
	}

	var scheduler *background.JobScheduler
	if a.cfg.Jobs.Enabled {
		scheduler, err = background.NewJobScheduler(a.cfg.Jobs, a.sweep, a.productSync, a.clock)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				log.Error().Err(err).Msg("Failed to stop job scheduler")
			}
		}()
	}

	e := newRouter(a, jwks, scheduler)

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", a.cfg.Server.Port)
		log.Info().Str("addr", addr).Str("version", Version).Msg("Starting AdsyClub API server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newRouter(a *app, jwks *keyfunc.JWKS, scheduler *background.JobScheduler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	versionMiddleware := middleware.NewVersionMiddleware()
	e.Use(versionMiddleware.APIVersionResolver())

	handlers.NewHealthHandlers(a.pool, a.cache, a.archiver, Version).RegisterRoutes(e)
	if a.cfg.Server.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	var schedule handlers.JobSchedule
	if scheduler != nil {
		schedule = scheduler
	}

	subscriptionHandlers := handlers.NewSubscriptionHandlers(a.subscriptions)
	authHandlers := handlers.NewAuthHandlers(a.auth, a.users)
	userHandlers := handlers.NewUserHandlers(a.users, a.store.Balances, a.store.Notifications)
	adminHandlers := handlers.NewAdminHandlers(a.subscriptions, a.productSync, a.sweep, schedule)

	v1 := versionMiddleware.VersionRoute(e, "v1")
	authHandlers.RegisterRoutes(v1)
	subscriptionHandlers.RegisterPublicRoutes(v1)

	protected := v1.Group("", middleware.JWTMiddleware(a.cfg.Auth.Secret, jwks), middleware.RequireUser())
	subscriptionHandlers.RegisterRoutes(protected)
	userHandlers.RegisterRoutes(protected)

	admin := protected.Group("/admin", middleware.NewAdminMiddleware(a.users).RequireAdmin())
	adminHandlers.RegisterRoutes(admin)

	return e
}
