package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"rideshare/internal/api"
	"rideshare/internal/api/handlers"
	"rideshare/internal/config"
	"rideshare/internal/identity"
	"rideshare/internal/logging"
	"rideshare/internal/repository"
	"rideshare/internal/routing"
	"rideshare/internal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath, port, issueToken string

	flagSet := pflag.NewFlagSet("rideshare", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	flagSet.StringVar(&port, "port", "", "listen address, overrides server.port (e.g. :8080)")
	flagSet.StringVar(&issueToken, "issue-token", "", "print a bearer token for this user id and exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Server.Port = port
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	tokens := identity.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if issueToken != "" {
		token, err := tokens.Issue(issueToken)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher, closePublisher, err := openPublisher(cfg.Events)
	if err != nil {
		return err
	}
	defer closePublisher()

	var oracle routing.Oracle = routing.Disabled{}
	if cfg.Routing.Enabled {
		oracle = routing.NewClient(cfg.Routing)
	}

	// Initialize repositories
	rides := repository.NewRideRepository(store)
	profiles := repository.NewProfileRepository(store)
	provider := identity.NewContextProvider()

	// Initialize services
	bookingService := services.NewBookingService(rides, provider, publisher)
	matchingService := services.NewMatchingService(rides)

	// Setup router
	router := api.NewRouter(
		handlers.NewRideHandler(bookingService, matchingService, cfg.Matching),
		handlers.NewProfileHandler(profiles, provider),
		handlers.NewRouteHandler(oracle),
		tokens,
		profiles,
		cfg.RateLimit,
	)
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	router.Setup(engine)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().
			Str("addr", cfg.Server.Port).
			Str("store", cfg.Store.Driver).
			Str("events", cfg.Events.Driver).
			Bool("routing", cfg.Routing.Enabled).
			Msg("starting rideshare server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
