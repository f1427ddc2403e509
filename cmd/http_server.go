package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/square-payments/internal"
	"github.com/frahmantamala/square-payments/internal/core/events"
	"github.com/frahmantamala/square-payments/internal/payment"
	"github.com/frahmantamala/square-payments/internal/square"
	"github.com/frahmantamala/square-payments/internal/transport/rest"
	"github.com/frahmantamala/square-payments/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle payment and webhook requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config         *internal.Config
	Router         *chi.Mux
	SquareClient   *square.Client
	PaymentHandler *payment.Handler
	WebhookHandler *payment.WebhookHandler
	Logger         *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr, "square_environment", deps.Config.Square.Environment)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	rest.RegisterAllRoutes(deps.Router, deps.Config, deps.SquareClient, deps.PaymentHandler, deps.WebhookHandler, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Format)
	log := logger.L()

	// single long-lived Square client, shared by every in-flight request
	squareClient := square.NewClient(square.Config{
		AccessToken:    config.Square.AccessToken,
		Environment:    config.Square.Environment,
		RequestTimeout: config.Square.RequestTimeout,
	}, log)

	eventBus := events.NewEventBus(log)
	payment.RegisterEventHandlers(eventBus, log)

	paymentService := payment.NewService(squareClient, payment.ServiceConfig{
		LinkName:        config.PaymentLink.Name,
		LinkAmount:      config.PaymentLink.Amount,
		LinkCurrency:    config.PaymentLink.Currency,
		LinkDescription: config.PaymentLink.Description,
	}, eventBus, log)

	paymentHandler := payment.NewHandler(paymentService, log)
	webhookHandler := payment.NewWebhookHandler(payment.WebhookConfig{
		SignatureKey:     config.Webhook.SignatureKey,
		NotificationURL:  config.Webhook.NotificationURL,
		VerifySignatures: config.Webhook.VerifySignatures,
	}, eventBus, log)

	return &Dependencies{
		Config:         config,
		Logger:         log,
		Router:         chi.NewRouter(),
		SquareClient:   squareClient,
		PaymentHandler: paymentHandler,
		WebhookHandler: webhookHandler,
	}, nil
}
