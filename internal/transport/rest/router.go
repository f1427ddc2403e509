package rest

import (
	"log/slog"

	"github.com/frahmantamala/square-payments/internal"
	"github.com/frahmantamala/square-payments/internal/payment"
	"github.com/frahmantamala/square-payments/internal/transport/middleware"
	"github.com/go-chi/chi"
)

func RegisterAllRoutes(router *chi.Mux, cfg *internal.Config, processor LocationLister, paymentHandler *payment.Handler, webhookHandler *payment.WebhookHandler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(processor)

	// Apply global middleware
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Route("/api", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if paymentHandler != nil {
			r.Route("/payment", func(pr chi.Router) {
				pr.Post("/process", paymentHandler.ProcessPayment)
				pr.Get("/create-payment-link", paymentHandler.CreatePaymentLink)
			})
		}

		if webhookHandler != nil {
			r.Post("/webhooks/square-events", webhookHandler.HandleSquareEvent)
		}
	})
}
