// cmd/server/server.go
package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/codr1/courtside/internal/api"
	"github.com/codr1/courtside/internal/api/admin"
	"github.com/codr1/courtside/internal/api/courts"
	"github.com/codr1/courtside/internal/api/notifications"
	apipayments "github.com/codr1/courtside/internal/api/payments"
	apireservations "github.com/codr1/courtside/internal/api/reservations"
	"github.com/codr1/courtside/internal/config"
	"github.com/codr1/courtside/internal/metrics"
	"github.com/codr1/courtside/internal/ratelimit"
)

func newServer(cfg *config.Config, a *app) *http.Server {
	router := http.NewServeMux()
	initHandlers(cfg, a)
	registerRoutes(router, cfg, a)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      withMiddleware(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// withMiddleware wraps the router. The first middleware is innermost:
// recovery turns panics into 500s before metrics and logging record them.
func withMiddleware(router http.Handler) http.Handler {
	return api.ChainMiddleware(
		router,
		api.WithRecovery,
		api.WithMetrics,
		api.WithLogging,
		api.WithRequestID,
		api.WithContentType,
	)
}

func initHandlers(cfg *config.Config, a *app) {
	apireservations.InitHandlers(apireservations.Deps{
		Engine:      a.engine,
		Store:       a.store,
		Directory:   a.directory,
		CheckoutURL: cfg.Payments.CheckoutURL,
	})
	apipayments.InitHandlers(apipayments.Deps{
		Reconciler:    a.reconciler,
		Engine:        a.engine,
		WebhookSecret: cfg.Payments.WebhookSecret,
	})
	notifications.InitHandlers(a.notifier)
	admin.InitHandlers(a.catalog, a.store)
	courts.InitHandlers(a.db.Queries)
}

func registerRoutes(mux *http.ServeMux, cfg *config.Config, a *app) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if cfg.Features.EnableMetrics {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	limited := func(scope string, h http.HandlerFunc) http.Handler {
		return a.limiter.Middleware(scope)(h)
	}

	// Reservation lookups used by the public site
	mux.HandleFunc("GET /reserva/info", apireservations.HandleReservationInfo)

	// Change notifications
	mux.Handle("POST /notify/price-change", limited("notify", notifications.HandlePriceChange))
	mux.Handle("POST /notify/schedule-change", limited("notify", notifications.HandleScheduleChange))

	// Payment provider callbacks
	mux.HandleFunc("GET /pago/exito", apipayments.HandlePaymentSuccess)
	mux.Handle("GET /pago/cancelado", limited("payments", apipayments.HandlePaymentCancelled))
	mux.Handle("POST /pago/webhook", webhookHandler(cfg, a.limiter))

	// Booking API
	mux.HandleFunc("GET /api/v1/courts", courts.HandleCourtsList)
	mux.HandleFunc("GET /api/v1/courts/{id}/availability", apireservations.HandleAvailability)
	mux.HandleFunc("POST /api/v1/reservations", apireservations.HandleReservationCreate)
	mux.HandleFunc("POST /api/v1/reservations/{id}/payment", apireservations.HandlePaymentOpen)
	mux.HandleFunc("POST /api/v1/reservations/{id}/cancel", apireservations.HandleReservationCancel)

	// Admin API
	mux.HandleFunc("POST /api/v1/admin/courts", courts.HandleCourtCreate)
	mux.HandleFunc("PUT /api/v1/admin/courts/{id}/active", courts.HandleCourtActive)
	mux.HandleFunc("GET /api/v1/admin/prices", admin.HandlePricesList)
	mux.HandleFunc("PUT /api/v1/admin/prices", admin.HandlePriceUpsert)
	mux.HandleFunc("PUT /api/v1/admin/prices/{courtType}", admin.HandlePricesReplace)
	mux.HandleFunc("DELETE /api/v1/admin/prices/{id}", admin.HandlePriceDeactivate)
	mux.HandleFunc("GET /api/v1/admin/blocks", admin.HandleBlocksList)
	mux.HandleFunc("POST /api/v1/admin/blocks", admin.HandleBlockCreate)
	mux.HandleFunc("DELETE /api/v1/admin/blocks/{id}", admin.HandleBlockClear)
}

// webhookHandler limits unsigned provider callbacks per IP under their own
// scope. Signed callbacks are authenticated and never limited so provider
// bursts are not turned into retries.
func webhookHandler(cfg *config.Config, limiter *ratelimit.Limiter) http.Handler {
	handler := http.HandlerFunc(apipayments.HandleWebhook)
	if cfg.Payments.WebhookSecret != "" {
		return handler
	}
	return limiter.Middleware("webhook")(handler)
}
