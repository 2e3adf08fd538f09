// cmd/server/app.go
package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/clients"
	"github.com/codr1/courtside/internal/config"
	"github.com/codr1/courtside/internal/db"
	"github.com/codr1/courtside/internal/email"
	"github.com/codr1/courtside/internal/notify"
	"github.com/codr1/courtside/internal/payments"
	"github.com/codr1/courtside/internal/pricing"
	"github.com/codr1/courtside/internal/ratelimit"
	"github.com/codr1/courtside/internal/reservations"
	"github.com/codr1/courtside/internal/schedule"
	"github.com/codr1/courtside/internal/scheduler"
)

// app holds the wired services for the lifetime of the process.
type app struct {
	db         *db.DB
	notifier   *notify.Notifier
	catalog    *pricing.Catalog
	store      *schedule.Store
	engine     *reservations.Engine
	reconciler *payments.Reconciler
	directory  *clients.Directory
	scheduler  *scheduler.Service
	limiter    *ratelimit.Limiter
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	database, err := db.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sender, err := newSender(ctx, cfg)
	if err != nil {
		database.Close()
		return nil, err
	}

	hours, err := bookingHours(cfg.Booking)
	if err != nil {
		database.Close()
		return nil, err
	}

	timeout := cfg.Booking.StoreTimeout
	notifier := notify.New(sender, notify.DefaultTimeout)
	engine := reservations.NewEngine(database, notifier, reservations.Config{
		Hours:        hours,
		PendingTTL:   cfg.Booking.PendingTTL,
		StoreTimeout: timeout,
		Location:     cfg.Booking.Location(),
	}, nil)

	sched, err := scheduler.New()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	if err := scheduler.RegisterExpiryJob(sched, engine, cfg.Booking.ExpiryCron, timeout*4); err != nil {
		sched.Stop()
		database.Close()
		return nil, fmt.Errorf("register expiry job: %w", err)
	}

	return &app{
		db:         database,
		notifier:   notifier,
		catalog:    pricing.NewCatalog(database, notifier, timeout),
		store:      schedule.NewStore(database, notifier, hours, timeout),
		engine:     engine,
		reconciler: payments.NewReconciler(database, engine, timeout),
		directory:  clients.NewDirectory(database, cfg.Booking.PhoneRegion, timeout),
		scheduler:  sched,
		limiter: ratelimit.New(&ratelimit.Config{
			Limit:       cfg.RateLimit.RequestsPerMinute,
			ScopeLimits: map[string]int{"webhook": cfg.RateLimit.WebhookRequestsPerMinute},
			TrustProxy:  cfg.RateLimit.TrustProxy,
		}),
	}, nil
}

// newSender delivers notifications through SES when a sender address is
// configured and logs them otherwise.
func newSender(ctx context.Context, cfg *config.Config) (notify.Sender, error) {
	if cfg.Email.Sender == "" || cfg.Email.Region == "" {
		log.Info().Msg("Email not configured, notifications will be logged")
		return notify.LogSender{}, nil
	}

	client, err := email.NewSESClient(ctx, cfg.Email.AccessKeyID, cfg.Email.SecretAccessKey, cfg.Email.Region, cfg.Email.Sender)
	if err != nil {
		return nil, fmt.Errorf("create SES client: %w", err)
	}
	log.Info().Str("region", cfg.Email.Region).Msg("SES notifications enabled")
	return notify.EmailSender{
		Client:          client,
		FacilityName:    cfg.App.Name,
		AdminRecipients: cfg.Email.AdminRecipients,
	}, nil
}

func bookingHours(b config.BookingConfig) (schedule.Hours, error) {
	opens, closes, err := b.OpeningHours()
	if err != nil {
		return schedule.Hours{}, err
	}
	return schedule.Hours{Opens: opens, Closes: closes, Granularity: b.SlotMinutes}, nil
}

func (a *app) Close() {
	if a == nil {
		return
	}
	a.limiter.Close()
	if err := a.db.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close database")
	}
}
