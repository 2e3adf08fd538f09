// Package reservations owns the reservation lifecycle: the atomic slot claim
// and the forward-only transitions pending -> paid | cancelled | expired.
package reservations

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/apperr"
	"github.com/codr1/courtside/internal/db"
	dbgen "github.com/codr1/courtside/internal/db/generated"
	"github.com/codr1/courtside/internal/models"
	"github.com/codr1/courtside/internal/notify"
	"github.com/codr1/courtside/internal/schedule"
)

const (
	DefaultPendingTTL   = 15 * time.Minute
	DefaultStoreTimeout = 5 * time.Second
)

// Clock interface for testing time-dependent behavior.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type Config struct {
	Hours        schedule.Hours
	PendingTTL   time.Duration
	StoreTimeout time.Duration
	// Location is the facility time zone used to reject past slots.
	Location *time.Location
}

func (c Config) withDefaults() Config {
	if c.Hours.Granularity == 0 {
		c.Hours = schedule.DefaultHours()
	}
	if c.PendingTTL <= 0 {
		c.PendingTTL = DefaultPendingTTL
	}
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = DefaultStoreTimeout
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	return c
}

type Engine struct {
	db       *db.DB
	notifier *notify.Notifier
	config   Config
	clock    Clock
}

// NewEngine builds an engine. A nil clock uses wall time.
func NewEngine(database *db.DB, notifier *notify.Notifier, config Config, clock Clock) *Engine {
	if clock == nil {
		clock = realClock{}
	}
	return &Engine{
		db:       database,
		notifier: notifier,
		config:   config.withDefaults(),
		clock:    clock,
	}
}

func (e *Engine) Config() Config {
	return e.config
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.config.StoreTimeout)
}

func (e *Engine) Get(ctx context.Context, id int64) (models.Reservation, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	row, err := loadReservation(ctx, e.db.Queries, id)
	if err != nil {
		return models.Reservation{}, err
	}
	return models.ReservationFromDB(row), nil
}

func (e *Engine) GetByTransaction(ctx context.Context, transactionID string) (models.Reservation, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	row, err := loadReservationByTransaction(ctx, e.db.Queries, transactionID)
	if err != nil {
		return models.Reservation{}, err
	}
	return models.ReservationFromDB(row), nil
}

// Details returns the reservation with its client and court.
func (e *Engine) Details(ctx context.Context, id int64) (models.ReservationDetails, error) {
	reservation, err := e.Get(ctx, id)
	if err != nil {
		return models.ReservationDetails{}, err
	}
	return e.details(ctx, reservation)
}

func (e *Engine) DetailsByTransaction(ctx context.Context, transactionID string) (models.ReservationDetails, error) {
	reservation, err := e.GetByTransaction(ctx, transactionID)
	if err != nil {
		return models.ReservationDetails{}, err
	}
	return e.details(ctx, reservation)
}

func (e *Engine) details(ctx context.Context, reservation models.Reservation) (models.ReservationDetails, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	client, err := e.db.Queries.GetClient(ctx, reservation.ClientID)
	if err != nil {
		return models.ReservationDetails{}, apperr.Internal("load client", err)
	}
	court, err := e.db.Queries.GetCourt(ctx, reservation.CourtID)
	if err != nil {
		return models.ReservationDetails{}, apperr.Internal("load court", err)
	}
	return models.ReservationDetails{
		Reservation: reservation.View(),
		Client:      models.ClientFromDB(client),
		Court:       models.CourtFromDB(court),
	}, nil
}

func loadReservation(ctx context.Context, q dbgen.Querier, id int64) (dbgen.Reservation, error) {
	row, err := q.GetReservation(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return dbgen.Reservation{}, apperr.NotFound("reservation", id)
		}
		return dbgen.Reservation{}, apperr.Internal("load reservation", err)
	}
	return row, nil
}

func loadReservationByTransaction(ctx context.Context, q dbgen.Querier, transactionID string) (dbgen.Reservation, error) {
	if transactionID == "" {
		return dbgen.Reservation{}, apperr.Validation("transaction id is required")
	}
	row, err := q.GetReservationByTransaction(ctx, nullString(transactionID))
	if err != nil {
		if db.IsNoRows(err) {
			return dbgen.Reservation{}, apperr.NotFound("order", transactionID)
		}
		return dbgen.Reservation{}, apperr.Internal("load reservation", err)
	}
	return row, nil
}

// announce loads the parties of a reservation and hands the event to the
// notifier. Lookup failures are logged; the transition has already committed.
func (e *Engine) announce(ctx context.Context, reservation models.Reservation, build func(models.ReservationDetails) notify.Event) {
	details, err := e.details(ctx, reservation)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("reservation_id", reservation.ID).Msg("Failed to load reservation details for notification")
		return
	}
	e.notifier.Notify(ctx, build(details))
}
