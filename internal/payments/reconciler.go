// Package payments reconciles provider payment notifications with the
// reservation lifecycle.
package payments

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/apperr"
	"github.com/codr1/courtside/internal/db"
	dbgen "github.com/codr1/courtside/internal/db/generated"
	"github.com/codr1/courtside/internal/metrics"
	"github.com/codr1/courtside/internal/models"
	"github.com/codr1/courtside/internal/reservations"
)

// Lifecycle is the part of the reservation engine the reconciler drives.
type Lifecycle interface {
	ConfirmPaid(ctx context.Context, id int64, transactionID string) (models.Reservation, bool, error)
	Cancel(ctx context.Context, id int64, opts reservations.CancelOptions) (models.Reservation, error)
}

// Notification is one provider report about a payment.
type Notification struct {
	TransactionID  string
	ReservationRef string
	ProviderState  string
	Payload        string
}

type Outcome string

const (
	// OutcomeApplied means the reservation changed state.
	OutcomeApplied Outcome = "applied"
	// OutcomeDuplicate means the same state was already recorded.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeRecorded means the state was stored without a transition.
	OutcomeRecorded Outcome = "recorded"
	// OutcomeIgnored means the transition was refused as late or out of order.
	OutcomeIgnored Outcome = "ignored"
)

type Result struct {
	Outcome     Outcome            `json:"outcome"`
	State       ProviderState      `json:"state"`
	Reservation models.Reservation `json:"reservation"`
}

type Reconciler struct {
	db        *db.DB
	lifecycle Lifecycle
	timeout   time.Duration
	now       func() time.Time
}

func NewReconciler(database *db.DB, lifecycle Lifecycle, timeout time.Duration) *Reconciler {
	return &Reconciler{
		db:        database,
		lifecycle: lifecycle,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Apply maps a notification onto the reservation it refers to. Applying the
// same transaction and state again is acknowledged without side effects.
// Malformed notifications are rejected before anything is written.
func (r *Reconciler) Apply(ctx context.Context, n Notification) (Result, error) {
	transactionID := strings.TrimSpace(n.TransactionID)
	if transactionID == "" {
		return Result{}, apperr.Validation("transaction id is required")
	}
	state, err := NormalizeState(n.ProviderState)
	if err != nil {
		return Result{}, err
	}

	logger := log.Ctx(ctx).With().
		Str("transaction_id", transactionID).
		Str("provider_state", string(state)).
		Logger()

	reservation, stored, err := r.lookup(ctx, transactionID, strings.TrimSpace(n.ReservationRef))
	if err != nil {
		metrics.PaymentNotifications.WithLabelValues(string(state), "rejected").Inc()
		return Result{}, err
	}
	logger = logger.With().Int64("reservation_id", reservation.ID).Logger()

	result := Result{State: state, Reservation: reservation}
	if stored != nil && ProviderState(stored.ProviderState) == state {
		result.Outcome = OutcomeDuplicate
		metrics.PaymentNotifications.WithLabelValues(string(state), string(result.Outcome)).Inc()
		logger.Debug().Msg("Duplicate payment notification")
		return result, nil
	}

	result.Outcome, result.Reservation, err = r.transition(ctx, reservation, transactionID, state)
	if err != nil {
		metrics.PaymentNotifications.WithLabelValues(string(state), "failed").Inc()
		return Result{}, err
	}
	if result.Outcome == OutcomeIgnored {
		logger.Warn().Str("reservation_state", string(reservation.State)).Msg("Payment notification ignored: invalid transition")
	}

	if err := r.record(ctx, reservation, stored, transactionID, state, n.Payload); err != nil {
		metrics.PaymentNotifications.WithLabelValues(string(state), "failed").Inc()
		return Result{}, err
	}

	metrics.PaymentNotifications.WithLabelValues(string(state), string(result.Outcome)).Inc()
	logger.Info().Str("outcome", string(result.Outcome)).Msg("Payment notification applied")
	return result, nil
}

func (r *Reconciler) transition(ctx context.Context, reservation models.Reservation, transactionID string, state ProviderState) (Outcome, models.Reservation, error) {
	var (
		updated models.Reservation
		changed = true
		err     error
	)
	switch state {
	case StateApproved:
		updated, changed, err = r.lifecycle.ConfirmPaid(ctx, reservation.ID, transactionID)
	case StateRejected, StateCancelled:
		updated, err = r.lifecycle.Cancel(ctx, reservation.ID, reservations.CancelOptions{Reason: "payment " + string(state)})
	case StateRefunded:
		updated, err = r.lifecycle.Cancel(ctx, reservation.ID, reservations.CancelOptions{Reason: "payment refunded", RefundConfirmed: true})
	default:
		return OutcomeRecorded, reservation, nil
	}

	switch {
	case errors.Is(err, apperr.ErrInvalidTransition):
		return OutcomeIgnored, reservation, nil
	case err != nil:
		return "", models.Reservation{}, err
	case !changed:
		return OutcomeDuplicate, updated, nil
	}
	return OutcomeApplied, updated, nil
}

// lookup finds the reservation by transaction id, then by the reservation
// reference. A reservation already bound to a different transaction is
// rejected.
func (r *Reconciler) lookup(ctx context.Context, transactionID, ref string) (models.Reservation, *dbgen.PaymentTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stored *dbgen.PaymentTransaction
	row, err := r.db.Queries.GetPaymentTransaction(ctx, transactionID)
	switch {
	case err == nil:
		stored = &row
	case !db.IsNoRows(err):
		return models.Reservation{}, nil, apperr.Internal("load payment transaction", err)
	}

	var reservationID int64
	switch {
	case stored != nil:
		reservationID = stored.ReservationID
	case ref != "":
		reservationID, err = strconv.ParseInt(ref, 10, 64)
		if err != nil || reservationID <= 0 {
			return models.Reservation{}, nil, apperr.Validation("reservation reference %q is invalid", ref)
		}
	default:
		bound, err := r.db.Queries.GetReservationByTransaction(ctx, nullString(transactionID))
		if err != nil {
			if db.IsNoRows(err) {
				return models.Reservation{}, nil, apperr.NotFound("order", transactionID)
			}
			return models.Reservation{}, nil, apperr.Internal("load reservation", err)
		}
		reservationID = bound.ID
	}

	reservationRow, err := r.db.Queries.GetReservation(ctx, reservationID)
	if err != nil {
		if db.IsNoRows(err) {
			return models.Reservation{}, nil, apperr.NotFound("reservation", reservationID)
		}
		return models.Reservation{}, nil, apperr.Internal("load reservation", err)
	}
	reservation := models.ReservationFromDB(reservationRow)
	if reservation.TransactionID != "" && reservation.TransactionID != transactionID {
		return models.Reservation{}, nil, apperr.Validation("reservation %d is bound to another transaction", reservation.ID)
	}
	if stored == nil {
		other, err := r.db.Queries.GetPaymentTransactionByReservation(ctx, reservation.ID)
		switch {
		case err == nil && other.TransactionID != transactionID:
			return models.Reservation{}, nil, apperr.Validation("reservation %d is bound to another transaction", reservation.ID)
		case err != nil && !db.IsNoRows(err):
			return models.Reservation{}, nil, apperr.Internal("load payment transaction", err)
		}
	}
	return reservation, stored, nil
}

func (r *Reconciler) record(ctx context.Context, reservation models.Reservation, stored *dbgen.PaymentTransaction, transactionID string, state ProviderState, payload string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if stored != nil {
		if _, err := r.db.Queries.UpdatePaymentTransactionState(ctx, dbgen.UpdatePaymentTransactionStateParams{
			ProviderState: string(state),
			RawPayload:    payload,
			UpdatedAt:     r.now().UTC(),
			TransactionID: transactionID,
		}); err != nil {
			return apperr.Internal("record payment state", err)
		}
		return nil
	}

	if _, err := r.db.Queries.CreatePaymentTransaction(ctx, dbgen.CreatePaymentTransactionParams{
		TransactionID: transactionID,
		ReservationID: reservation.ID,
		ProviderState: string(state),
		Amount:        reservation.Amount,
		RawPayload:    payload,
	}); err != nil {
		if db.IsUniqueViolation(err) {
			// A concurrent notification recorded the transaction first.
			_, err = r.db.Queries.UpdatePaymentTransactionState(ctx, dbgen.UpdatePaymentTransactionStateParams{
				ProviderState: string(state),
				RawPayload:    payload,
				UpdatedAt:     r.now().UTC(),
				TransactionID: transactionID,
			})
		}
		if err != nil {
			return apperr.Internal("record payment state", err)
		}
	}
	return nil
}
