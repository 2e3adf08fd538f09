package reservations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/apperr"
	"github.com/codr1/courtside/internal/db"
	dbgen "github.com/codr1/courtside/internal/db/generated"
	"github.com/codr1/courtside/internal/metrics"
	"github.com/codr1/courtside/internal/models"
	"github.com/codr1/courtside/internal/notify"
)

type CancelOptions struct {
	Reason string
	// RefundConfirmed allows cancelling a paid reservation once the provider
	// has confirmed the refund.
	RefundConfirmed bool
}

// Cancel moves a pending reservation, or a refunded paid one, to cancelled
// and releases its slots in the same transaction.
func (e *Engine) Cancel(ctx context.Context, id int64, opts CancelOptions) (models.Reservation, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	var (
		from      models.State
		cancelled dbgen.Reservation
	)
	err := e.db.RunInTx(ctx, func(tx *db.DB) error {
		current, err := loadReservation(ctx, tx.Queries, id)
		if err != nil {
			return err
		}

		from = models.State(current.State)
		switch {
		case from == models.StatePending:
		case from == models.StatePaid && opts.RefundConfirmed:
		case from == models.StatePaid:
			return fmt.Errorf("%w: paid reservations are cancelled only after a confirmed refund", apperr.Transition(string(from), string(models.StateCancelled)))
		default:
			return apperr.Transition(string(from), string(models.StateCancelled))
		}

		affected, err := tx.Queries.CancelReservation(ctx, dbgen.CancelReservationParams{
			CancelReason: opts.Reason,
			UpdatedAt:    e.clock.Now().UTC(),
			ID:           id,
			FromState:    string(from),
		})
		if err != nil {
			return apperr.Internal("cancel reservation", err)
		}
		if affected == 0 {
			return apperr.Transition(string(from), string(models.StateCancelled))
		}

		if _, err := tx.Queries.ReleaseReservationSlots(ctx, id); err != nil {
			return apperr.Internal("release slots", err)
		}

		cancelled, err = loadReservation(ctx, tx.Queries, id)
		return err
	})
	if err != nil {
		return models.Reservation{}, apperr.Internal("cancel reservation", err)
	}

	reservation := models.ReservationFromDB(cancelled)
	metrics.ReservationTransitions.WithLabelValues(string(from), string(models.StateCancelled)).Inc()
	log.Ctx(ctx).Info().
		Int64("reservation_id", id).
		Str("from", string(from)).
		Str("reason", opts.Reason).
		Msg("Reservation cancelled")

	e.announce(ctx, reservation, func(d models.ReservationDetails) notify.Event {
		return notify.ReservationCancelled{Reservation: reservation, Client: d.Client, Court: d.Court, Reason: opts.Reason}
	})
	return reservation, nil
}

// ConfirmPaid moves a pending reservation to paid under transactionID.
// Confirming an already paid reservation with the same transaction is a
// no-op reported with changed=false. Anything else that is not pending is an
// invalid transition.
func (e *Engine) ConfirmPaid(ctx context.Context, id int64, transactionID string) (models.Reservation, bool, error) {
	if transactionID == "" {
		return models.Reservation{}, false, apperr.Validation("transaction id is required")
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	var (
		changed bool
		result  dbgen.Reservation
	)
	err := e.db.RunInTx(ctx, func(tx *db.DB) error {
		current, err := loadReservation(ctx, tx.Queries, id)
		if err != nil {
			return err
		}

		if err := checkConfirmable(current, transactionID); err != nil {
			return err
		}
		if current.State == string(models.StatePaid) {
			result = current
			return nil
		}

		affected, err := tx.Queries.MarkReservationPaid(ctx, dbgen.MarkReservationPaidParams{
			TransactionID: nullString(transactionID),
			UpdatedAt:     e.clock.Now().UTC(),
			ID:            id,
		})
		if err != nil {
			if db.IsUniqueViolation(err) {
				return apperr.Validation("transaction %s already belongs to another reservation", transactionID)
			}
			return apperr.Internal("confirm reservation", err)
		}
		if affected == 0 {
			return apperr.Transition(current.State, string(models.StatePaid))
		}

		changed = true
		result, err = loadReservation(ctx, tx.Queries, id)
		return err
	})
	if err != nil {
		return models.Reservation{}, false, apperr.Internal("confirm reservation", err)
	}

	reservation := models.ReservationFromDB(result)
	if !changed {
		log.Ctx(ctx).Debug().Int64("reservation_id", id).Str("transaction_id", transactionID).Msg("Reservation already confirmed")
		return reservation, false, nil
	}

	metrics.ReservationTransitions.WithLabelValues(string(models.StatePending), string(models.StatePaid)).Inc()
	log.Ctx(ctx).Info().
		Int64("reservation_id", id).
		Str("transaction_id", transactionID).
		Msg("Reservation confirmed")

	e.announce(ctx, reservation, func(d models.ReservationDetails) notify.Event {
		return notify.ReservationConfirmed{Reservation: reservation, Client: d.Client, Court: d.Court}
	})
	return reservation, true, nil
}

func checkConfirmable(current dbgen.Reservation, transactionID string) error {
	bound := current.TransactionID
	switch models.State(current.State) {
	case models.StatePending:
		if bound.Valid && bound.String != transactionID {
			return apperr.Validation("reservation %d is bound to another transaction", current.ID)
		}
		return nil
	case models.StatePaid:
		if bound.Valid && bound.String == transactionID {
			return nil
		}
		return fmt.Errorf("%w: paid under another transaction", apperr.Transition(current.State, string(models.StatePaid)))
	default:
		return apperr.Transition(current.State, string(models.StatePaid))
	}
}

// ExpireStale expires pending reservations created more than the pending TTL
// before now and releases their slots. Each reservation is expired in its own
// conditional write, so overlapping sweeps never expire a row twice.
// Expiry is not announced.
func (e *Engine) ExpireStale(ctx context.Context, now time.Time) ([]models.Reservation, error) {
	cutoff := now.UTC().Add(-e.config.PendingTTL)
	logger := log.Ctx(ctx)

	listCtx, cancel := e.withTimeout(ctx)
	stale, err := e.db.Queries.ListStalePendingReservations(listCtx, cutoff)
	cancel()
	if err != nil {
		return nil, apperr.Internal("list stale reservations", err)
	}

	var (
		expired []models.Reservation
		errs    []error
	)
	for _, candidate := range stale {
		reservation, ok, err := e.expireOne(ctx, candidate.ID, cutoff, now.UTC())
		if err != nil {
			logger.Error().Err(err).Int64("reservation_id", candidate.ID).Msg("Failed to expire reservation")
			errs = append(errs, err)
			continue
		}
		if !ok {
			continue
		}
		metrics.ReservationTransitions.WithLabelValues(string(models.StatePending), string(models.StateExpired)).Inc()
		expired = append(expired, reservation)
	}

	if len(expired) > 0 {
		logger.Info().Int("count", len(expired)).Time("cutoff", cutoff).Msg("Expired stale reservations")
	}
	if len(errs) > 0 {
		return expired, apperr.Internal("expire stale reservations", errors.Join(errs...))
	}
	return expired, nil
}

func (e *Engine) expireOne(ctx context.Context, id int64, cutoff, now time.Time) (models.Reservation, bool, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	var (
		expired bool
		row     dbgen.Reservation
	)
	err := e.db.RunInTx(ctx, func(tx *db.DB) error {
		affected, err := tx.Queries.ExpireReservation(ctx, dbgen.ExpireReservationParams{
			UpdatedAt:     now,
			ID:            id,
			CreatedBefore: cutoff,
		})
		if err != nil {
			return apperr.Internal("expire reservation", err)
		}
		if affected == 0 {
			return nil
		}
		if _, err := tx.Queries.ReleaseReservationSlots(ctx, id); err != nil {
			return apperr.Internal("release slots", err)
		}
		expired = true
		row, err = loadReservation(ctx, tx.Queries, id)
		return err
	})
	if err != nil {
		return models.Reservation{}, false, err
	}
	return models.ReservationFromDB(row), expired, nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func isErr(err, target error) bool {
	return errors.Is(err, target)
}
