package reservations

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/apperr"
	"github.com/codr1/courtside/internal/clients"
	"github.com/codr1/courtside/internal/db"
	dbgen "github.com/codr1/courtside/internal/db/generated"
	"github.com/codr1/courtside/internal/metrics"
	"github.com/codr1/courtside/internal/models"
	"github.com/codr1/courtside/internal/pricing"
	"github.com/codr1/courtside/internal/schedule"
)

type ClaimRequest struct {
	CourtID  int64
	ClientID int64
	// Contact books for the client with this email instead of ClientID. The
	// client is created, or its contact refreshed, only if the claim succeeds.
	Contact *clients.Contact
	Date    time.Time
	Start   models.TimeOfDay
	End     models.TimeOfDay
}

func (e *Engine) validateClaim(req ClaimRequest) error {
	if req.CourtID <= 0 {
		return apperr.Validation("courtId must be a positive integer")
	}
	if req.Contact == nil && req.ClientID <= 0 {
		return apperr.Validation("clientId must be a positive integer")
	}
	if req.Date.IsZero() {
		return apperr.Validation("date is required")
	}
	hours := e.config.Hours
	if !hours.Aligned(req.Start, req.End) {
		return apperr.Validation("%s-%s must be whole %d-minute slots between %s and %s",
			req.Start, req.End, hours.Granularity, hours.Opens, hours.Closes)
	}
	if req.Start.On(req.Date, e.config.Location).Before(e.clock.Now()) {
		return apperr.Validation("cannot reserve a slot in the past")
	}
	return nil
}

// Claim books [Start, End) on the court for the client. The write either
// inserts every lock cell of the range or nothing; losing a race to another
// claim is reported as a slot conflict and no other slot is tried.
func (e *Engine) Claim(ctx context.Context, req ClaimRequest) (models.Reservation, error) {
	if err := e.validateClaim(req); err != nil {
		metrics.ReservationClaims.WithLabelValues("invalid").Inc()
		return models.Reservation{}, err
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	date := models.FormatDate(req.Date)
	var created dbgen.Reservation
	err := e.db.RunInTx(ctx, func(tx *db.DB) error {
		courtRow, err := tx.Queries.GetCourt(ctx, req.CourtID)
		if err != nil {
			if db.IsNoRows(err) {
				return apperr.NotFound("court", req.CourtID)
			}
			return apperr.Internal("load court", err)
		}
		court := models.CourtFromDB(courtRow)
		if !court.Active {
			return apperr.Validation("court %d is not active", court.ID)
		}

		var client dbgen.Client
		if req.Contact != nil {
			client, err = clients.FindOrCreateIn(ctx, tx.Queries, *req.Contact)
		} else {
			client, err = tx.Queries.GetClient(ctx, req.ClientID)
			if db.IsNoRows(err) {
				return apperr.NotFound("client", req.ClientID)
			}
		}
		if err != nil {
			return apperr.Internal("load client", err)
		}

		reason, blocked, err := schedule.BlockingReason(ctx, tx.Queries, court, req.Date, req.Start, req.End)
		if err != nil {
			return err
		}
		if blocked {
			return apperr.Conflict("court %d is blocked on %s %s-%s: %s", court.ID, date, req.Start, req.End, reason)
		}

		amount, err := pricing.QuoteIn(ctx, tx.Queries, court.Type, req.Date, req.Start, req.End, e.config.Hours.Granularity)
		if err != nil {
			return err
		}

		created, err = tx.Queries.CreateReservation(ctx, dbgen.CreateReservationParams{
			CourtID:         court.ID,
			ClientID:        client.ID,
			ReservationDate: date,
			StartMinute:     int64(req.Start),
			EndMinute:       int64(req.End),
			Amount:          amount,
			CreatedAt:       e.clock.Now().UTC(),
		})
		if err != nil {
			return apperr.Internal("create reservation", err)
		}

		for _, cell := range schedule.Cells(req.Start, req.End) {
			err := tx.Queries.ClaimReservationSlot(ctx, dbgen.ClaimReservationSlotParams{
				CourtID:       court.ID,
				SlotDate:      date,
				SlotMinute:    int64(cell),
				ReservationID: created.ID,
			})
			if err == nil {
				continue
			}
			if db.IsUniqueViolation(err) {
				return apperr.Conflict("court %d is already reserved on %s at %s", court.ID, date, cell)
			}
			return apperr.Internal("claim slot", err)
		}

		if req.Contact != nil {
			if _, err := clients.RefreshIn(ctx, tx.Queries, client, *req.Contact); err != nil {
				return err
			}
		}
		return nil
	})

	logger := log.Ctx(ctx)
	if err != nil {
		err = apperr.Internal("claim reservation", err)
		metrics.ReservationClaims.WithLabelValues(claimOutcome(err)).Inc()
		logger.Info().
			Err(err).
			Int64("court_id", req.CourtID).
			Str("date", date).
			Str("start", req.Start.String()).
			Msg("Reservation claim rejected")
		return models.Reservation{}, err
	}

	metrics.ReservationClaims.WithLabelValues("created").Inc()
	logger.Info().
		Int64("reservation_id", created.ID).
		Int64("court_id", created.CourtID).
		Str("date", date).
		Str("range", fmt.Sprintf("%s-%s", req.Start, req.End)).
		Int64("amount", created.Amount).
		Msg("Reservation claimed")
	return models.ReservationFromDB(created), nil
}

func claimOutcome(err error) string {
	switch {
	case isErr(err, apperr.ErrSlotConflict):
		return "conflict"
	case isErr(err, apperr.ErrValidation):
		return "invalid"
	case isErr(err, apperr.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
