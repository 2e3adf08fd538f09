package reservations

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/apperr"
	"github.com/codr1/courtside/internal/db"
	dbgen "github.com/codr1/courtside/internal/db/generated"
	"github.com/codr1/courtside/internal/models"
)

// ProviderStateCreated marks a payment session that the provider has not
// reported on yet.
const ProviderStateCreated = "created"

// OpenPayment starts a payment session for a pending reservation. The order
// id is generated here and bound to the reservation; repeated calls return
// the same session.
func (e *Engine) OpenPayment(ctx context.Context, id int64) (models.PaymentTransaction, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	var (
		session dbgen.PaymentTransaction
		opened  bool
	)
	err := e.db.RunInTx(ctx, func(tx *db.DB) error {
		current, err := loadReservation(ctx, tx.Queries, id)
		if err != nil {
			return err
		}
		if models.State(current.State) != models.StatePending {
			return apperr.Transition(current.State, "payment")
		}

		existing, err := tx.Queries.GetPaymentTransactionByReservation(ctx, id)
		switch {
		case err == nil:
			session = existing
			return nil
		case !db.IsNoRows(err):
			return apperr.Internal("load payment transaction", err)
		}

		orderID := uuid.NewString()
		session, err = tx.Queries.CreatePaymentTransaction(ctx, dbgen.CreatePaymentTransactionParams{
			TransactionID: orderID,
			ReservationID: id,
			ProviderState: ProviderStateCreated,
			Amount:        current.Amount,
		})
		if err != nil {
			return apperr.Internal("create payment transaction", err)
		}

		affected, err := tx.Queries.AttachReservationTransaction(ctx, dbgen.AttachReservationTransactionParams{
			TransactionID: nullString(orderID),
			UpdatedAt:     e.clock.Now().UTC(),
			ID:            id,
		})
		if err != nil {
			return apperr.Internal("attach transaction", err)
		}
		if affected == 0 {
			return apperr.Validation("reservation %d is already bound to a transaction", id)
		}
		opened = true
		return nil
	})
	if err != nil {
		return models.PaymentTransaction{}, apperr.Internal("open payment", err)
	}

	if opened {
		log.Ctx(ctx).Info().
			Int64("reservation_id", id).
			Str("transaction_id", session.TransactionID).
			Int64("amount", session.Amount).
			Msg("Payment session opened")
	}
	return models.PaymentTransactionFromDB(session), nil
}
