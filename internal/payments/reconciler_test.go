package payments

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/codr1/courtside/internal/apperr"
	"github.com/codr1/courtside/internal/db"
	"github.com/codr1/courtside/internal/models"
	"github.com/codr1/courtside/internal/notify"
	"github.com/codr1/courtside/internal/reservations"
	"github.com/codr1/courtside/internal/schedule"
	"github.com/codr1/courtside/internal/testutil"
)

type fixture struct {
	db         *db.DB
	engine     *reservations.Engine
	reconciler *Reconciler
	recorder   *notify.Recorder
	courtID    int64
	clientID   int64
}

func setup(t *testing.T) fixture {
	t.Helper()

	database := testutil.NewTestDB(t)
	court := testutil.SeedCourt(t, database, "Cancha 1", "padel")
	client := testutil.SeedClient(t, database, "Lucia", "lucia@test.com")
	testutil.SeedDayPrices(t, database, "padel", 18000)

	recorder := notify.NewRecorder(64)
	clock := &testutil.FixedClock{Current: time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)}
	engine := reservations.NewEngine(database, notify.New(recorder, time.Second), reservations.Config{
		Hours:    schedule.DefaultHours(),
		Location: time.UTC,
	}, clock)

	return fixture{
		db:         database,
		engine:     engine,
		reconciler: NewReconciler(database, engine, time.Second),
		recorder:   recorder,
		courtID:    court.ID,
		clientID:   client.ID,
	}
}

func (f fixture) claim(t *testing.T, startHour int) models.Reservation {
	t.Helper()

	date, err := models.ParseDate("2025-07-01")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	reservation, err := f.engine.Claim(context.Background(), reservations.ClaimRequest{
		CourtID:  f.courtID,
		ClientID: f.clientID,
		Date:     date,
		Start:    models.NewTimeOfDay(startHour, 0),
		End:      models.NewTimeOfDay(startHour+1, 0),
	})
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	return reservation
}

func (f fixture) open(t *testing.T, reservation models.Reservation) string {
	t.Helper()

	session, err := f.engine.OpenPayment(context.Background(), reservation.ID)
	if err != nil {
		t.Fatalf("OpenPayment: %v", err)
	}
	return session.TransactionID
}

func (f fixture) state(t *testing.T, id int64) models.State {
	t.Helper()

	reservation, err := f.engine.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	return reservation.State
}

func confirmations(events []notify.Event) int {
	n := 0
	for _, event := range events {
		if _, ok := event.(notify.ReservationConfirmed); ok {
			n++
		}
	}
	return n
}

func TestNormalizeState(t *testing.T) {
	tests := []struct {
		raw  string
		want ProviderState
	}{
		{"approved", StateApproved},
		{" PAID ", StateApproved},
		{"declined", StateRejected},
		{"canceled", StateCancelled},
		{"refunded", StateRefunded},
		{"in_process", StatePending},
		{"unknown", StateUnknown},
	}
	for _, tt := range tests {
		got, err := NormalizeState(tt.raw)
		if err != nil {
			t.Fatalf("NormalizeState(%q): %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("NormalizeState(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}

	for _, raw := range []string{"", "chargeback"} {
		if _, err := NormalizeState(raw); !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("NormalizeState(%q) err = %v, want validation", raw, err)
		}
	}
}

func TestApplyApprovedIsIdempotent(t *testing.T) {
	f := setup(t)
	reservation := f.claim(t, 18)
	orderID := f.open(t, reservation)
	ctx := context.Background()

	first, err := f.reconciler.Apply(ctx, Notification{TransactionID: orderID, ProviderState: "approved", Payload: `{"status":"approved"}`})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if first.Outcome != OutcomeApplied {
		t.Fatalf("first outcome = %q, want applied", first.Outcome)
	}
	if first.Reservation.State != models.StatePaid {
		t.Fatalf("state = %q, want paid", first.Reservation.State)
	}

	second, err := f.reconciler.Apply(ctx, Notification{TransactionID: orderID, ProviderState: "paid"})
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if second.Outcome != OutcomeDuplicate {
		t.Fatalf("second outcome = %q, want duplicate", second.Outcome)
	}

	if got := confirmations(f.recorder.Events()); got != 1 {
		t.Fatalf("confirmations = %d, want 1", got)
	}

	stored, err := f.db.Queries.GetPaymentTransaction(ctx, orderID)
	if err != nil {
		t.Fatalf("GetPaymentTransaction: %v", err)
	}
	if stored.ProviderState != string(StateApproved) {
		t.Fatalf("provider state = %q, want approved", stored.ProviderState)
	}
	if stored.RawPayload != `{"status":"approved"}` {
		t.Fatalf("raw payload = %q", stored.RawPayload)
	}
}

func TestApplyConcurrentDuplicatesConfirmOnce(t *testing.T) {
	f := setup(t)
	reservation := f.claim(t, 19)
	orderID := f.open(t, reservation)

	var wg sync.WaitGroup
	errs := make(chan error, 6)
	for range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.reconciler.Apply(context.Background(), Notification{TransactionID: orderID, ProviderState: "approved"}); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Apply: %v", err)
	}

	if got := confirmations(f.recorder.Events()); got != 1 {
		t.Fatalf("confirmations = %d, want 1", got)
	}
	if state := f.state(t, reservation.ID); state != models.StatePaid {
		t.Fatalf("state = %q, want paid", state)
	}
}

func TestApplyLateApprovalOnCancelledIsAcknowledged(t *testing.T) {
	f := setup(t)
	reservation := f.claim(t, 20)
	orderID := f.open(t, reservation)
	ctx := context.Background()

	if _, err := f.engine.Cancel(ctx, reservation.ID, reservations.CancelOptions{Reason: "client"}); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	result, err := f.reconciler.Apply(ctx, Notification{TransactionID: orderID, ProviderState: "approved"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if result.Outcome != OutcomeIgnored {
		t.Fatalf("outcome = %q, want ignored", result.Outcome)
	}
	if state := f.state(t, reservation.ID); state != models.StateCancelled {
		t.Fatalf("state = %q, want cancelled", state)
	}
	if got := confirmations(f.recorder.Events()); got != 0 {
		t.Fatalf("confirmations = %d, want 0", got)
	}
}

func TestApplyRejectedReleasesSlot(t *testing.T) {
	f := setup(t)
	reservation := f.claim(t, 18)
	orderID := f.open(t, reservation)

	result, err := f.reconciler.Apply(context.Background(), Notification{TransactionID: orderID, ProviderState: "rejected"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if result.Outcome != OutcomeApplied || result.Reservation.State != models.StateCancelled {
		t.Fatalf("result = %+v, want applied cancellation", result)
	}

	// The hour is free again.
	f.claim(t, 18)
}

func TestApplyRefundCancelsPaid(t *testing.T) {
	f := setup(t)
	reservation := f.claim(t, 18)
	orderID := f.open(t, reservation)
	ctx := context.Background()

	if _, err := f.reconciler.Apply(ctx, Notification{TransactionID: orderID, ProviderState: "approved"}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	result, err := f.reconciler.Apply(ctx, Notification{TransactionID: orderID, ProviderState: "refunded"})
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if result.Reservation.State != models.StateCancelled {
		t.Fatalf("state = %q, want cancelled", result.Reservation.State)
	}
	if result.Reservation.CancelReason != "payment refunded" {
		t.Fatalf("cancel reason = %q", result.Reservation.CancelReason)
	}
}

func TestApplyPendingOnlyRecords(t *testing.T) {
	f := setup(t)
	reservation := f.claim(t, 18)
	orderID := f.open(t, reservation)
	ctx := context.Background()

	result, err := f.reconciler.Apply(ctx, Notification{TransactionID: orderID, ProviderState: "in_process"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if result.Outcome != OutcomeRecorded {
		t.Fatalf("outcome = %q, want recorded", result.Outcome)
	}
	if state := f.state(t, reservation.ID); state != models.StatePending {
		t.Fatalf("state = %q, want pending", state)
	}
	stored, err := f.db.Queries.GetPaymentTransaction(ctx, orderID)
	if err != nil {
		t.Fatalf("GetPaymentTransaction: %v", err)
	}
	if stored.ProviderState != string(StatePending) {
		t.Fatalf("provider state = %q, want pending", stored.ProviderState)
	}
}

func TestApplyByReservationReference(t *testing.T) {
	f := setup(t)
	reservation := f.claim(t, 18)
	ctx := context.Background()
	ref := strconv.FormatInt(reservation.ID, 10)

	result, err := f.reconciler.Apply(ctx, Notification{TransactionID: "mp-777", ReservationRef: ref, ProviderState: "approved"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if result.Reservation.TransactionID != "mp-777" {
		t.Fatalf("transaction id = %q, want mp-777", result.Reservation.TransactionID)
	}
	if _, err := f.db.Queries.GetPaymentTransaction(ctx, "mp-777"); err != nil {
		t.Fatalf("payment transaction not recorded: %v", err)
	}

	_, err = f.reconciler.Apply(ctx, Notification{TransactionID: "mp-778", ReservationRef: ref, ProviderState: "approved"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("other transaction err = %v, want validation", err)
	}
}

func TestApplyRejectsMalformedNotifications(t *testing.T) {
	f := setup(t)
	reservation := f.claim(t, 18)
	orderID := f.open(t, reservation)
	ctx := context.Background()

	tests := []struct {
		name string
		n    Notification
		want error
	}{
		{"missing transaction", Notification{ProviderState: "approved"}, apperr.ErrValidation},
		{"unknown state", Notification{TransactionID: orderID, ProviderState: "chargeback"}, apperr.ErrValidation},
		{"bad reference", Notification{TransactionID: "mp-1", ReservationRef: "abc", ProviderState: "approved"}, apperr.ErrValidation},
		{"unknown order", Notification{TransactionID: "nope", ProviderState: "approved"}, apperr.ErrNotFound},
		{"unknown reservation", Notification{TransactionID: "mp-2", ReservationRef: "9999", ProviderState: "approved"}, apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.reconciler.Apply(ctx, tt.n); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	stored, err := f.db.Queries.GetPaymentTransaction(ctx, orderID)
	if err != nil {
		t.Fatalf("GetPaymentTransaction: %v", err)
	}
	if stored.ProviderState != reservations.ProviderStateCreated {
		t.Fatalf("provider state = %q, want untouched", stored.ProviderState)
	}
	if state := f.state(t, reservation.ID); state != models.StatePending {
		t.Fatalf("state = %q, want pending", state)
	}
}
