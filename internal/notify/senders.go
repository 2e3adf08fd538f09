package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/email"
	"github.com/codr1/courtside/internal/models"
)

// LogSender writes events to the structured log.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, event Event) error {
	entry := log.Ctx(ctx).Info().Str("event", event.Kind())
	switch e := event.(type) {
	case PriceChanged:
		entry = entry.Str("admin", e.AdminName).Str("court_type", e.CourtType).Strs("changes", e.Changes)
	case ScheduleChanged:
		entry = entry.Str("admin", e.AdminName).Strs("changes", e.Changes)
	case ReservationConfirmed:
		entry = entry.Int64("reservation_id", e.Reservation.ID).Str("transaction_id", e.Reservation.TransactionID)
	case ReservationCancelled:
		entry = entry.Int64("reservation_id", e.Reservation.ID).Str("reason", e.Reason)
	}
	entry.Msg("Notification")
	return nil
}

// EmailSender renders events as email. Admin changes go to the configured
// staff recipients and reservation events go to the client.
type EmailSender struct {
	Client          email.EmailSender
	FacilityName    string
	AdminRecipients []string
	Timeout         time.Duration
}

func (s EmailSender) Send(ctx context.Context, event Event) error {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	switch e := event.(type) {
	case PriceChanged:
		message := email.BuildChangeNotice("Prices", email.ChangeDetails{
			FacilityName: s.FacilityName,
			AdminName:    e.AdminName,
			Scope:        e.CourtType,
			Changes:      e.Changes,
		})
		return email.Deliver(ctx, s.Client, s.AdminRecipients, message, timeout)
	case ScheduleChanged:
		message := email.BuildChangeNotice("Schedule", email.ChangeDetails{
			FacilityName: s.FacilityName,
			AdminName:    e.AdminName,
			Changes:      e.Changes,
		})
		return email.Deliver(ctx, s.Client, s.AdminRecipients, message, timeout)
	case ReservationConfirmed:
		message := email.BuildReservationConfirmed(reservationDetails(s.FacilityName, e.Reservation, e.Client, e.Court, ""))
		return email.Deliver(ctx, s.Client, []string{e.Client.Email}, message, timeout)
	case ReservationCancelled:
		message := email.BuildReservationCancelled(reservationDetails(s.FacilityName, e.Reservation, e.Client, e.Court, e.Reason))
		return email.Deliver(ctx, s.Client, []string{e.Client.Email}, message, timeout)
	default:
		return fmt.Errorf("unsupported event %q", event.Kind())
	}
}

func reservationDetails(facility string, r models.Reservation, client models.Client, court models.Court, reason string) email.ReservationDetails {
	return email.ReservationDetails{
		FacilityName:  facility,
		ClientName:    client.Name,
		CourtName:     court.Name,
		Date:          r.DateString(),
		TimeRange:     fmt.Sprintf("%s-%s", r.Start, r.End),
		Amount:        r.Amount,
		TransactionID: r.TransactionID,
		Reason:        reason,
	}
}

// Recorder keeps events in memory. Tests use it to assert what was emitted.
type Recorder struct {
	events chan Event
}

func NewRecorder(capacity int) *Recorder {
	return &Recorder{events: make(chan Event, capacity)}
}

func (r *Recorder) Send(_ context.Context, event Event) error {
	select {
	case r.events <- event:
		return nil
	default:
		return fmt.Errorf("recorder full")
	}
}

// Events drains what has been recorded so far.
func (r *Recorder) Events() []Event {
	var events []Event
	for {
		select {
		case event := <-r.events:
			events = append(events, event)
		default:
			return events
		}
	}
}
