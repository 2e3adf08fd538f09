// internal/models/reservation.go
package models

import (
	"time"

	dbgen "github.com/codr1/courtside/internal/db/generated"
)

// State is the lifecycle position of a reservation.
type State string

const (
	StatePending   State = "pending"
	StatePaid      State = "paid"
	StateCancelled State = "cancelled"
	StateExpired   State = "expired"
)

// Terminal reports whether no automatic transition leaves this state.
func (s State) Terminal() bool {
	return s == StateCancelled || s == StateExpired
}

// Live reports whether the reservation still holds its slots.
func (s State) Live() bool {
	return s == StatePending || s == StatePaid
}

type Court struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Active bool   `json:"active"`
}

func CourtFromDB(row dbgen.Court) Court {
	return Court{
		ID:     row.ID,
		Name:   row.Name,
		Type:   row.CourtType,
		Active: row.Active,
	}
}

type Client struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func ClientFromDB(row dbgen.Client) Client {
	return Client{
		ID:    row.ID,
		Name:  row.Name,
		Email: row.Email,
		Phone: row.Phone,
	}
}

type Reservation struct {
	ID            int64     `json:"id"`
	CourtID       int64     `json:"courtId"`
	ClientID      int64     `json:"clientId"`
	Date          time.Time `json:"-"`
	Start         TimeOfDay `json:"start"`
	End           TimeOfDay `json:"end"`
	State         State     `json:"state"`
	TransactionID string    `json:"transactionId,omitempty"`
	Amount        int64     `json:"amount"`
	CancelReason  string    `json:"cancelReason,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// DateString is the civil date in its wire format.
func (r Reservation) DateString() string {
	return FormatDate(r.Date)
}

// ReservationFromDB converts a stored row. Rows are written by this package,
// so an unparseable date is left as the zero time.
func ReservationFromDB(row dbgen.Reservation) Reservation {
	date, _ := ParseDate(row.ReservationDate)
	return Reservation{
		ID:            row.ID,
		CourtID:       row.CourtID,
		ClientID:      row.ClientID,
		Date:          date,
		Start:         TimeOfDay(row.StartMinute),
		End:           TimeOfDay(row.EndMinute),
		State:         State(row.State),
		TransactionID: row.TransactionID.String,
		Amount:        row.Amount,
		CancelReason:  row.CancelReason,
		CreatedAt:     row.CreatedAt.UTC(),
		UpdatedAt:     row.UpdatedAt.UTC(),
	}
}

// ReservationView is the reservation as exposed over HTTP.
type ReservationView struct {
	Reservation
	Date string `json:"date"`
}

func (r Reservation) View() ReservationView {
	return ReservationView{Reservation: r, Date: r.DateString()}
}

// ReservationDetails bundles a reservation with its client and court.
type ReservationDetails struct {
	Reservation ReservationView `json:"reservation"`
	Client      Client          `json:"client"`
	Court       Court           `json:"court"`
}

type PaymentTransaction struct {
	TransactionID string    `json:"transactionId"`
	ReservationID int64     `json:"reservationId"`
	ProviderState string    `json:"providerState"`
	Amount        int64     `json:"amount"`
	RawPayload    string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func PaymentTransactionFromDB(row dbgen.PaymentTransaction) PaymentTransaction {
	return PaymentTransaction{
		TransactionID: row.TransactionID,
		ReservationID: row.ReservationID,
		ProviderState: row.ProviderState,
		Amount:        row.Amount,
		RawPayload:    row.RawPayload,
		CreatedAt:     row.CreatedAt.UTC(),
		UpdatedAt:     row.UpdatedAt.UTC(),
	}
}
