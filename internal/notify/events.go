// Package notify emits change events to an injected sender without ever
// failing the operation that produced them.
package notify

import "github.com/codr1/courtside/internal/models"

// Event is a structured change notification.
type Event interface {
	Kind() string
}

type PriceChanged struct {
	AdminName string   `json:"adminName"`
	CourtType string   `json:"courtType"`
	Changes   []string `json:"changes"`
}

func (PriceChanged) Kind() string { return "price_changed" }

type ScheduleChanged struct {
	AdminName string   `json:"adminName"`
	Changes   []string `json:"changes"`
}

func (ScheduleChanged) Kind() string { return "schedule_changed" }

type ReservationConfirmed struct {
	Reservation models.Reservation `json:"reservation"`
	Client      models.Client      `json:"client"`
	Court       models.Court       `json:"court"`
}

func (ReservationConfirmed) Kind() string { return "reservation_confirmed" }

type ReservationCancelled struct {
	Reservation models.Reservation `json:"reservation"`
	Client      models.Client      `json:"client"`
	Court       models.Court       `json:"court"`
	Reason      string             `json:"reason,omitempty"`
}

func (ReservationCancelled) Kind() string { return "reservation_cancelled" }
