package email

import (
	"fmt"
	"strings"
)

type Message struct {
	Subject string
	Body    string
}

type ReservationDetails struct {
	FacilityName  string
	ClientName    string
	CourtName     string
	Date          string
	TimeRange     string
	Amount        int64
	TransactionID string
	Reason        string
}

type ChangeDetails struct {
	FacilityName string
	AdminName    string
	Scope        string
	Changes      []string
}

func facilityOrDefault(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "the facility"
	}
	return name
}

// FormatAmount renders minor units with two decimals.
func FormatAmount(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}

func BuildReservationConfirmed(details ReservationDetails) Message {
	facility := facilityOrDefault(details.FacilityName)

	lines := []string{
		fmt.Sprintf("Hi %s, your court reservation is confirmed.", strings.TrimSpace(details.ClientName)),
		"",
		fmt.Sprintf("Facility: %s", facility),
		fmt.Sprintf("Court: %s", details.CourtName),
		fmt.Sprintf("Date: %s", details.Date),
		fmt.Sprintf("Time: %s", details.TimeRange),
		fmt.Sprintf("Amount paid: %s", FormatAmount(details.Amount)),
	}
	if id := strings.TrimSpace(details.TransactionID); id != "" {
		lines = append(lines, fmt.Sprintf("Order: %s", id))
	}

	return Message{
		Subject: fmt.Sprintf("Reservation Confirmed - %s", facility),
		Body:    strings.Join(lines, "\n"),
	}
}

func BuildReservationCancelled(details ReservationDetails) Message {
	facility := facilityOrDefault(details.FacilityName)

	lines := []string{
		fmt.Sprintf("Hi %s, your court reservation has been cancelled.", strings.TrimSpace(details.ClientName)),
		"",
		fmt.Sprintf("Facility: %s", facility),
		fmt.Sprintf("Court: %s", details.CourtName),
		fmt.Sprintf("Date: %s", details.Date),
		fmt.Sprintf("Time: %s", details.TimeRange),
	}
	if reason := strings.TrimSpace(details.Reason); reason != "" {
		lines = append(lines, fmt.Sprintf("Reason: %s", reason))
	}

	return Message{
		Subject: fmt.Sprintf("Reservation Cancelled - %s", facility),
		Body:    strings.Join(lines, "\n"),
	}
}

// BuildChangeNotice renders an admin price or schedule change for staff.
func BuildChangeNotice(kind string, details ChangeDetails) Message {
	facility := facilityOrDefault(details.FacilityName)

	subject := fmt.Sprintf("%s updated by %s", kind, details.AdminName)
	if scope := strings.TrimSpace(details.Scope); scope != "" {
		subject = fmt.Sprintf("%s (%s)", subject, scope)
	}

	lines := []string{
		fmt.Sprintf("%s made the following changes at %s:", details.AdminName, facility),
		"",
	}
	for _, change := range details.Changes {
		lines = append(lines, "- "+change)
	}

	return Message{
		Subject: subject,
		Body:    strings.Join(lines, "\n"),
	}
}
