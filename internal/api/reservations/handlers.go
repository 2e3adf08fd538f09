// internal/api/reservations/handlers.go
package reservations

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/api/apiutil"
	"github.com/codr1/courtside/internal/apperr"
	"github.com/codr1/courtside/internal/clients"
	"github.com/codr1/courtside/internal/models"
	"github.com/codr1/courtside/internal/request"
	booking "github.com/codr1/courtside/internal/reservations"
	"github.com/codr1/courtside/internal/schedule"
)

// Deps are the services the reservation handlers call.
type Deps struct {
	Engine      *booking.Engine
	Store       *schedule.Store
	Directory   *clients.Directory
	CheckoutURL string
}

var (
	deps     Deps
	depsOnce sync.Once

	errNotInitialized = errors.New("handlers not initialized")
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(d Deps) {
	if d.Engine == nil || d.Store == nil || d.Directory == nil {
		return
	}
	depsOnce.Do(func() {
		deps = d
	})
}

func loadDeps() (Deps, bool) {
	return deps, deps.Engine != nil
}

type claimRequest struct {
	CourtID int64             `json:"courtId"`
	Date    string            `json:"date"`
	Start   *models.TimeOfDay `json:"start"`
	End     *models.TimeOfDay `json:"end,omitempty"`
	Client  clients.Input     `json:"client"`
}

type reservationResponse struct {
	Reservation models.ReservationView `json:"reservation"`
}

type paymentResponse struct {
	OrderID       string `json:"orderId"`
	ReservationID int64  `json:"reservationId"`
	Amount        int64  `json:"amount"`
	ProviderState string `json:"providerState"`
	CheckoutURL   string `json:"checkoutUrl,omitempty"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// GET /reserva/info?orderId=<id> or ?id=<reservationId>
func HandleReservationInfo(w http.ResponseWriter, r *http.Request) {
	d, ok := loadDeps()
	if !ok {
		writeUninitialized(w, r)
		return
	}

	lookup, err := request.ReservationLookup(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var details models.ReservationDetails
	if lookup.OrderID != "" {
		details, err = d.Engine.DetailsByTransaction(r.Context(), lookup.OrderID)
	} else {
		details, err = d.Engine.Details(r.Context(), lookup.ReservationID)
	}
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, details)
}

// POST /api/v1/reservations
func HandleReservationCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	d, ok := loadDeps()
	if !ok {
		writeUninitialized(w, r)
		return
	}

	var body claimRequest
	if err := apiutil.DecodeJSON(r, &body); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	claim, err := d.claimFromBody(body)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	contact, err := d.Directory.Normalize(body.Client)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	claim.Contact = &contact

	reservation, err := d.Engine.Claim(r.Context(), claim)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().
		Int64("reservation_id", reservation.ID).
		Int64("client_id", reservation.ClientID).
		Msg("Reservation created via API")
	writeJSON(w, r, http.StatusCreated, reservationResponse{Reservation: reservation.View()})
}

func (d Deps) claimFromBody(body claimRequest) (booking.ClaimRequest, error) {
	if body.CourtID <= 0 {
		return booking.ClaimRequest{}, apiutil.FieldError{Field: "courtId", Reason: "is required"}
	}
	date, err := apiutil.ParseDateField(body.Date, "date")
	if err != nil {
		return booking.ClaimRequest{}, err
	}
	if body.Start == nil {
		return booking.ClaimRequest{}, apiutil.FieldError{Field: "start", Reason: "is required"}
	}
	end := body.Start.Add(d.Store.Hours().Granularity)
	if body.End != nil {
		end = *body.End
	}
	return booking.ClaimRequest{
		CourtID: body.CourtID,
		Date:    date,
		Start:   *body.Start,
		End:     end,
	}, nil
}

// POST /api/v1/reservations/{id}/payment
func HandlePaymentOpen(w http.ResponseWriter, r *http.Request) {
	d, ok := loadDeps()
	if !ok {
		writeUninitialized(w, r)
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	session, err := d.Engine.OpenPayment(r.Context(), id)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, paymentResponse{
		OrderID:       session.TransactionID,
		ReservationID: session.ReservationID,
		Amount:        session.Amount,
		ProviderState: session.ProviderState,
		CheckoutURL:   checkoutLink(d.CheckoutURL, session.TransactionID),
	})
}

// checkoutLink appends the order id to the configured provider checkout URL.
func checkoutLink(base, orderID string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return ""
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return ""
	}
	query := parsed.Query()
	query.Set("orderId", orderID)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// POST /api/v1/reservations/{id}/cancel
func HandleReservationCancel(w http.ResponseWriter, r *http.Request) {
	d, ok := loadDeps()
	if !ok {
		writeUninitialized(w, r)
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var body cancelRequest
	if r.ContentLength != 0 {
		if err := apiutil.DecodeJSON(r, &body); err != nil {
			apiutil.WriteError(w, r, err)
			return
		}
	}
	reason := strings.TrimSpace(body.Reason)
	if reason == "" {
		reason = "cancelled by client"
	}

	reservation, err := d.Engine.Cancel(r.Context(), id, booking.CancelOptions{Reason: reason})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, reservationResponse{Reservation: reservation.View()})
}

type availabilityResponse struct {
	CourtID int64             `json:"courtId"`
	From    string            `json:"from"`
	To      string            `json:"to"`
	Slots   []models.SlotView `json:"slots"`
}

// GET /api/v1/courts/{id}/availability?from=YYYY-MM-DD&to=YYYY-MM-DD
func HandleAvailability(w http.ResponseWriter, r *http.Request) {
	d, ok := loadDeps()
	if !ok {
		writeUninitialized(w, r)
		return
	}

	courtID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	query := r.URL.Query()
	from, err := apiutil.ParseDateField(query.Get("from"), "from")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	to := from
	if raw := query.Get("to"); raw != "" {
		if to, err = apiutil.ParseDateField(raw, "to"); err != nil {
			apiutil.WriteError(w, r, err)
			return
		}
	}

	availability, err := d.Store.ListSlots(r.Context(), courtID, from, to)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	response := availabilityResponse{
		CourtID: courtID,
		From:    models.FormatDate(from),
		To:      models.FormatDate(to),
		Slots:   make([]models.SlotView, 0, len(availability.Slots)),
	}
	for slot := range availability.All() {
		response.Slots = append(response.Slots, slot.View())
	}
	writeJSON(w, r, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := apiutil.WriteJSON(w, status, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}

func writeUninitialized(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Error().Msg("Reservation handlers not initialized")
	apiutil.WriteError(w, r, apperr.Internal("reservation handlers", errNotInitialized))
}
