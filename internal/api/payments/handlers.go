// internal/api/payments/handlers.go
package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/api/apiutil"
	"github.com/codr1/courtside/internal/apperr"
	"github.com/codr1/courtside/internal/models"
	"github.com/codr1/courtside/internal/payments"
	"github.com/codr1/courtside/internal/request"
	booking "github.com/codr1/courtside/internal/reservations"
)

const (
	maxWebhookBody  = 1 << 20
	signatureHeader = "X-Signature"
)

type Deps struct {
	Reconciler *payments.Reconciler
	Engine     *booking.Engine
	// WebhookSecret enables HMAC-SHA256 verification of webhook bodies.
	WebhookSecret string
}

var (
	deps     Deps
	depsOnce sync.Once

	errNotInitialized = errors.New("handlers not initialized")
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(d Deps) {
	if d.Reconciler == nil || d.Engine == nil {
		return
	}
	depsOnce.Do(func() {
		deps = d
	})
}

func loadDeps() (Deps, bool) {
	return deps, deps.Reconciler != nil
}

// webhookPayload is the provider notification body. Only these fields are
// read; the raw body is stored as received.
type webhookPayload struct {
	TransactionID     string      `json:"transactionId"`
	OrderID           string      `json:"orderId"`
	ReservationID     json.Number `json:"reservationId"`
	ExternalReference string      `json:"externalReference"`
	Status            string      `json:"status"`
}

func (p webhookPayload) notification(raw []byte) payments.Notification {
	transactionID := strings.TrimSpace(p.TransactionID)
	if transactionID == "" {
		transactionID = strings.TrimSpace(p.OrderID)
	}
	ref := strings.TrimSpace(p.ReservationID.String())
	if ref == "" {
		ref = strings.TrimSpace(p.ExternalReference)
	}
	return payments.Notification{
		TransactionID:  transactionID,
		ReservationRef: ref,
		ProviderState:  p.Status,
		Payload:        string(raw),
	}
}

type reconcileResponse struct {
	Outcome     payments.Outcome       `json:"outcome"`
	State       payments.ProviderState `json:"state"`
	Reservation models.ReservationView `json:"reservation"`
}

func responseFor(result payments.Result) reconcileResponse {
	return reconcileResponse{
		Outcome:     result.Outcome,
		State:       result.State,
		Reservation: result.Reservation.View(),
	}
}

// POST /pago/webhook
func HandleWebhook(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	d, ok := loadDeps()
	if !ok {
		writeUninitialized(w, r)
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody+1))
	if err != nil {
		apiutil.WriteError(w, r, apperr.Validation("unreadable body"))
		return
	}
	if len(raw) > maxWebhookBody {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusRequestEntityTooLarge, Message: "payload too large"})
		return
	}
	if d.WebhookSecret != "" && !validSignature(d.WebhookSecret, raw, r.Header.Get(signatureHeader)) {
		logger.Warn().Msg("Webhook signature mismatch")
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusUnauthorized, Message: "invalid signature"})
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		apiutil.WriteError(w, r, apperr.Validation("invalid JSON body: %v", err))
		return
	}

	result, err := d.Reconciler.Apply(r.Context(), payload.notification(raw))
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, responseFor(result))
}

func validSignature(secret string, body []byte, signature string) bool {
	got, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(signature), "sha256="))
	if err != nil || len(got) == 0 {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

// Sign computes the signature header value expected for body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

type redirectResponse struct {
	Status  string                    `json:"status"`
	Details models.ReservationDetails `json:"details"`
}

// GET /pago/exito?orderId=
// The success redirect is informational: only the webhook confirms payment.
func HandlePaymentSuccess(w http.ResponseWriter, r *http.Request) {
	d, ok := loadDeps()
	if !ok {
		writeUninitialized(w, r)
		return
	}

	orderID, err := request.OrderID(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	details, err := d.Engine.DetailsByTransaction(r.Context(), orderID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	status := "awaiting_confirmation"
	if details.Reservation.State == models.StatePaid {
		status = "confirmed"
	} else if details.Reservation.State.Terminal() {
		status = string(details.Reservation.State)
	}
	writeJSON(w, r, http.StatusOK, redirectResponse{Status: status, Details: details})
}

// GET /pago/cancelado?orderId=
// The client abandoned checkout, so the pending reservation is released.
func HandlePaymentCancelled(w http.ResponseWriter, r *http.Request) {
	d, ok := loadDeps()
	if !ok {
		writeUninitialized(w, r)
		return
	}

	orderID, err := request.OrderID(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	result, err := d.Reconciler.Apply(r.Context(), payments.Notification{
		TransactionID: orderID,
		ProviderState: string(payments.StateCancelled),
		Payload:       r.URL.RawQuery,
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, responseFor(result))
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := apiutil.WriteJSON(w, status, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}

func writeUninitialized(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Error().Msg("Payment handlers not initialized")
	apiutil.WriteError(w, r, apperr.Internal("payment handlers", errNotInitialized))
}
