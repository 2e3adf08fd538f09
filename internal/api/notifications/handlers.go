// internal/api/notifications/handlers.go
package notifications

import (
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/api/apiutil"
	"github.com/codr1/courtside/internal/notify"
)

var (
	notifier     *notify.Notifier
	notifierOnce sync.Once
)

func InitHandlers(n *notify.Notifier) {
	if n == nil {
		return
	}
	notifierOnce.Do(func() {
		notifier = n
	})
}

func loadNotifier() *notify.Notifier {
	return notifier
}

type priceChangeRequest struct {
	AdminName string   `json:"adminName"`
	CourtType string   `json:"courtType"`
	Changes   []string `json:"changes"`
}

type scheduleChangeRequest struct {
	AdminName string   `json:"adminName"`
	Changes   []string `json:"changes"`
}

type acceptedResponse struct {
	Status string `json:"status"`
	Event  string `json:"event"`
}

// POST /notify/price-change
func HandlePriceChange(w http.ResponseWriter, r *http.Request) {
	var body priceChangeRequest
	if err := apiutil.DecodeJSON(r, &body); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	admin, changes, err := validate(body.AdminName, body.Changes)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	dispatch(w, r, notify.PriceChanged{
		AdminName: admin,
		CourtType: strings.TrimSpace(body.CourtType),
		Changes:   changes,
	})
}

// POST /notify/schedule-change
func HandleScheduleChange(w http.ResponseWriter, r *http.Request) {
	var body scheduleChangeRequest
	if err := apiutil.DecodeJSON(r, &body); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	admin, changes, err := validate(body.AdminName, body.Changes)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	dispatch(w, r, notify.ScheduleChanged{AdminName: admin, Changes: changes})
}

func validate(adminName string, changes []string) (string, []string, error) {
	admin, err := apiutil.RequireText(adminName, "adminName")
	if err != nil {
		return "", nil, err
	}
	cleaned := make([]string, 0, len(changes))
	for _, change := range changes {
		if change = strings.TrimSpace(change); change != "" {
			cleaned = append(cleaned, change)
		}
	}
	if len(cleaned) == 0 {
		return "", nil, apiutil.FieldError{Field: "changes", Reason: "must list at least one change"}
	}
	return admin, cleaned, nil
}

// dispatch hands the event to the notifier. Delivery failures are logged by
// the notifier and never reach the caller.
func dispatch(w http.ResponseWriter, r *http.Request, event notify.Event) {
	logger := log.Ctx(r.Context())

	loadNotifier().Notify(r.Context(), event)
	logger.Info().Str("event", event.Kind()).Msg("Change notification dispatched")

	if err := apiutil.WriteJSON(w, http.StatusOK, acceptedResponse{Status: "accepted", Event: event.Kind()}); err != nil {
		logger.Error().Err(err).Msg("Failed to write response")
	}
}
