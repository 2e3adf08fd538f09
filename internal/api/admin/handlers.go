// internal/api/admin/handlers.go
package admin

import (
	"errors"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/api/apiutil"
	"github.com/codr1/courtside/internal/apperr"
	"github.com/codr1/courtside/internal/pricing"
	"github.com/codr1/courtside/internal/schedule"
)

// AdminHeader names the operator making a change. Admin authentication is
// handled in front of this service.
const AdminHeader = "X-Admin-Name"

var (
	catalog  *pricing.Catalog
	store    *schedule.Store
	initOnce sync.Once

	errNotInitialized = errors.New("handlers not initialized")
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(c *pricing.Catalog, s *schedule.Store) {
	if c == nil || s == nil {
		return
	}
	initOnce.Do(func() {
		catalog = c
		store = s
	})
}

func adminName(r *http.Request) (string, error) {
	return apiutil.RequireText(r.Header.Get(AdminHeader), AdminHeader)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := apiutil.WriteJSON(w, status, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}

func ready(w http.ResponseWriter, r *http.Request) bool {
	if catalog == nil || store == nil {
		log.Ctx(r.Context()).Error().Msg("Admin handlers not initialized")
		apiutil.WriteError(w, r, apperr.Internal("admin handlers", errNotInitialized))
		return false
	}
	return true
}
