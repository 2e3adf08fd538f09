// internal/api/courts/handlers.go
package courts

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/api/admin"
	"github.com/codr1/courtside/internal/api/apiutil"
	"github.com/codr1/courtside/internal/apperr"
	dbgen "github.com/codr1/courtside/internal/db/generated"
	"github.com/codr1/courtside/internal/models"
)

var (
	queries     *dbgen.Queries
	queriesOnce sync.Once

	errNotInitialized = errors.New("handlers not initialized")
)

const courtsQueryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(q *dbgen.Queries) {
	if q == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = q
	})
}

type courtsResponse struct {
	Courts []models.Court `json:"courts"`
}

type createCourtRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type courtActiveRequest struct {
	Active *bool `json:"active"`
}

// GET /api/v1/courts?type=<courtType>&all=true
func HandleCourtsList(w http.ResponseWriter, r *http.Request) {
	q := loadQueries(w, r)
	if q == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtsQueryTimeout)
	defer cancel()

	rows, err := q.ListCourts(ctx)
	if err != nil {
		apiutil.WriteError(w, r, apperr.Internal("list courts", err))
		return
	}

	query := r.URL.Query()
	courtType := strings.TrimSpace(query.Get("type"))
	includeInactive := query.Get("all") == "true"

	courts := make([]models.Court, 0, len(rows))
	for _, row := range rows {
		court := models.CourtFromDB(row)
		if !court.Active && !includeInactive {
			continue
		}
		if courtType != "" && !strings.EqualFold(court.Type, courtType) {
			continue
		}
		courts = append(courts, court)
	}

	writeJSON(w, r, http.StatusOK, courtsResponse{Courts: courts})
}

// POST /api/v1/admin/courts
func HandleCourtCreate(w http.ResponseWriter, r *http.Request) {
	q := loadQueries(w, r)
	if q == nil {
		return
	}

	actor, err := apiutil.RequireText(r.Header.Get(admin.AdminHeader), admin.AdminHeader)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var req createCourtRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	name, err := apiutil.RequireText(req.Name, "name")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	courtType, err := apiutil.RequireText(req.Type, "type")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtsQueryTimeout)
	defer cancel()

	row, err := q.CreateCourt(ctx, dbgen.CreateCourtParams{
		Name:      name,
		CourtType: strings.ToLower(courtType),
		Active:    true,
	})
	if err != nil {
		apiutil.WriteError(w, r, apperr.Internal("create court", err))
		return
	}

	log.Ctx(r.Context()).Info().
		Int64("court_id", row.ID).
		Str("court_type", row.CourtType).
		Str("admin", actor).
		Msg("Court created")

	writeJSON(w, r, http.StatusCreated, models.CourtFromDB(row))
}

// PUT /api/v1/admin/courts/{id}/active
func HandleCourtActive(w http.ResponseWriter, r *http.Request) {
	q := loadQueries(w, r)
	if q == nil {
		return
	}

	actor, err := apiutil.RequireText(r.Header.Get(admin.AdminHeader), admin.AdminHeader)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	courtID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var req courtActiveRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if req.Active == nil {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "active", Reason: "is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtsQueryTimeout)
	defer cancel()

	affected, err := q.SetCourtActive(ctx, dbgen.SetCourtActiveParams{Active: *req.Active, ID: courtID})
	if err != nil {
		apiutil.WriteError(w, r, apperr.Internal("set court active", err))
		return
	}
	if affected == 0 {
		apiutil.WriteError(w, r, apperr.NotFound("court", courtID))
		return
	}

	row, err := q.GetCourt(ctx, courtID)
	if err != nil {
		apiutil.WriteError(w, r, apperr.Internal("load court", err))
		return
	}

	log.Ctx(r.Context()).Info().
		Int64("court_id", courtID).
		Bool("active", *req.Active).
		Str("admin", actor).
		Msg("Court availability changed")

	writeJSON(w, r, http.StatusOK, models.CourtFromDB(row))
}

func loadQueries(w http.ResponseWriter, r *http.Request) *dbgen.Queries {
	if queries == nil {
		log.Ctx(r.Context()).Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, r, apperr.Internal("courts handlers", errNotInitialized))
		return nil
	}
	return queries
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := apiutil.WriteJSON(w, status, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}
