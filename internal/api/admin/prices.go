package admin

import (
	"net/http"

	"github.com/codr1/courtside/internal/api/apiutil"
	"github.com/codr1/courtside/internal/models"
	"github.com/codr1/courtside/internal/pricing"
)

type pricesResponse struct {
	Rules []models.PriceRule `json:"rules"`
}

type replacePricesRequest struct {
	Rules []pricing.RuleInput `json:"rules"`
}

type changesResponse struct {
	Changes []string `json:"changes"`
}

// GET /api/v1/admin/prices?courtType=
func HandlePricesList(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}

	rules, err := catalog.ListActive(r.Context(), r.URL.Query().Get("courtType"))
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if rules == nil {
		rules = []models.PriceRule{}
	}
	writeJSON(w, r, http.StatusOK, pricesResponse{Rules: rules})
}

// PUT /api/v1/admin/prices
func HandlePriceUpsert(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	admin, err := adminName(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var input pricing.RuleInput
	if err := apiutil.DecodeJSON(r, &input); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	change, err := catalog.UpsertRule(r.Context(), admin, input)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if change.Changes == nil {
		change.Changes = []string{}
	}
	writeJSON(w, r, http.StatusOK, change)
}

// PUT /api/v1/admin/prices/{courtType}
func HandlePricesReplace(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	admin, err := adminName(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var body replacePricesRequest
	if err := apiutil.DecodeJSON(r, &body); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	changes, err := catalog.ReplaceRules(r.Context(), admin, r.PathValue("courtType"), body.Rules)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if changes == nil {
		changes = []string{}
	}
	writeJSON(w, r, http.StatusOK, changesResponse{Changes: changes})
}

// DELETE /api/v1/admin/prices/{id}
func HandlePriceDeactivate(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	admin, err := adminName(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	rule, err := catalog.DeactivateRule(r.Context(), admin, id)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rule)
}
