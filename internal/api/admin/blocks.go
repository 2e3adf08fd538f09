package admin

import (
	"net/http"

	"github.com/codr1/courtside/internal/api/apiutil"
	"github.com/codr1/courtside/internal/models"
	"github.com/codr1/courtside/internal/schedule"
)

type blocksResponse struct {
	Blocks []models.BlockView `json:"blocks"`
}

// GET /api/v1/admin/blocks
func HandleBlocksList(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}

	blocks, err := store.ListBlocks(r.Context())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	views := make([]models.BlockView, 0, len(blocks))
	for _, block := range blocks {
		views = append(views, block.View())
	}
	writeJSON(w, r, http.StatusOK, blocksResponse{Blocks: views})
}

// POST /api/v1/admin/blocks
func HandleBlockCreate(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	admin, err := adminName(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var input schedule.BlockInput
	if err := apiutil.DecodeJSON(r, &input); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	block, err := store.SetBlock(r.Context(), admin, input)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, block.View())
}

// DELETE /api/v1/admin/blocks/{id}
func HandleBlockClear(w http.ResponseWriter, r *http.Request) {
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

	block, err := store.ClearBlock(r.Context(), admin, id)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, block.View())
}
