package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/armazem/internal/equipment"
	"github.com/erazemk/armazem/internal/metrics"
	"github.com/erazemk/armazem/internal/store"
)

// MaxBulkUnits caps the number of units one POST /inventory may create.
const MaxBulkUnits = 500

// InventoryHandler handles equipment unit endpoints.
type InventoryHandler struct {
	DB  *sqlx.DB
	Now func() time.Time
}

type createEquipmentRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Local    string `json:"local"`
	Quantity *int   `json:"quantity"`
}

type createEquipmentResponse struct {
	IDs []int64 `json:"ids"`
}

type updateEquipmentRequest struct {
	Local       *string `json:"local"`
	Observation *string `json:"observation"`
}

// List handles GET /inventory.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	units, err := store.ListEquipment(r.Context(), h.DB)
	if err != nil {
		storeError(w, r, err, "failed to list inventory")
		return
	}
	jsonResponse(w, http.StatusOK, units)
}

// Create handles POST /inventory. An optional quantity creates that many
// identical units at once.
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEquipmentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Type = strings.TrimSpace(req.Type)
	if req.Name == "" || req.Type == "" || strings.TrimSpace(req.Local) == "" {
		jsonError(w, http.StatusBadRequest, "name, type and local required")
		return
	}

	count := 1
	if req.Quantity != nil {
		count = *req.Quantity
	}
	if count < 1 || count > MaxBulkUnits {
		jsonError(w, http.StatusBadRequest, "quantity must be between 1 and 500")
		return
	}

	ids, err := store.CreateEquipment(r.Context(), h.DB, req.Name, req.Type, req.Local, count)
	if err != nil {
		storeError(w, r, err, "failed to create equipment")
		return
	}

	slog.Info("equipment created", "user", GetClaims(r.Context()).Username, "name", req.Name, "units", len(ids))
	jsonResponse(w, http.StatusCreated, createEquipmentResponse{IDs: ids})
}

// Update handles PUT /inventory/{id}: exactly one of local or observation
// must be set, moving the unit into a warehouse or out to a site.
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid inventory id")
		return
	}

	var req updateEquipmentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	next, err := equipment.FromRequest(req.Local, req.Observation)
	switch {
	case errors.Is(err, equipment.ErrAmbiguousState):
		jsonError(w, http.StatusBadRequest, "set either local or observation, not both")
		return
	case errors.Is(err, equipment.ErrNoState):
		jsonError(w, http.StatusBadRequest, "local or observation required")
		return
	case err != nil:
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	unit, err := store.TransitionEquipment(r.Context(), h.DB, id, next, h.now())
	if err != nil {
		storeError(w, r, err, "failed to update equipment")
		return
	}

	metrics.RecordTransition(stateLabel(next))
	slog.Info("equipment moved", "user", GetClaims(r.Context()).Username, "unit", id, "state", stateLabel(next))
	jsonResponse(w, http.StatusOK, unit)
}

// Delete handles DELETE /inventory/{id}.
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid inventory id")
		return
	}

	if err := store.DeleteEquipment(r.Context(), h.DB, id); err != nil {
		storeError(w, r, err, "failed to delete equipment")
		return
	}

	slog.Info("equipment deleted", "user", GetClaims(r.Context()).Username, "unit", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *InventoryHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func stateLabel(s equipment.State) string {
	if _, ok := s.(equipment.InUse); ok {
		return "in_use"
	}
	return "in_warehouse"
}
