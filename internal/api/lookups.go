package api

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/armazem/internal/store"
)

// LookupsHandler serves the reference lists used to fill in forms.
type LookupsHandler struct {
	DB *sqlx.DB
}

// ProductTypes handles GET /product-types.
func (h *LookupsHandler) ProductTypes(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, store.LookupProductTypes)
}

// StorageLocations handles GET /storage-locations.
func (h *LookupsHandler) StorageLocations(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, store.LookupStorageLocations)
}

func (h *LookupsHandler) list(w http.ResponseWriter, r *http.Request, table string) {
	names, err := store.ListLookup(r.Context(), h.DB, table)
	if err != nil {
		storeError(w, r, err, "failed to list "+table)
		return
	}
	jsonResponse(w, http.StatusOK, names)
}
