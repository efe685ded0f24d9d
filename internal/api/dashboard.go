package api

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/armazem/internal/dashboard"
	"github.com/erazemk/armazem/internal/store"
)

// DashboardHandler serves the aggregated dashboard views.
type DashboardHandler struct {
	DB  *sqlx.DB
	Now func() time.Time
}

// Get handles GET /dashboard.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := store.ListProducts(ctx, h.DB)
	if err != nil {
		storeError(w, r, err, "failed to load dashboard")
		return
	}
	units, err := store.ListEquipment(ctx, h.DB)
	if err != nil {
		storeError(w, r, err, "failed to load dashboard")
		return
	}
	docs, err := store.CountDocuments(ctx, h.DB)
	if err != nil {
		storeError(w, r, err, "failed to load dashboard")
		return
	}
	locations, err := store.ListLookup(ctx, h.DB, store.LookupStorageLocations)
	if err != nil {
		storeError(w, r, err, "failed to load dashboard")
		return
	}

	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}

	jsonResponse(w, http.StatusOK, dashboard.Build(dashboard.Snapshot{
		Products:         products,
		Equipment:        units,
		Documents:        docs,
		StorageLocations: len(locations),
	}, now))
}
