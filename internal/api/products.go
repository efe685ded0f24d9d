package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/armazem/internal/store"
)

// ProductsHandler handles product endpoints.
type ProductsHandler struct {
	DB *sqlx.DB
}

type createProductRequest struct {
	Name            string  `json:"name"`
	Quantity        *int    `json:"quantity"`
	StorageLocation *string `json:"storage_location"`
	Type            *string `json:"type"`
}

type updateProductRequest struct {
	Quantity *int `json:"quantity"`
}

// optional maps a blank string to nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// List handles GET /products.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := store.ListProducts(r.Context(), h.DB)
	if err != nil {
		storeError(w, r, err, "failed to list products")
		return
	}
	jsonResponse(w, http.StatusOK, products)
}

// Create handles POST /products.
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Quantity == nil {
		jsonError(w, http.StatusBadRequest, "name and quantity required")
		return
	}

	product, err := store.CreateProduct(r.Context(), h.DB, req.Name, *req.Quantity, optional(req.Type), optional(req.StorageLocation))
	if err != nil {
		storeError(w, r, err, "failed to create product")
		return
	}

	slog.Info("product created", "user", GetClaims(r.Context()).Username, "product", product.Name, "quantity", product.Quantity)
	jsonResponse(w, http.StatusCreated, product)
}

// Update handles PUT /products/{id}. The quantity is set, not added.
func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req updateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity == nil {
		jsonError(w, http.StatusBadRequest, "quantity required")
		return
	}

	if err := store.SetProductQuantity(r.Context(), h.DB, id, *req.Quantity); err != nil {
		storeError(w, r, err, "failed to update product")
		return
	}

	product, err := store.GetProduct(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, r, err, "failed to get product")
		return
	}

	slog.Info("product quantity set", "user", GetClaims(r.Context()).Username, "product", id, "quantity", *req.Quantity)
	jsonResponse(w, http.StatusOK, product)
}

// Delete handles DELETE /products/{id}.
func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := store.DeleteProduct(r.Context(), h.DB, id); err != nil {
		storeError(w, r, err, "failed to delete product")
		return
	}

	slog.Info("product deleted", "user", GetClaims(r.Context()).Username, "product", id)
	w.WriteHeader(http.StatusNoContent)
}
