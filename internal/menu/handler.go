package menu

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"resto-service/pkg/jwt"
)

// Handler exposes menu HTTP endpoints.
type Handler struct{ svc *Service }

// NewHandler wires a handler to the menu service.
func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// Routes returns a chi.Router for the /menu mount point. Reads are open to
// any authenticated staff; mutations are manager/admin only.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(jwt.RequireAuth)

	r.Get("/categories", h.ListCategories)
	r.Get("/products", h.ListProducts)

	r.Group(func(r chi.Router) {
		r.Use(jwt.RequireRole(jwt.RoleAdmin, jwt.RoleManager))
		r.Post("/categories", h.CreateCategory)
		r.Delete("/categories/{id}", h.DeleteCategory)
		r.Post("/products", h.CreateProduct)
		r.Put("/products/{id}", h.UpdateProduct)
		r.Delete("/products/{id}", h.DeleteProduct)
	})

	return r
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	c, err := h.svc.CreateCategory(r.Context(), claims.RestaurantID, req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	list, err := h.svc.ListCategories(r.Context(), claims.RestaurantID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	if err := h.svc.DeleteCategory(r.Context(), claims.RestaurantID, chi.URLParam(r, "id")); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	p, err := h.svc.CreateProduct(r.Context(), claims.RestaurantID, req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	list, err := h.svc.ListProducts(r.Context(), claims.RestaurantID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	p, err := h.svc.UpdateProduct(r.Context(), claims.RestaurantID, chi.URLParam(r, "id"), req)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	if err := h.svc.DeleteProduct(r.Context(), claims.RestaurantID, chi.URLParam(r, "id")); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
