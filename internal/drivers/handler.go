package drivers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"resto-service/pkg/jwt"
)

// Handler exposes the driver registry HTTP endpoints.
type Handler struct{ svc *Service }

// NewHandler wires a handler to the driver service.
func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// Routes returns a chi.Router for the /drivers mount point. The snapshot is
// observer-only; drivers themselves report through the tracking channel.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(jwt.RequireRole(jwt.RoleAdmin, jwt.RoleManager))
	r.Get("/", h.List)
	r.Get("/nearby", h.Nearby)
	return r
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	list, err := h.svc.List(r.Context(), claims.RestaurantID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) Nearby(w http.ResponseWriter, r *http.Request) {
	lat, _ := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, _ := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	radius := 5.0
	if v := r.URL.Query().Get("radius"); v != "" {
		radius, _ = strconv.ParseFloat(v, 64)
	}
	ids, err := h.svc.Nearby(r.Context(), lat, lng, radius, 10)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"drivers": ids})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
