package orders

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"resto-service/pkg/jwt"
)

// Handler exposes order HTTP endpoints.
type Handler struct{ svc *Service }

// NewHandler wires a handler to the order service.
func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// Routes returns a chi.Router for the /orders mount point.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(jwt.RequireAuth)

	r.Get("/my-deliveries", h.MyDeliveries) // must come before /{id}
	r.Get("/active", h.Active)
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Patch("/{id}/status", h.UpdateStatus)

	r.Group(func(r chi.Router) {
		r.Use(jwt.RequireRole(jwt.RoleAdmin, jwt.RoleManager))
		r.Patch("/{id}/assign", h.Assign)
	})

	return r
}

// StatsRoutes returns a chi.Router for the /dashboard mount point.
func (h *Handler) StatsRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(jwt.RequireAuth)
	r.Get("/stats", h.Stats)
	return r
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	o, err := h.svc.Create(r.Context(), claims.RestaurantID, req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	o, err := h.svc.GetByID(r.Context(), claims.RestaurantID, chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	list, err := h.svc.List(r.Context(), claims.RestaurantID, r.URL.Query().Get("status"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) Active(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	list, err := h.svc.Active(r.Context(), claims.RestaurantID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) MyDeliveries(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	if claims.Role != jwt.RoleDriver {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "drivers only"})
		return
	}
	list, err := h.svc.MyDeliveries(r.Context(), claims.UserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	o, err := h.svc.UpdateStatus(r.Context(), claims.RestaurantID, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	o, err := h.svc.AssignDriver(r.Context(), claims.RestaurantID, chi.URLParam(r, "id"), req.DriverID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	st, err := h.svc.Stats(r.Context(), claims.RestaurantID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
