// internal/inventory/handler.go
package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the inventory API on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/vehicles", h.handleList)
	r.Post("/vehicles", h.handleAdd)
	r.Get("/vehicles/{id}", h.handleGet)
	r.Get("/vehicles/{id}/actions", h.handleActions)
	r.Post("/vehicles/{id}/reserve", h.transitionHandler(h.service.Reserve))
	r.Post("/vehicles/{id}/negotiate", h.transitionHandler(h.service.Negotiate))
	r.Post("/vehicles/{id}/release", h.transitionHandler(h.service.Release))
	r.Post("/vehicles/{id}/finalize", h.handleFinalize)
	r.Get("/vehicles/display", h.handleDisplay)
	r.Get("/legacy/vehicles", h.handleLegacyList)
	r.Get("/stats", h.handleStats)
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Make  string `json:"make"`
		Model string `json:"model"`
		Year  int    `json:"year"`
		Value int64  `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.service.AddVehicle(r.Context(), req.Make, req.Model, req.Year, req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	recs, err := h.service.ListVehicles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *Handler) handleDisplay(w http.ResponseWriter, r *http.Request) {
	recs, err := h.service.ListForDisplay(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid vehicle id", http.StatusBadRequest)
		return
	}
	rec, err := h.service.GetVehicle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleActions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid vehicle id", http.StatusBadRequest)
		return
	}
	vendorID, err := uuid.Parse(r.URL.Query().Get("vendor_id"))
	if err != nil {
		http.Error(w, "invalid vendor id", http.StatusBadRequest)
		return
	}
	actions, err := h.service.ActionsFor(r.Context(), id, vendorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]Action{"actions": actions})
}

func (h *Handler) handleLegacyList(w http.ResponseWriter, r *http.Request) {
	var status LegacyStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		switch LegacyStatus(raw) {
		case LegacyAvailable, LegacyReserved, LegacySold:
			status = LegacyStatus(raw)
		default:
			http.Error(w, "unknown legacy status", http.StatusBadRequest)
			return
		}
	}
	views, err := h.service.LegacyList(r.Context(), status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// transitionHandler adapts the two-id transition operations to HTTP: vehicle
// id from the path, vendor id from the body.
func (h *Handler) transitionHandler(op func(ctx context.Context, vehicleID, vendorID uuid.UUID) (*Record, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid vehicle id", http.StatusBadRequest)
			return
		}
		var req struct {
			VendorID uuid.UUID `json:"vendor_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rec, err := op(r.Context(), id, req.VendorID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid vehicle id", http.StatusBadRequest)
		return
	}
	var req struct {
		VendorID  uuid.UUID `json:"vendor_id"`
		SaleValue int64     `json:"sale_value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rec, err := h.service.FinalizeSale(r.Context(), id, req.VendorID, req.SaleValue)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	var te *StateTransitionError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Error()})
	case errors.As(err, &te):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":  te.Error(),
			"reason": te.Reason,
		})
	case errors.Is(err, ErrConcurrencyConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrVehicleNotFound), errors.Is(err, ErrVendorNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
