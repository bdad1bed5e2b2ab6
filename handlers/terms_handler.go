package handlers

import (
	"encoding/json"
	"net/http"

	"tours-server/middleware"
	"tours-server/services"
	"tours-server/utils/errors"
)

type TermsHandler struct {
	termsService *services.TermsService
}

type CheckAcceptanceResponse struct {
	Accepted bool   `json:"accepted"`
	UserID   string `json:"user_id"`
}

func NewTermsHandler(termsService *services.TermsService) *TermsHandler {
	return &TermsHandler{termsService: termsService}
}

// CheckAcceptance reads the caller's acceptance row. Backend failures
// come back as accepted=false, never as an error status.
func (h *TermsHandler) CheckAcceptance(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	accepted := h.termsService.CheckAcceptance(r.Context(), userID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CheckAcceptanceResponse{Accepted: accepted, UserID: userID})
}

// AcceptTerms records acceptance of the current terms version. The
// result is structured; a failed write is still a 200 with
// success=false and the backend's message.
func (h *TermsHandler) AcceptTerms(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	result := h.termsService.AcceptTerms(r.Context(), userID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// Reset restores the initial acceptance state, e.g. on account switch.
func (h *TermsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	state := h.termsService.Reset()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(state)
}

// GetState returns the current snapshot without touching the backend.
func (h *TermsHandler) GetState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.termsService.State())
}
