package http

import (
	"net/http"

	"farmshare-backend/internal/domain"
	"farmshare-backend/internal/service"

	"github.com/gorilla/mux"
)

type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

// List returns the caller's requests on the side named by ?role=
func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())
	rentals, err := h.rentalSvc.ListRentalRequests(r.Context(), session.UserID, r.URL.Query().Get("role"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rentals": nonNil(rentals)})
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())
	rt, err := h.rentalSvc.GetRentalRequest(r.Context(), session, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

type decisionBody struct {
	Status domain.RentalStatus `json:"status"`
}

// Decide approves or rejects a pending request owned by the caller
func (h *RentalHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var body decisionBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	session, _ := SessionFromContext(r.Context())
	rt, err := h.rentalSvc.DecideRentalRequest(r.Context(), session, mux.Vars(r)["id"], body.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}
