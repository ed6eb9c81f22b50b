package http

import (
	"net/http"
	"strings"

	"farmshare-backend/internal/domain"
	"farmshare-backend/internal/service"

	"github.com/gorilla/mux"
)

type EquipmentHandler struct {
	equipmentSvc service.EquipmentService
	rentalSvc    service.RentalService
}

func NewEquipmentHandler(equipmentSvc service.EquipmentService, rentalSvc service.RentalService) *EquipmentHandler {
	return &EquipmentHandler{equipmentSvc: equipmentSvc, rentalSvc: rentalSvc}
}

// List returns the catalog, filtered by the optional q search term
func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		items []domain.Equipment
		err   error
	)
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		items, err = h.equipmentSvc.SearchEquipment(r.Context(), q)
	} else {
		items, err = h.equipmentSvc.ListEquipment(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"equipment": nonNil(items)})
}

func (h *EquipmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())
	items, err := h.equipmentSvc.ListMyEquipment(r.Context(), session)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"equipment": nonNil(items)})
}

func (h *EquipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.equipmentSvc.GetEquipment(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.EquipmentInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}
	session, _ := SessionFromContext(r.Context())
	item, err := h.equipmentSvc.CreateEquipment(r.Context(), session, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input domain.EquipmentInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}
	session, _ := SessionFromContext(r.Context())
	item, err := h.equipmentSvc.UpdateEquipment(r.Context(), session, mux.Vars(r)["id"], input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())
	if err := h.equipmentSvc.DeleteEquipment(r.Context(), session, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createRentalBody struct {
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	InsuranceAccepted bool   `json:"insurance_accepted"`
}

// RequestRental submits a rental request for the equipment in the path
func (h *EquipmentHandler) RequestRental(w http.ResponseWriter, r *http.Request) {
	var body createRentalBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	session, _ := SessionFromContext(r.Context())
	confirmation, err := h.rentalSvc.CreateRentalRequest(r.Context(), session, mux.Vars(r)["id"],
		body.StartDate, body.EndDate, body.InsuranceAccepted)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, confirmation)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
