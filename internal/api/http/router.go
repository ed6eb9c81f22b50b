package http

import (
	"net/http"

	"farmshare-backend/internal/service"

	"github.com/gorilla/mux"
)

// Services holds the service dependencies of the HTTP API
type Services struct {
	User      service.UserService
	Equipment service.EquipmentService
	Rental    service.RentalService
	Image     service.ImageStorageService
}

// NewRouter registers every route of the API. limiter may be nil to disable
// rate limiting.
func NewRouter(svcs Services, limiter *RateLimiter) *mux.Router {
	router := mux.NewRouter()
	router.Use(RecoveryMiddleware, LoggingMiddleware)
	if limiter != nil {
		router.Use(limiter.Middleware)
	}
	router.Use(SessionMiddleware(svcs.User))

	router.HandleFunc("/healthz", health).Methods(http.MethodGet)

	equipment := NewEquipmentHandler(svcs.Equipment, svcs.Rental)
	rentals := NewRentalHandler(svcs.Rental)
	images := NewImageHandler(svcs.Image)

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/equipment", equipment.List).Methods(http.MethodGet)
	api.HandleFunc("/equipment", equipment.Create).Methods(http.MethodPost)
	// Registered ahead of /equipment/{id} so "mine" is not taken as an id
	api.HandleFunc("/equipment/mine", equipment.ListMine).Methods(http.MethodGet)
	api.HandleFunc("/equipment/{id}", equipment.Get).Methods(http.MethodGet)
	api.HandleFunc("/equipment/{id}", equipment.Update).Methods(http.MethodPut)
	api.HandleFunc("/equipment/{id}", equipment.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/equipment/{id}/rentals", equipment.RequestRental).Methods(http.MethodPost)

	api.HandleFunc("/rentals", rentals.List).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id}", rentals.Get).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id}/decision", rentals.Decide).Methods(http.MethodPost)

	api.HandleFunc("/images", images.Upload).Methods(http.MethodPost)
	api.HandleFunc("/images/{key}", images.Download).Methods(http.MethodGet)

	return router
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
