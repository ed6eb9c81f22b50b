package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"farmshare-backend/internal/domain"
	"farmshare-backend/internal/logger"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	codeUnauthenticated = "UNAUTHENTICATED"
	codeRateLimited     = "RATE_LIMITED"
	codeInternal        = "INTERNAL"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("Failed to write response body", "error", err)
	}
}

// statusFor maps a domain error kind onto an HTTP status code.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidRange, domain.KindOutOfWindow, domain.KindMissingDates,
		domain.KindInsuranceRequired, domain.KindInvalidStatus, domain.KindInvalidRole,
		domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindAlreadyDecided, domain.KindPendingRequests:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as an ErrorResponse. Messages of errors outside the
// domain are not exposed to the client.
func writeError(w http.ResponseWriter, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		logger.Error("Unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Code: codeInternal, Message: "internal server error"})
		return
	}
	status := statusFor(de.Kind)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed on stored state", "error", err)
	}
	writeJSON(w, status, ErrorResponse{Code: string(de.Kind), Message: de.Message})
}

// decodeJSON reads a request body into dst. A malformed body is an
// InvalidInput error.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.NewError(domain.KindInvalidInput, "malformed request body: %v", err)
	}
	return nil
}
