package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	classesdomain "gym-app-go/internal/domain/classes"
	clientdomain "gym-app-go/internal/domain/client"
	equipmentdomain "gym-app-go/internal/domain/equipment"
	membershipdomain "gym-app-go/internal/domain/membership"
	"gym-app-go/internal/domain/report"
	staffdomain "gym-app-go/internal/domain/staff"
	"gym-app-go/internal/monitoring"
	"gym-app-go/internal/transport/httpserver/middleware"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func redirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func invalidRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, "invalid_request", message)
}

func validationMessage(err error) (string, bool) {
	var membershipErr *membershipdomain.ValidationError
	var classesErr *classesdomain.ValidationError
	var equipmentErr *equipmentdomain.ValidationError
	var staffErr *staffdomain.ValidationError
	var reportErr *report.ValidationError

	switch {
	case errors.As(err, &membershipErr):
		return membershipErr.Message, true
	case errors.As(err, &classesErr):
		return classesErr.Message, true
	case errors.As(err, &equipmentErr):
		return equipmentErr.Message, true
	case errors.As(err, &staffErr):
		return staffErr.Message, true
	case errors.As(err, &reportErr):
		return reportErr.Message, true
	}
	return "", false
}

// writeServiceError maps domain errors onto statuses. Anything unrecognised
// is a 500 that is logged and reported to sentry.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if message, ok := validationMessage(err); ok {
		h.log.BusinessError("http: validation failed", err, "path", r.URL.Path)
		invalidRequest(w, message)
		return
	}

	switch {
	case errors.Is(err, clientdomain.ErrEmailTaken), errors.Is(err, staffdomain.ErrStaffEmailTaken):
		h.log.BusinessError("http: duplicate email", err, "path", r.URL.Path)
		writeError(w, http.StatusBadRequest, "email_taken", err.Error())
	case errors.Is(err, clientdomain.ErrClientNotFound):
		writeError(w, http.StatusUnauthorized, "unauthenticated", "login required")
	case errors.Is(err, classesdomain.ErrClassNotFound),
		errors.Is(err, equipmentdomain.ErrEquipmentNotFound),
		errors.Is(err, equipmentdomain.ErrReservationNotFound),
		errors.Is(err, staffdomain.ErrInstructorNotFound),
		errors.Is(err, membershipdomain.ErrMembershipNotFound),
		errors.Is(err, report.ErrUnknownReport):
		h.log.BusinessError("http: not found", err, "path", r.URL.Path)
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, classesdomain.ErrClassFull):
		h.log.BusinessError("http: class full", err, "path", r.URL.Path)
		writeError(w, http.StatusConflict, "class_full", err.Error())
	default:
		h.internalError(w, r, err)
	}
}

func (h *Handlers) internalError(w http.ResponseWriter, r *http.Request, err error) {
	clientID, _ := middleware.ClientIDFromContext(r.Context())
	h.log.InternalError("http: request failed", err, "method", r.Method, "path", r.URL.Path, "client_id", clientID)
	monitoring.CaptureError(r.Context(), err, map[string]any{
		"method":    r.Method,
		"path":      r.URL.Path,
		"client_id": clientID,
	})
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
