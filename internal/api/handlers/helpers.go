package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/TWRT/project-planner/internal/service"
)

// currentUserID reads the authenticated user id injected by the fronting
// auth layer. Empty means the caller is anonymous.
func currentUserID(r *http.Request) string {
	return r.Header.Get("X-User-Id")
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeError maps service sentinel errors onto HTTP statuses. Anything
// unrecognized is a 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalid):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		writeErrorMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeErrorMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrGeneratorUnavailable):
		writeErrorMessage(w, http.StatusBadGateway, "We couldn't generate tasks automatically. Please try again later.")
	default:
		writeErrorMessage(w, http.StatusInternalServerError, err.Error())
	}
}
