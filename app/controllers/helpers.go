package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"bulletin/app/store"
)

// Helper functions for consistent response handling

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, err error) {
	sendJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor maps the store error taxonomy onto HTTP statuses: invalid input,
// missing record, failing backend, everything else.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrBackend):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
