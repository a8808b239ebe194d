package handler

import (
	"encoding/json"
	goerrors "errors"
	"net/http"

	"hms-be/pkg/errors"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondAppError maps a service error onto the HTTP response, falling back
// to a generic 500 for errors that are not AppErrors
func respondAppError(w http.ResponseWriter, err error) {
	var appErr *errors.AppError
	if goerrors.As(err, &appErr) {
		respondJSON(w, appErr.StatusCode, map[string]interface{}{
			"error": map[string]interface{}{
				"type":    appErr.Type,
				"message": appErr.Message,
				"details": appErr.Details,
			},
		})
		return
	}
	respondError(w, http.StatusInternalServerError, "Internal server error")
}
