package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/utakatalp/league-simulator/internal/league"
)

// RespondJSON writes a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// RespondError maps engine errors onto status codes.
func RespondError(w http.ResponseWriter, err error) {
	var unknown *league.UnknownClubError
	switch {
	case errors.As(err, &unknown):
		RespondJSON(w, http.StatusNotFound, errorBody("NOT_FOUND", err.Error()))
	case errors.Is(err, league.ErrSeasonFinished), errors.Is(err, league.ErrNoSeason), errors.Is(err, errSeasonRunning):
		RespondJSON(w, http.StatusConflict, errorBody("CONFLICT", err.Error()))
	case errors.Is(err, errBadRequest):
		RespondJSON(w, http.StatusBadRequest, errorBody("VALIDATION_ERROR", err.Error()))
	default:
		RespondJSON(w, http.StatusInternalServerError, errorBody("INTERNAL_ERROR", "internal server error"))
	}
}

func errorBody(code, msg string) map[string]string {
	return map[string]string{"code": code, "message": msg}
}
