package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gymledger/gymledger/internal/points"
	"github.com/gymledger/gymledger/internal/store"
)

// envelope is the response shape for every endpoint: a human-readable
// message plus optional payload.
type envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respond(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Message: message, Data: data})
}

// writeError maps a domain error to its status code. Anything unrecognized
// is a storage/transport failure: logged in full, surfaced as a generic 500.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var insufficient *store.InsufficientPointsError

	switch {
	case errors.Is(err, store.ErrNotFound):
		respond(w, http.StatusNotFound, "not found", nil)
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrAlreadyConverted),
		errors.Is(err, store.ErrVoucherAlreadyUsed),
		errors.Is(err, store.ErrVoucherConflict):
		respond(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, points.ErrDailyCapReached),
		errors.Is(err, points.ErrWeeklyCapReached):
		respond(w, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, store.ErrVoucherInactive),
		errors.Is(err, store.ErrVoucherExpired),
		errors.Is(err, store.ErrMaxRedemptions),
		errors.Is(err, store.ErrNoPoints):
		respond(w, http.StatusBadRequest, err.Error(), nil)
	case errors.As(err, &insufficient):
		respond(w, http.StatusBadRequest, insufficient.Error(), nil)
	default:
		logger.Error("internal error", "error", err)
		respond(w, http.StatusInternalServerError, "internal server error", nil)
	}
}

func badRequest(w http.ResponseWriter, message string) {
	respond(w, http.StatusBadRequest, message, nil)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "invalid JSON body")
		return false
	}
	return true
}

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}
