package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"duel-arena/internal/arena"
)

func WriteHTTPError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": code})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return arena.ErrInvalidInput
	}
	return nil
}

// writeRoomError maps the arena sentinels onto HTTP statuses; the body
// carries the machine-checkable code.
func writeRoomError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, arena.ErrRoomNotFound),
		errors.Is(err, arena.ErrProposalNotFound):
		WriteHTTPError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, arena.ErrNotTeamMember),
		errors.Is(err, arena.ErrNotAuthorized):
		WriteHTTPError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, arena.ErrInvalidTeam),
		errors.Is(err, arena.ErrAlreadyMember),
		errors.Is(err, arena.ErrNotMember),
		errors.Is(err, arena.ErrProblemNotFound),
		errors.Is(err, arena.ErrDuplicateProposal),
		errors.Is(err, arena.ErrInvalidInput):
		WriteHTTPError(w, http.StatusBadRequest, err.Error())
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
