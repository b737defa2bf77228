package httptransport

import (
	"net/http"

	"duel-arena/internal/users"
)

type UserHandlers struct {
	dir *users.Directory
}

func NewUserHandlers(dir *users.Directory) *UserHandlers {
	return &UserHandlers{dir: dir}
}

func (h *UserHandlers) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := decodeJSON(r, &req); err != nil {
			writeRoomError(w, err)
			return
		}
		u, err := h.dir.Register(req.Name, req.AvatarRef)
		if err != nil {
			writeRoomError(w, err)
			return
		}
		writeJSON(w, RegisterResponse{UserID: u.ID, Name: u.Name})
	}
}
