package httptransport

import (
	"context"
	"net/http"

	"duel-arena/internal/arena"
	"duel-arena/internal/ws"

	"github.com/go-chi/chi/v5"
)

type RoomHandlers struct {
	store *arena.Store
	hub   *ws.Hub
	judge *arena.Judge

	// judgeCtx outlives requests; it only ends at process shutdown.
	judgeCtx       context.Context
	baseURL        string
	defaultProblem string
}

func NewRoomHandlers(store *arena.Store, hub *ws.Hub, judge *arena.Judge, judgeCtx context.Context, baseURL, defaultProblem string) *RoomHandlers {
	if defaultProblem == "" {
		defaultProblem = "P1000"
	}
	return &RoomHandlers{
		store:          store,
		hub:            hub,
		judge:          judge,
		judgeCtx:       judgeCtx,
		baseURL:        baseURL,
		defaultProblem: defaultProblem,
	}
}

func (h *RoomHandlers) roomURL(id string) string {
	return h.baseURL + "/room/" + id
}

func (h *RoomHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		rooms := h.store.List()
		items := make([]RoomItem, 0, len(rooms))
		for _, room := range rooms {
			snap := room.Snapshot()
			creator := room.Creator()
			if creator == "" {
				creator = "unknown"
			}
			items = append(items, RoomItem{
				ID:       room.ID(),
				Code:     room.Code(),
				Creator:  creator,
				Team1:    len(snap.Teams[arena.Team1]),
				Team2:    len(snap.Teams[arena.Team2]),
				Finished: snap.Finished,
				IsMember: room.IsMember(user.Name),
				URL:      h.roomURL(room.ID()),
			})
		}
		writeJSON(w, RoomsResponse{Items: items})
	}
}

func (h *RoomHandlers) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		var req CreateRoomRequest
		if err := decodeJSON(r, &req); err != nil {
			writeRoomError(w, err)
			return
		}
		problems := req.Problems
		if len(problems) == 0 {
			problems = []string{h.defaultProblem}
		}
		room, err := h.store.Create(problems, user.Name)
		if err != nil {
			writeRoomError(w, err)
			return
		}
		go h.judge.Run(h.judgeCtx, room)
		writeJSON(w, CreateRoomResponse{RoomID: room.ID(), Code: room.Code(), URL: h.roomURL(room.ID())})
	}
}

func (h *RoomHandlers) Status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, err := h.store.Get(chi.URLParam(r, "room_id"))
		if err != nil {
			writeRoomError(w, err)
			return
		}
		writeJSON(w, room.Snapshot())
	}
}

func (h *RoomHandlers) Join() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		room, err := h.store.Get(chi.URLParam(r, "room_id"))
		if err != nil {
			writeRoomError(w, err)
			return
		}
		var req JoinRequest
		if err := decodeJSON(r, &req); err != nil {
			writeRoomError(w, err)
			return
		}
		if err := room.Join(req.Team, user.Name); err != nil {
			writeRoomError(w, err)
			return
		}
		h.hub.RoomUpdate(room.ID(), room.Snapshot())
		writeJSON(w, AckResponse{OK: true})
	}
}

func (h *RoomHandlers) Leave() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		room, err := h.store.Get(chi.URLParam(r, "room_id"))
		if err != nil {
			writeRoomError(w, err)
			return
		}
		if err := room.Leave(user.Name); err != nil {
			writeRoomError(w, err)
			return
		}
		h.hub.RoomUpdate(room.ID(), room.Snapshot())
		writeJSON(w, AckResponse{OK: true})
	}
}

func (h *RoomHandlers) ProposeAddition() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		room, err := h.store.Get(chi.URLParam(r, "room_id"))
		if err != nil {
			writeRoomError(w, err)
			return
		}
		var req ProposeRequest
		if err := decodeJSON(r, &req); err != nil {
			writeRoomError(w, err)
			return
		}
		p, err := room.ProposeAddition(req.Team, user.Name, req.ProblemID)
		if err != nil {
			writeRoomError(w, err)
			return
		}
		h.hub.ProposalRequest(room.ID(), ws.ProposalNotice{Proposer: p.Proposer, ProblemID: p.ProblemID, Timestamp: p.Timestamp})
		h.hub.RoomUpdate(room.ID(), room.Snapshot())
		writeJSON(w, AckResponse{OK: true})
	}
}

func (h *RoomHandlers) ProposeDeletion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		room, err := h.store.Get(chi.URLParam(r, "room_id"))
		if err != nil {
			writeRoomError(w, err)
			return
		}
		var req ProposeRequest
		if err := decodeJSON(r, &req); err != nil {
			writeRoomError(w, err)
			return
		}
		p, err := room.ProposeDeletion(req.Team, user.Name, req.ProblemID)
		if err != nil {
			writeRoomError(w, err)
			return
		}
		h.hub.DeletionRequest(room.ID(), ws.ProposalNotice{Proposer: p.Proposer, ProblemID: p.ProblemID, Timestamp: p.Timestamp})
		h.hub.RoomUpdate(room.ID(), room.Snapshot())
		writeJSON(w, AckResponse{OK: true})
	}
}

func (h *RoomHandlers) ResolveAddition(accept bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		room, err := h.store.Get(chi.URLParam(r, "room_id"))
		if err != nil {
			writeRoomError(w, err)
			return
		}
		var req ResolveRequest
		if err := decodeJSON(r, &req); err != nil {
			writeRoomError(w, err)
			return
		}
		if err := room.ResolveAddition(user.Name, req.ProblemID, accept); err != nil {
			writeRoomError(w, err)
			return
		}
		h.hub.RoomUpdate(room.ID(), room.Snapshot())
		writeJSON(w, AckResponse{OK: true})
	}
}

func (h *RoomHandlers) ResolveDeletion(accept bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		room, err := h.store.Get(chi.URLParam(r, "room_id"))
		if err != nil {
			writeRoomError(w, err)
			return
		}
		var req ResolveRequest
		if err := decodeJSON(r, &req); err != nil {
			writeRoomError(w, err)
			return
		}
		if err := room.ResolveDeletion(user.Name, req.ProblemID, accept); err != nil {
			writeRoomError(w, err)
			return
		}
		h.hub.RoomUpdate(room.ID(), room.Snapshot())
		writeJSON(w, AckResponse{OK: true})
	}
}
