package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"duel-arena/internal/arena"
)

// Hub fans out room-wide and team-private events to connected clients
// and routes chat commands into the consensus engine. It implements
// arena.Broadcaster.
type Hub struct {
	store *arena.Store

	mu    sync.Mutex
	rooms map[string]map[*client]struct{}
	teams map[string]map[*client]struct{}
}

func NewHub(store *arena.Store) *Hub {
	return &Hub{
		store: store,
		rooms: map[string]map[*client]struct{}{},
		teams: map[string]map[*client]struct{}{},
	}
}

func teamScope(roomID, team string) string {
	return roomID + ":" + team
}

func (h *Hub) register(c *client, roomID, team string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = map[*client]struct{}{}
	}
	h.rooms[roomID][c] = struct{}{}
	scope := teamScope(roomID, team)
	if h.teams[scope] == nil {
		h.teams[scope] = map[*client]struct{}{}
	}
	h.teams[scope][c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conns := range h.rooms {
		delete(conns, c)
	}
	for _, conns := range h.teams {
		delete(conns, c)
	}
}

func (h *Hub) emitRoom(roomID, event string, data any) {
	h.emit(h.roomClients(roomID), event, data)
}

func (h *Hub) emitTeam(roomID, team, event string, data any) {
	h.emit(h.teamClients(roomID, team), event, data)
}

func (h *Hub) roomClients(roomID string) []*client {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*client, 0, len(h.rooms[roomID]))
	for c := range h.rooms[roomID] {
		out = append(out, c)
	}
	return out
}

func (h *Hub) teamClients(roomID, team string) []*client {
	h.mu.Lock()
	defer h.mu.Unlock()
	scope := teamScope(roomID, team)
	out := make([]*client, 0, len(h.teams[scope]))
	for c := range h.teams[scope] {
		out = append(out, c)
	}
	return out
}

func (h *Hub) emit(clients []*client, event string, data any) {
	raw, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("marshal broadcast")
		return
	}
	for _, c := range clients {
		c.enqueue(raw)
	}
}

// RoomUpdate pushes a fresh state snapshot to everyone in the room.
func (h *Hub) RoomUpdate(roomID string, snap arena.Snapshot) {
	h.emitRoom(roomID, EventUpdate, snap)
}

// GameOver announces the winner room-wide.
func (h *Hub) GameOver(roomID, winner string) {
	h.emitRoom(roomID, EventGameOver, GameOverPayload{Winner: winner})
}

// ProposalRequest announces a new addition proposal room-wide.
func (h *Hub) ProposalRequest(roomID string, notice ProposalNotice) {
	h.emitRoom(roomID, EventProposalRequest, notice)
}

// DeletionRequest announces a new deletion proposal room-wide.
func (h *Hub) DeletionRequest(roomID string, notice ProposalNotice) {
	h.emitRoom(roomID, EventDeletionRequest, notice)
}

func (h *Hub) systemMessage(roomID, team, text string) {
	h.emitTeam(roomID, team, EventMessage, ChatPayload{
		User: "system",
		Text: text,
		Time: clockTime(),
	})
}

func clockTime() string {
	return time.Now().Format("15:04:05")
}

func (h *Hub) handleJoin(c *client, msg JoinMessage) {
	if msg.RoomID == "" || msg.Team == "" {
		return
	}
	h.register(c, msg.RoomID, msg.Team)
	h.systemMessage(msg.RoomID, msg.Team, "welcome aboard, "+msg.Team+"!")
}

// handleChat relays plain chat team-private and intercepts !propose /
// !delete commands. Malformed commands produce a team-private usage
// notice and never touch room state.
func (h *Hub) handleChat(msg ChatMessage) {
	cmd := parseChatCommand(msg.Text)
	switch cmd.kind {
	case cmdChat:
		h.emitTeam(msg.RoomID, msg.Team, EventMessage, ChatPayload{
			User: msg.User,
			Text: msg.Text,
			Time: clockTime(),
		})
	case cmdPropose:
		if cmd.pid == "" {
			h.systemMessage(msg.RoomID, msg.Team, "usage: !propose <problem id>")
			return
		}
		room, err := h.store.Get(msg.RoomID)
		if err != nil {
			return
		}
		p, err := room.ProposeAddition(msg.Team, msg.User, cmd.pid)
		if err != nil {
			h.systemMessage(msg.RoomID, msg.Team, "you are not on that team, cannot propose")
			return
		}
		h.ProposalRequest(msg.RoomID, ProposalNotice{Proposer: p.Proposer, ProblemID: p.ProblemID, Timestamp: p.Timestamp})
		h.RoomUpdate(msg.RoomID, room.Snapshot())
		h.systemMessage(msg.RoomID, msg.Team, "proposed adding problem "+cmd.pid)
	case cmdDelete:
		if cmd.pid == "" {
			h.systemMessage(msg.RoomID, msg.Team, "usage: !delete <problem id>")
			return
		}
		room, err := h.store.Get(msg.RoomID)
		if err != nil {
			return
		}
		p, err := room.ProposeDeletion(msg.Team, msg.User, cmd.pid)
		if err != nil {
			h.systemMessage(msg.RoomID, msg.Team, deletionFailureText(cmd.pid, err))
			return
		}
		h.DeletionRequest(msg.RoomID, ProposalNotice{Proposer: p.Proposer, ProblemID: p.ProblemID, Timestamp: p.Timestamp})
		h.RoomUpdate(msg.RoomID, room.Snapshot())
		h.systemMessage(msg.RoomID, msg.Team, "proposed deleting problem "+cmd.pid+" (needs the other team's approval)")
	}
}

func deletionFailureText(pid string, err error) string {
	switch {
	case errors.Is(err, arena.ErrProblemNotFound):
		return "problem " + pid + " does not exist, cannot delete"
	case errors.Is(err, arena.ErrDuplicateProposal):
		return "a deletion proposal for " + pid + " is already pending"
	default:
		return "you are not on that team, cannot propose"
	}
}
