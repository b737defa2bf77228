package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"duel-arena/internal/arena"
)

func httpHandler(h *Hub) http.Handler {
	return http.HandlerFunc(h.HandleWS)
}

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func sendJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readEnvelope(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var env struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return env.Event, env.Data
}

func TestChatStaysTeamPrivate(t *testing.T) {
	store := arena.NewStore()
	room, err := store.Create([]string{"P1000"}, "alice")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if err := room.Join(arena.Team2, "bob"); err != nil {
		t.Fatalf("join bob: %v", err)
	}

	hub := NewHub(store)
	srv := httptest.NewServer(httpHandler(hub))
	defer srv.Close()

	aliceConn := dialHub(t, srv)
	bobConn := dialHub(t, srv)
	sendJSON(t, aliceConn, JoinMessage{Type: "join", RoomID: room.ID(), Team: arena.Team1})
	sendJSON(t, bobConn, JoinMessage{Type: "join", RoomID: room.ID(), Team: arena.Team2})

	// Both get their own team welcome first.
	if event, _ := readEnvelope(t, aliceConn); event != EventMessage {
		t.Fatalf("alice first event = %q, want message", event)
	}
	if event, _ := readEnvelope(t, bobConn); event != EventMessage {
		t.Fatalf("bob first event = %q, want message", event)
	}

	sendJSON(t, aliceConn, ChatMessage{Type: "chat", RoomID: room.ID(), Team: arena.Team1, User: "alice", Text: "flank P1000"})

	event, data := readEnvelope(t, aliceConn)
	if event != EventMessage {
		t.Fatalf("event = %q, want message", event)
	}
	var payload ChatPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.User != "alice" || payload.Text != "flank P1000" {
		t.Fatalf("payload = %+v", payload)
	}

	// Bob must not see team1's chat; the next thing he can receive is a
	// room-wide event, so trigger one and check it arrives directly.
	hub.GameOver(room.ID(), arena.Team1)
	if event, _ := readEnvelope(t, bobConn); event != EventGameOver {
		t.Fatalf("bob leaked a team1 event, got %q", event)
	}
}

func TestProposeCommandCreatesProposal(t *testing.T) {
	store := arena.NewStore()
	room, err := store.Create([]string{"P1000"}, "alice")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	hub := NewHub(store)
	srv := httptest.NewServer(httpHandler(hub))
	defer srv.Close()

	conn := dialHub(t, srv)
	sendJSON(t, conn, JoinMessage{Type: "join", RoomID: room.ID(), Team: arena.Team1})
	readEnvelope(t, conn) // welcome

	sendJSON(t, conn, ChatMessage{Type: "chat", RoomID: room.ID(), Team: arena.Team1, User: "alice", Text: "!propose P2000"})

	sawRequest, sawUpdate, sawConfirm := false, false, false
	for i := 0; i < 3; i++ {
		event, data := readEnvelope(t, conn)
		switch event {
		case EventProposalRequest:
			var notice ProposalNotice
			if err := json.Unmarshal(data, &notice); err != nil {
				t.Fatalf("unmarshal notice: %v", err)
			}
			if notice.Proposer != arena.Team1 || notice.ProblemID != "P2000" {
				t.Fatalf("notice = %+v", notice)
			}
			sawRequest = true
		case EventUpdate:
			sawUpdate = true
		case EventMessage:
			sawConfirm = true
		}
	}
	if !sawRequest || !sawUpdate || !sawConfirm {
		t.Fatalf("request=%v update=%v confirm=%v, want all", sawRequest, sawUpdate, sawConfirm)
	}

	snap := room.Snapshot()
	if len(snap.Proposals) != 1 || snap.Proposals[0].ProblemID != "P2000" {
		t.Fatalf("proposals = %v", snap.Proposals)
	}
}

func TestMalformedCommandYieldsUsageNotice(t *testing.T) {
	store := arena.NewStore()
	room, err := store.Create([]string{"P1000"}, "alice")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	hub := NewHub(store)
	srv := httptest.NewServer(httpHandler(hub))
	defer srv.Close()

	conn := dialHub(t, srv)
	sendJSON(t, conn, JoinMessage{Type: "join", RoomID: room.ID(), Team: arena.Team1})
	readEnvelope(t, conn) // welcome

	sendJSON(t, conn, ChatMessage{Type: "chat", RoomID: room.ID(), Team: arena.Team1, User: "alice", Text: "!delete "})

	event, data := readEnvelope(t, conn)
	if event != EventMessage {
		t.Fatalf("event = %q, want message", event)
	}
	var payload ChatPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.User != "system" || !strings.HasPrefix(payload.Text, "usage:") {
		t.Fatalf("payload = %+v, want system usage notice", payload)
	}
	if got := len(room.Snapshot().DeletionProposals); got != 0 {
		t.Fatalf("deletion proposals = %d, want 0", got)
	}
}
