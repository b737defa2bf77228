package ws

// Events pushed to connected clients.
const (
	EventUpdate          = "update"
	EventMessage         = "message"
	EventProposalRequest = "proposal_request"
	EventDeletionRequest = "deletion_request"
	EventGameOver        = "game_over"
)

// Envelope wraps every outbound event.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type JoinMessage struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id"`
	Team   string `json:"team"`
}

type ChatMessage struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id"`
	Team   string `json:"team"`
	User   string `json:"user"`
	Text   string `json:"text"`
}

// ChatPayload is the body of a message event. System notices use the
// reserved user "system".
type ChatPayload struct {
	User string `json:"user"`
	Text string `json:"text"`
	Time string `json:"time"`
}

// ProposalNotice announces a freshly created proposal room-wide.
type ProposalNotice struct {
	Proposer  string `json:"proposer"`
	ProblemID string `json:"pid"`
	Timestamp string `json:"timestamp"`
}

type GameOverPayload struct {
	Winner string `json:"winner"`
}
