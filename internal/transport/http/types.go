package httptransport

type RegisterRequest struct {
	Name      string `json:"name"`
	AvatarRef string `json:"avatar_ref"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

type CreateRoomRequest struct {
	Problems []string `json:"problems"`
}

type CreateRoomResponse struct {
	RoomID string `json:"room_id"`
	Code   string `json:"code"`
	URL    string `json:"url"`
}

type RoomsResponse struct {
	Items []RoomItem `json:"items"`
}

type RoomItem struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Creator  string `json:"creator"`
	Team1    int    `json:"team1_players"`
	Team2    int    `json:"team2_players"`
	Finished bool   `json:"finished"`
	IsMember bool   `json:"is_member"`
	URL      string `json:"url"`
}

type JoinRequest struct {
	Team string `json:"team"`
}

type ProposeRequest struct {
	Team      string `json:"team"`
	ProblemID string `json:"pid"`
}

type ResolveRequest struct {
	ProblemID string `json:"pid"`
}

type AckResponse struct {
	OK bool `json:"ok"`
}
