package arena

// The two team slots are fixed; there is no third team and no free-form
// team naming anywhere in the protocol.
const (
	Team1 = "team1"
	Team2 = "team2"
)

// PointsPerProblem is credited to the first team whose member solves a
// problem. Scores are always multiples of it.
const PointsPerProblem = 100

type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "pending"
	ProposalAccepted ProposalStatus = "accepted"
	ProposalRejected ProposalStatus = "rejected"
)

// Proposal is a request by one team to add or remove a problem. Only the
// opposing team may resolve it; Status is the only field that changes
// after creation.
type Proposal struct {
	Proposer  string         `json:"proposer"`
	ProblemID string         `json:"pid"`
	Status    ProposalStatus `json:"status"`
	Timestamp string         `json:"timestamp"`
}

// SolveCredit records who first solved a problem and for which team.
type SolveCredit struct {
	User string `json:"user"`
	Team string `json:"team"`
}

// Snapshot is a deep copy of a room's state, safe to hand to encoders and
// broadcast consumers.
type Snapshot struct {
	RoomID            string                 `json:"room_id"`
	Problems          []string               `json:"problems"`
	Teams             map[string][]string    `json:"teams"`
	Solved            []string               `json:"solved"`
	SolvedBy          map[string]SolveCredit `json:"solved_by"`
	Scores            map[string]int         `json:"scores"`
	Finished          bool                   `json:"finished"`
	Winner            string                 `json:"winner"`
	Proposals         []Proposal             `json:"proposals"`
	DeletionProposals []Proposal             `json:"deletion_proposals"`
}

// SolveResult reports what ApplySolve changed.
type SolveResult struct {
	Credited bool
	User     string
	Team     string
	Finished bool
	Winner   string
}

// OpposingTeam returns the team that must approve a proposal made by team.
func OpposingTeam(team string) string {
	if team == Team2 {
		return Team1
	}
	return Team2
}

func validTeam(team string) bool {
	return team == Team1 || team == Team2
}
