package arena

import (
	"sort"
	"sync"
	"time"
)

// Room is one duel: two teams racing over a shared problem set. All state
// behind mu; every operation and the judge loop's credit path serialize
// through it, so the first-credit-wins and finish-once guarantees hold
// under concurrent HTTP, websocket and judge activity.
type Room struct {
	id        string
	createdAt time.Time

	mu        sync.Mutex
	problems  map[string]struct{}
	teams     map[string][]string
	members   map[string]struct{}
	scores    map[string]int
	solved    map[string]struct{}
	solvedBy  map[string]SolveCredit
	finished  bool
	winner    string
	additions []Proposal
	deletions []Proposal
}

func NewRoom(id string, problems []string) *Room {
	r := &Room{
		id:        id,
		createdAt: time.Now(),
		problems:  make(map[string]struct{}, len(problems)),
		teams:     map[string][]string{Team1: {}, Team2: {}},
		members:   map[string]struct{}{},
		scores:    map[string]int{Team1: 0, Team2: 0},
		solved:    map[string]struct{}{},
		solvedBy:  map[string]SolveCredit{},
	}
	for _, pid := range problems {
		if pid != "" {
			r.problems[pid] = struct{}{}
		}
	}
	return r
}

func (r *Room) ID() string           { return r.id }
func (r *Room) CreatedAt() time.Time { return r.createdAt }

// Code is the short shareable form of the room id used in listings and
// join URLs.
func (r *Room) Code() string {
	if len(r.id) < 8 {
		return r.id
	}
	return r.id[:8]
}

func (r *Room) Finished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finished
}

func (r *Room) Winner() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.winner
}

// Creator is the first team1 member, or empty if they already left.
func (r *Room) Creator() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.teams[Team1]) == 0 {
		return ""
	}
	return r.teams[Team1][0]
}

func (r *Room) IsMember(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.members[name]
	return ok
}

// Join appends name to team. Names are globally unique within the room,
// so a member is on at most one team.
func (r *Room) Join(team, name string) error {
	if !validTeam(team) {
		return ErrInvalidTeam
	}
	if name == "" {
		return ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[name]; ok {
		return ErrAlreadyMember
	}
	r.teams[team] = append(r.teams[team], name)
	r.members[name] = struct{}{}
	return nil
}

// Leave removes name from whichever team holds it. Scores and solve
// records are untouched.
func (r *Room) Leave(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[name]; !ok {
		return ErrNotMember
	}
	for team, roster := range r.teams {
		for i, member := range roster {
			if member == name {
				r.teams[team] = append(roster[:i], roster[i+1:]...)
				break
			}
		}
	}
	delete(r.members, name)
	return nil
}

// Snapshot deep-copies the room state. Problem and solved listings are
// sorted so payloads are stable across polls.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{
		RoomID:            r.id,
		Problems:          sortedKeys(r.problems),
		Teams:             make(map[string][]string, len(r.teams)),
		Solved:            sortedKeys(r.solved),
		SolvedBy:          make(map[string]SolveCredit, len(r.solvedBy)),
		Scores:            make(map[string]int, len(r.scores)),
		Finished:          r.finished,
		Winner:            r.winner,
		Proposals:         append([]Proposal(nil), r.additions...),
		DeletionProposals: append([]Proposal(nil), r.deletions...),
	}
	for team, roster := range r.teams {
		snap.Teams[team] = append([]string(nil), roster...)
	}
	for pid, credit := range r.solvedBy {
		snap.SolvedBy[pid] = credit
	}
	for team, score := range r.scores {
		snap.Scores[team] = score
	}
	return snap
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (r *Room) onTeamLocked(team, name string) bool {
	for _, member := range r.teams[team] {
		if member == name {
			return true
		}
	}
	return false
}

func proposalTimestamp() string {
	return time.Now().Format("15:04:05")
}
