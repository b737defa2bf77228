package arena

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// StatusProvider reports which of the candidate users are known to have
// solved a problem. Implementations own their transport; failures must be
// returned, not swallowed, so the judge loop can log them.
type StatusProvider interface {
	LookupSolvers(ctx context.Context, problemID string, candidates []string) (map[string]struct{}, error)
}

// Broadcaster is the slice of the realtime layer the judge loop needs.
type Broadcaster interface {
	RoomUpdate(roomID string, snap Snapshot)
	GameOver(roomID, winner string)
}

// Judge polls the status provider for every room it is started on and
// credits solves until the room finishes.
type Judge struct {
	provider StatusProvider
	bc       Broadcaster
	interval time.Duration
	timeout  time.Duration
}

func NewJudge(provider StatusProvider, bc Broadcaster, interval, timeout time.Duration) *Judge {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if timeout <= 0 {
		timeout = 7 * time.Second
	}
	return &Judge{provider: provider, bc: bc, interval: interval, timeout: timeout}
}

// Run drives one room until it finishes or ctx is cancelled. Each
// iteration polls every unsolved problem outside the room lock, then
// applies the results; ApplySolve re-checks the solved set so a problem
// is never credited twice.
func (j *Judge) Run(ctx context.Context, room *Room) {
	log.Debug().Str("room_id", room.ID()).Msg("judge loop started")
	for !room.Finished() {
		pids, members := room.PollTargets()

		results := make(map[string]map[string]struct{}, len(pids))
		for _, pid := range pids {
			pollCtx, cancel := context.WithTimeout(ctx, j.timeout)
			solvers, err := j.provider.LookupSolvers(pollCtx, pid, members)
			cancel()
			if err != nil {
				// Treated as no solvers this round; the poll retries
				// next iteration.
				log.Warn().Err(err).Str("room_id", room.ID()).Str("pid", pid).Msg("status provider poll failed")
				continue
			}
			if len(solvers) > 0 {
				results[pid] = solvers
			}
		}

		for _, pid := range pids {
			solvers, ok := results[pid]
			if !ok {
				continue
			}
			res := room.ApplySolve(pid, solvers)
			if !res.Credited {
				continue
			}
			log.Info().Str("room_id", room.ID()).Str("pid", pid).
				Str("team", res.Team).Str("user", res.User).Msg("problem solved")
			if res.Finished {
				log.Info().Str("room_id", room.ID()).Str("winner", res.Winner).Msg("room finished")
				j.bc.GameOver(room.ID(), res.Winner)
				break
			}
			j.bc.RoomUpdate(room.ID(), room.Snapshot())
		}

		if room.Finished() {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(j.interval):
		}
	}
	log.Debug().Str("room_id", room.ID()).Msg("judge loop ended")
}

// PollTargets returns the unsolved problem ids and the current member
// names, copied under the lock so the poll itself runs without it.
func (r *Room) PollTargets() ([]string, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pids := make([]string, 0, len(r.problems))
	for pid := range r.problems {
		if _, done := r.solved[pid]; !done {
			pids = append(pids, pid)
		}
	}
	members := make([]string, 0, len(r.teams[Team1])+len(r.teams[Team2]))
	members = append(members, r.teams[Team1]...)
	members = append(members, r.teams[Team2]...)
	return pids, members
}

// ApplySolve credits the first team, checked team1 then team2, with a
// member in the solver set. It is a no-op when the room is finished, the
// problem was deleted mid-poll, it is already solved, or no current
// member solved it.
func (r *Room) ApplySolve(pid string, solvers map[string]struct{}) SolveResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finished {
		return SolveResult{}
	}
	if _, ok := r.problems[pid]; !ok {
		return SolveResult{}
	}
	if _, done := r.solved[pid]; done {
		return SolveResult{}
	}

	var team, user string
	for _, candidate := range []string{Team1, Team2} {
		for _, member := range r.teams[candidate] {
			if _, ok := solvers[member]; ok {
				team, user = candidate, member
				break
			}
		}
		if team != "" {
			break
		}
	}
	if team == "" {
		// Solver is not on either team anymore.
		return SolveResult{}
	}

	r.solved[pid] = struct{}{}
	r.solvedBy[pid] = SolveCredit{User: user, Team: team}
	r.scores[team] += PointsPerProblem

	res := SolveResult{Credited: true, User: user, Team: team}

	// Strictly more than half of the total points wins.
	threshold := len(r.problems) * PointsPerProblem / 2
	if r.scores[team] > threshold {
		r.finished = true
		r.winner = team
		res.Finished = true
		res.Winner = team
	}
	return res
}
