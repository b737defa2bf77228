package arena

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeProvider serves canned solver sets per problem, optionally failing
// the first N lookups.
type fakeProvider struct {
	mu       sync.Mutex
	solvers  map[string][]string
	failures int
}

func (f *fakeProvider) LookupSolvers(_ context.Context, pid string, candidates []string) (map[string]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("provider unavailable")
	}
	candidateSet := map[string]struct{}{}
	for _, name := range candidates {
		candidateSet[name] = struct{}{}
	}
	out := map[string]struct{}{}
	for _, name := range f.solvers[pid] {
		if _, ok := candidateSet[name]; ok {
			out[name] = struct{}{}
		}
	}
	return out, nil
}

func (f *fakeProvider) set(pid string, users ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.solvers == nil {
		f.solvers = map[string][]string{}
	}
	f.solvers[pid] = users
}

// recordingBroadcaster captures judge emissions.
type recordingBroadcaster struct {
	mu       sync.Mutex
	updates  []Snapshot
	gameOver []string
}

func (b *recordingBroadcaster) RoomUpdate(_ string, snap Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates = append(b.updates, snap)
}

func (b *recordingBroadcaster) GameOver(_ string, winner string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gameOver = append(b.gameOver, winner)
}

func (b *recordingBroadcaster) winners() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.gameOver...)
}

func TestApplySolveCreditsFirstTeamInOrder(t *testing.T) {
	r := NewRoom("room-1", []string{"P1", "P2", "P3"})
	mustJoin(t, r, Team1, "alice")
	mustJoin(t, r, Team2, "bob")

	// Both teams have a solver; team1 is checked first and wins the credit.
	res := r.ApplySolve("P1", map[string]struct{}{"alice": {}, "bob": {}})
	if !res.Credited || res.Team != Team1 || res.User != "alice" {
		t.Fatalf("unexpected result %+v", res)
	}
	snap := r.Snapshot()
	if snap.Scores[Team1] != 100 || snap.Scores[Team2] != 0 {
		t.Fatalf("scores = %v, want team1=100 team2=0", snap.Scores)
	}
	if snap.SolvedBy["P1"].User != "alice" || snap.SolvedBy["P1"].Team != Team1 {
		t.Fatalf("solved_by = %v", snap.SolvedBy)
	}
}

func TestApplySolveIgnoresNonMembersAndDoubleCredit(t *testing.T) {
	r := NewRoom("room-1", []string{"P1", "P2", "P3"})
	mustJoin(t, r, Team1, "alice")
	mustJoin(t, r, Team2, "bob")

	if res := r.ApplySolve("P1", map[string]struct{}{"mallory": {}}); res.Credited {
		t.Fatalf("non-member credited: %+v", res)
	}
	if res := r.ApplySolve("P1", map[string]struct{}{"bob": {}}); !res.Credited {
		t.Fatal("expected bob credit")
	}
	// Re-applying the same solve is a no-op.
	if res := r.ApplySolve("P1", map[string]struct{}{"alice": {}}); res.Credited {
		t.Fatalf("double credit: %+v", res)
	}
	if got := r.Snapshot().Scores[Team2]; got != 100 {
		t.Fatalf("team2 score = %d, want 100", got)
	}
	if res := r.ApplySolve("P9", map[string]struct{}{"bob": {}}); res.Credited {
		t.Fatalf("credit for unknown problem: %+v", res)
	}
}

func TestWinRequiresStrictlyMoreThanHalf(t *testing.T) {
	// 3 problems, 300 total, threshold 150. One solve (100) and even a
	// hypothetical exact-half score must not finish the room.
	r := NewRoom("room-1", []string{"P1", "P2", "P3"})
	mustJoin(t, r, Team1, "alice")
	mustJoin(t, r, Team2, "bob")

	if res := r.ApplySolve("P1", map[string]struct{}{"alice": {}}); res.Finished {
		t.Fatalf("finished at 100/300: %+v", res)
	}
	res := r.ApplySolve("P2", map[string]struct{}{"alice": {}})
	if !res.Finished || res.Winner != Team1 {
		t.Fatalf("expected team1 win at 200 > 150, got %+v", res)
	}
	snap := r.Snapshot()
	if !snap.Finished || snap.Winner != Team1 {
		t.Fatalf("snapshot = finished %v winner %q", snap.Finished, snap.Winner)
	}

	// Finished is terminal; later solves change nothing.
	if after := r.ApplySolve("P3", map[string]struct{}{"bob": {}}); after.Credited {
		t.Fatalf("credit after finish: %+v", after)
	}
}

func TestExactHalfDoesNotWin(t *testing.T) {
	// 2 problems, 200 total, threshold 100: one solve lands exactly on
	// the threshold and must not finish the room.
	r := NewRoom("room-1", []string{"P1000", "P1001"})
	mustJoin(t, r, Team1, "alice")
	mustJoin(t, r, Team2, "bob")

	res := r.ApplySolve("P1000", map[string]struct{}{"alice": {}})
	if !res.Credited || res.Finished {
		t.Fatalf("100 is not > 100, got %+v", res)
	}
	res = r.ApplySolve("P1001", map[string]struct{}{"alice": {}})
	if !res.Finished || res.Winner != Team1 {
		t.Fatalf("expected win at 200 > 100, got %+v", res)
	}
}

func TestJudgeLoopRunsRoomToCompletion(t *testing.T) {
	r := NewRoom("room-1", []string{"P1000", "P1001"})
	mustJoin(t, r, Team1, "alice")
	mustJoin(t, r, Team2, "bob")

	provider := &fakeProvider{failures: 1}
	provider.set("P1000", "alice")
	provider.set("P1001", "alice")
	bc := &recordingBroadcaster{}
	judge := NewJudge(provider, bc, 2*time.Millisecond, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	done := make(chan struct{})
	go func() {
		judge.Run(ctx, r)
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("judge loop did not finish in time")
	}

	snap := r.Snapshot()
	if !snap.Finished || snap.Winner != Team1 {
		t.Fatalf("room = finished %v winner %q, want team1 win", snap.Finished, snap.Winner)
	}
	if snap.Scores[Team1] != 200 {
		t.Fatalf("team1 score = %d, want 200", snap.Scores[Team1])
	}
	winners := bc.winners()
	if len(winners) != 1 || winners[0] != Team1 {
		t.Fatalf("game_over emissions = %v, want one team1", winners)
	}
}

func TestJudgeLoopStopsOnContextCancel(t *testing.T) {
	r := NewRoom("room-1", []string{"P1"})
	mustJoin(t, r, Team1, "alice")

	provider := &fakeProvider{} // never reports a solver
	judge := NewJudge(provider, &recordingBroadcaster{}, 2*time.Millisecond, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		judge.Run(ctx, r)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("judge loop ignored cancellation")
	}
	if r.Finished() {
		t.Fatal("cancellation must not finish the room")
	}
}

func mustJoin(t *testing.T, r *Room, team, name string) {
	t.Helper()
	if err := r.Join(team, name); err != nil {
		t.Fatalf("join %s/%s: %v", team, name, err)
	}
}
