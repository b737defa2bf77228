package arena

// ProposeAddition records a pending request by user (on team) to add a
// problem. Unlike deletions there is no duplicate-pending check: the
// protocol allows several pending addition proposals for the same id.
func (r *Room) ProposeAddition(team, user, pid string) (Proposal, error) {
	if pid == "" {
		return Proposal{}, ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.onTeamLocked(team, user) {
		return Proposal{}, ErrNotTeamMember
	}
	p := Proposal{
		Proposer:  team,
		ProblemID: pid,
		Status:    ProposalPending,
		Timestamp: proposalTimestamp(),
	}
	r.additions = append(r.additions, p)
	return p, nil
}

// ProposeDeletion records a pending request to remove a problem. The
// problem must currently exist and must not already have a pending
// deletion proposal.
func (r *Room) ProposeDeletion(team, user, pid string) (Proposal, error) {
	if pid == "" {
		return Proposal{}, ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.onTeamLocked(team, user) {
		return Proposal{}, ErrNotTeamMember
	}
	if _, ok := r.problems[pid]; !ok {
		return Proposal{}, ErrProblemNotFound
	}
	for _, existing := range r.deletions {
		if existing.ProblemID == pid && existing.Status == ProposalPending {
			return Proposal{}, ErrDuplicateProposal
		}
	}
	p := Proposal{
		Proposer:  team,
		ProblemID: pid,
		Status:    ProposalPending,
		Timestamp: proposalTimestamp(),
	}
	r.deletions = append(r.deletions, p)
	return p, nil
}

// ResolveAddition accepts or rejects the pending addition proposal for
// pid. Only a member of the team opposing the proposer may resolve it.
// Accepting adds the problem to the set.
func (r *Room) ResolveAddition(user, pid string, accept bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := pendingIndex(r.additions, pid)
	if idx < 0 {
		return ErrProposalNotFound
	}
	if !r.onTeamLocked(OpposingTeam(r.additions[idx].Proposer), user) {
		return ErrNotAuthorized
	}
	if !accept {
		r.additions[idx].Status = ProposalRejected
		return nil
	}
	r.additions[idx].Status = ProposalAccepted
	r.problems[pid] = struct{}{}
	return nil
}

// ResolveDeletion accepts or rejects the pending deletion proposal for
// pid. Accepting removes the problem from the set, from the solved record
// and from solvedBy. Scores are deliberately not clawed back: retroactive
// adjustment would leave the score history inconsistent.
func (r *Room) ResolveDeletion(user, pid string, accept bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := pendingIndex(r.deletions, pid)
	if idx < 0 {
		return ErrProposalNotFound
	}
	if !r.onTeamLocked(OpposingTeam(r.deletions[idx].Proposer), user) {
		return ErrNotAuthorized
	}
	if !accept {
		r.deletions[idx].Status = ProposalRejected
		return nil
	}
	r.deletions[idx].Status = ProposalAccepted
	delete(r.problems, pid)
	delete(r.solved, pid)
	delete(r.solvedBy, pid)
	return nil
}

func pendingIndex(proposals []Proposal, pid string) int {
	for i, p := range proposals {
		if p.ProblemID == pid && p.Status == ProposalPending {
			return i
		}
	}
	return -1
}
