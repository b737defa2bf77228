package arena

import "errors"

var (
	ErrRoomNotFound      = errors.New("room_not_found")
	ErrInvalidTeam       = errors.New("invalid_team")
	ErrAlreadyMember     = errors.New("already_member")
	ErrNotMember         = errors.New("not_member")
	ErrNotTeamMember     = errors.New("not_team_member")
	ErrNotAuthorized     = errors.New("not_authorized")
	ErrProblemNotFound   = errors.New("problem_not_found")
	ErrDuplicateProposal = errors.New("duplicate_proposal")
	ErrProposalNotFound  = errors.New("proposal_not_found")
	ErrInvalidInput      = errors.New("invalid_input")
)
