package access

import (
	"fmt"

	"github.com/playbojio/playbojio-api/internal/apperr"
)

// Capacity describes the seats of a session or event.
// Effective capacity is MaxPlayers minus reserved slots minus one seat when
// the host plays. It is recomputed on every decision.
type Capacity struct {
	MaxPlayers        int
	ReservedSlots     int
	HostParticipating bool
	Unlimited         bool
}

func (c Capacity) hostSeat() int {
	if c.HostParticipating {
		return 1
	}
	return 0
}

func (c Capacity) Effective() int {
	return c.MaxPlayers - c.ReservedSlots - c.hostSeat()
}

// Available is the seat count shown to clients. It goes negative when the
// host shrinks MaxPlayers below the current headcount.
func (c Capacity) Available(current int) int {
	return c.Effective() - current
}

func (c Capacity) HasRoom(current int) bool {
	return c.Unlimited || current < c.Effective()
}

type Outcome int

const (
	Reject Outcome = iota
	Admit
	Waitlist
)

func (o Outcome) String() string {
	switch o {
	case Admit:
		return "admit"
	case Waitlist:
		return "waitlist"
	default:
		return "reject"
	}
}

var (
	ErrCancelled         = fmt.Errorf("%w: it has been cancelled", apperr.ErrInvalidState)
	ErrAlreadyMember     = fmt.Errorf("%w: already joined", apperr.ErrConflict)
	ErrAlreadyWaitlisted = fmt.Errorf("%w: already on the waitlist", apperr.ErrConflict)
	ErrBlacklisted       = fmt.Errorf("%w: you have been blacklisted", apperr.ErrForbidden)
	ErrNotVisible        = fmt.Errorf("%w: you do not have access", apperr.ErrForbidden)
	ErrNotEventAttendee  = fmt.Errorf("%w: join the parent event first", apperr.ErrForbidden)
	ErrApprovalRequired  = fmt.Errorf("%w: membership requires approval", apperr.ErrForbidden)
	ErrFull              = fmt.Errorf("%w: no seats left", apperr.ErrConflict)
)

// JoinFacts is everything the admission rules read, gathered by the caller
// under a lock on the target row.
type JoinFacts struct {
	Cancelled   bool
	Member      bool
	Waitlisted  bool
	Blacklisted bool
	Visible     bool

	// Sessions under an event admit only attendees of that event.
	RequiresEventAttendance bool
	EventAttendee           bool

	// Private groups route joins through requests or invitations.
	RequiresApproval bool

	Capacity Capacity
	Current  int

	// CanWaitlist is set for sessions. Events and groups reject when full.
	CanWaitlist bool
}

type Decision struct {
	Outcome Outcome
	Reason  error
}

func rejected(reason error) Decision {
	return Decision{Outcome: Reject, Reason: reason}
}

// Decide applies the admission rules in order and returns the first rejection,
// or Admit / Waitlist depending on remaining capacity.
func Decide(f JoinFacts) Decision {
	switch {
	case f.Cancelled:
		return rejected(ErrCancelled)
	case f.Member:
		return rejected(ErrAlreadyMember)
	case f.Waitlisted:
		return rejected(ErrAlreadyWaitlisted)
	case f.Blacklisted:
		return rejected(ErrBlacklisted)
	case !f.Visible:
		return rejected(ErrNotVisible)
	case f.RequiresEventAttendance && !f.EventAttendee:
		return rejected(ErrNotEventAttendee)
	case f.RequiresApproval:
		return rejected(ErrApprovalRequired)
	}

	if f.Capacity.HasRoom(f.Current) {
		return Decision{Outcome: Admit}
	}
	if f.CanWaitlist {
		return Decision{Outcome: Waitlist}
	}
	return rejected(ErrFull)
}
