package access

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/apperr"
)

func ptr(id uuid.UUID) *uuid.UUID { return &id }

func TestCanView(t *testing.T) {
	owner, member, invited, stranger := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	members := InSet(map[uuid.UUID]bool{member: true})
	invites := InSet(map[uuid.UUID]bool{invited: true})

	tests := []struct {
		name   string
		policy Policy
		actor  *uuid.UUID
		want   bool
	}{
		{"public anonymous", Public{}, nil, true},
		{"public stranger", Public{}, ptr(stranger), true},
		{"group owner", GroupScoped{Member: members}, ptr(owner), true},
		{"group member", GroupScoped{Member: members}, ptr(member), true},
		{"group stranger", GroupScoped{Member: members}, ptr(stranger), false},
		{"group anonymous", GroupScoped{Member: members}, nil, false},
		{"group invite path", GroupScoped{Member: members, Invited: invites}, ptr(invited), true},
		{"group without invite path", GroupScoped{Member: members}, ptr(invited), false},
		{"invite owner", InviteScoped{Invited: invites}, ptr(owner), true},
		{"invite invited", InviteScoped{Invited: invites}, ptr(invited), true},
		{"invite member", InviteScoped{Invited: invites}, ptr(member), false},
		{"invite anonymous", InviteScoped{Invited: invites}, nil, false},
		{"no lookups", InviteScoped{}, ptr(stranger), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanView(Target{OwnerID: owner, Policy: tt.policy}, tt.actor)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("CanView = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanViewLookupError(t *testing.T) {
	boom := errors.New("db down")
	failing := func(uuid.UUID) (bool, error) { return false, boom }

	_, err := CanView(Target{OwnerID: uuid.New(), Policy: GroupScoped{Member: failing}}, ptr(uuid.New()))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestIsPublic(t *testing.T) {
	if !IsPublic(Public{}) {
		t.Error("Public should be public")
	}
	if IsPublic(GroupScoped{}) || IsPublic(InviteScoped{}) {
		t.Error("scoped policies should not be public")
	}
}

func TestCapacity(t *testing.T) {
	tests := []struct {
		name      string
		c         Capacity
		current   int
		effective int
		available int
		room      bool
	}{
		{"plain", Capacity{MaxPlayers: 4}, 2, 4, 2, true},
		{"host plays", Capacity{MaxPlayers: 4, HostParticipating: true}, 3, 3, 0, false},
		{"reserved", Capacity{MaxPlayers: 6, ReservedSlots: 2, HostParticipating: true}, 2, 3, 1, true},
		{"shrunk below headcount", Capacity{MaxPlayers: 2}, 4, 2, -2, false},
		{"unlimited", Capacity{Unlimited: true}, 100, 0, -100, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Effective(); got != tt.effective {
				t.Errorf("Effective = %d, want %d", got, tt.effective)
			}
			if got := tt.c.Available(tt.current); got != tt.available {
				t.Errorf("Available = %d, want %d", got, tt.available)
			}
			if got := tt.c.HasRoom(tt.current); got != tt.room {
				t.Errorf("HasRoom = %v, want %v", got, tt.room)
			}
		})
	}
}

func TestDecide(t *testing.T) {
	open := JoinFacts{Visible: true, Capacity: Capacity{MaxPlayers: 2}, CanWaitlist: true}

	with := func(mut func(*JoinFacts)) JoinFacts {
		f := open
		mut(&f)
		return f
	}

	tests := []struct {
		name    string
		facts   JoinFacts
		outcome Outcome
		reason  error
	}{
		{"admit", open, Admit, nil},
		{"waitlist when full", with(func(f *JoinFacts) { f.Current = 2 }), Waitlist, nil},
		{"reject when full without waitlist", with(func(f *JoinFacts) { f.Current = 2; f.CanWaitlist = false }), Reject, ErrFull},
		{"cancelled", with(func(f *JoinFacts) { f.Cancelled = true }), Reject, ErrCancelled},
		{"already member", with(func(f *JoinFacts) { f.Member = true }), Reject, ErrAlreadyMember},
		{"already waitlisted", with(func(f *JoinFacts) { f.Waitlisted = true }), Reject, ErrAlreadyWaitlisted},
		{"blacklisted", with(func(f *JoinFacts) { f.Blacklisted = true }), Reject, ErrBlacklisted},
		{"not visible", with(func(f *JoinFacts) { f.Visible = false }), Reject, ErrNotVisible},
		{"needs event attendance", with(func(f *JoinFacts) { f.RequiresEventAttendance = true }), Reject, ErrNotEventAttendee},
		{"event attendee", with(func(f *JoinFacts) { f.RequiresEventAttendance = true; f.EventAttendee = true }), Admit, nil},
		{"needs approval", with(func(f *JoinFacts) { f.RequiresApproval = true }), Reject, ErrApprovalRequired},
		{"cancelled wins over blacklist", with(func(f *JoinFacts) { f.Cancelled = true; f.Blacklisted = true }), Reject, ErrCancelled},
		{"blacklist checked before visibility", with(func(f *JoinFacts) { f.Blacklisted = true; f.Visible = false }), Reject, ErrBlacklisted},
		{"unlimited", with(func(f *JoinFacts) { f.Capacity = Capacity{Unlimited: true}; f.Current = 500 }), Admit, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.facts)
			if d.Outcome != tt.outcome {
				t.Errorf("Outcome = %v, want %v", d.Outcome, tt.outcome)
			}
			if d.Reason != tt.reason {
				t.Errorf("Reason = %v, want %v", d.Reason, tt.reason)
			}
		})
	}
}

func TestRejectReasonKinds(t *testing.T) {
	if !errors.Is(ErrFull, apperr.ErrConflict) {
		t.Error("ErrFull should be a conflict")
	}
	if !errors.Is(ErrCancelled, apperr.ErrInvalidState) {
		t.Error("ErrCancelled should be invalid state")
	}
	if !errors.Is(ErrBlacklisted, apperr.ErrForbidden) {
		t.Error("ErrBlacklisted should be forbidden")
	}
}
