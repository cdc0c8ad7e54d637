// Package access decides who may see and join sessions, events and groups.
//
// Visibility is one polymorphic Policy shared by every target kind. Each
// variant is parameterised by lookups over the target's association tables,
// so the same rules serve a single-row check inside a transaction and a
// preloaded bulk filter over a search result.
package access

import "github.com/google/uuid"

// Lookup reports whether actor holds some association with the target,
// such as membership in a linked group or a direct invite.
type Lookup func(actor uuid.UUID) (bool, error)

// Policy is the visibility rule of a target, excluding the owner override.
type Policy interface {
	admits(actor *uuid.UUID) (bool, error)
}

// Public targets are visible to everyone, including anonymous callers.
type Public struct{}

func (Public) admits(*uuid.UUID) (bool, error) { return true, nil }

// GroupScoped targets are visible to members of any linked group.
// Invited, when set, is an alternate path used by group-limited sessions.
type GroupScoped struct {
	Member  Lookup
	Invited Lookup
}

func (p GroupScoped) admits(actor *uuid.UUID) (bool, error) {
	if actor == nil {
		return false, nil
	}
	if p.Member != nil {
		ok, err := p.Member(*actor)
		if err != nil || ok {
			return ok, err
		}
	}
	if p.Invited != nil {
		return p.Invited(*actor)
	}
	return false, nil
}

// InviteScoped targets are visible only to actors on the invite list.
type InviteScoped struct {
	Invited Lookup
}

func (p InviteScoped) admits(actor *uuid.UUID) (bool, error) {
	if actor == nil || p.Invited == nil {
		return false, nil
	}
	return p.Invited(*actor)
}

// Target is anything with an owner (host, organizer or group owner) and a policy.
type Target struct {
	OwnerID uuid.UUID
	Policy  Policy
}

// CanView reports whether actor may observe t. A nil actor is anonymous.
// The owner always sees their own target.
func CanView(t Target, actor *uuid.UUID) (bool, error) {
	if actor != nil && *actor == t.OwnerID {
		return true, nil
	}
	if t.Policy == nil {
		return false, nil
	}
	return t.Policy.admits(actor)
}

// IsPublic reports whether p admits anonymous actors.
func IsPublic(p Policy) bool {
	_, ok := p.(Public)
	return ok
}

// InSet builds a Lookup over a preloaded id set.
func InSet(set map[uuid.UUID]bool) Lookup {
	return func(actor uuid.UUID) (bool, error) {
		return set[actor], nil
	}
}

// Const is a Lookup with a fixed answer, for callers that already know it.
func Const(v bool) Lookup {
	return func(uuid.UUID) (bool, error) { return v, nil }
}
