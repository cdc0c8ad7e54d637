package services

import (
	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/access"
	"github.com/playbojio/playbojio-api/internal/models"
	"gorm.io/gorm"
)

// associations answers the two questions the visibility policies ask about a
// target: is the actor in one of its linked groups, and was the actor invited.
type associations interface {
	groupMember(targetID uuid.UUID) access.Lookup
	invited(targetID uuid.UUID) access.Lookup
}

type linkTable struct {
	table  string
	column string
}

var (
	sessionLinks = struct{ groups, invites linkTable }{
		groups:  linkTable{"session_groups", "session_id"},
		invites: linkTable{"session_invites", "session_id"},
	}
	eventLinks = struct{ groups, invites linkTable }{
		groups:  linkTable{"event_groups", "event_id"},
		invites: linkTable{"event_invites", "event_id"},
	}
)

// liveAssociations queries the store on each lookup. Used for single-target
// checks, inside the caller's transaction when there is one.
type liveAssociations struct {
	tx      *gorm.DB
	groups  linkTable
	invites linkTable
}

func (a liveAssociations) groupMember(targetID uuid.UUID) access.Lookup {
	return func(actor uuid.UUID) (bool, error) {
		linked := a.tx.Table(a.groups.table).Select("group_id").Where(a.groups.column+" = ?", targetID)
		return exists(a.tx, &models.GroupMember{}, "user_id = ? AND group_id IN (?)", actor, linked)
	}
}

func (a liveAssociations) invited(targetID uuid.UUID) access.Lookup {
	return func(actor uuid.UUID) (bool, error) {
		return existsIn(a.tx, a.invites.table, a.invites.column+" = ? AND user_id = ?", targetID, actor)
	}
}

// indexedAssociations answers from sets preloaded for one actor across many
// targets, so filtering a search page costs three queries instead of 3N.
type indexedAssociations struct {
	invitedTo    map[uuid.UUID]bool
	targetGroups map[uuid.UUID][]uuid.UUID
	actorGroups  map[uuid.UUID]bool
}

func (ix indexedAssociations) groupMember(targetID uuid.UUID) access.Lookup {
	return func(uuid.UUID) (bool, error) {
		for _, g := range ix.targetGroups[targetID] {
			if ix.actorGroups[g] {
				return true, nil
			}
		}
		return false, nil
	}
}

func (ix indexedAssociations) invited(targetID uuid.UUID) access.Lookup {
	return access.Const(ix.invitedTo[targetID])
}

type groupLink struct {
	TargetID uuid.UUID
	GroupID  uuid.UUID
}

func loadIndex(tx *gorm.DB, links struct{ groups, invites linkTable }, actor uuid.UUID, targetIDs []uuid.UUID) (indexedAssociations, error) {
	ix := indexedAssociations{targetGroups: map[uuid.UUID][]uuid.UUID{}}
	if len(targetIDs) == 0 {
		return ix, nil
	}

	invited, err := pluckIDs(tx, links.invites.table, links.invites.column,
		links.invites.column+" IN ? AND user_id = ?", targetIDs, actor)
	if err != nil {
		return ix, err
	}
	ix.invitedTo = idSet(invited)

	var rows []groupLink
	err = tx.Table(links.groups.table).
		Select(links.groups.column+" AS target_id, group_id").
		Where(links.groups.column+" IN ?", targetIDs).
		Scan(&rows).Error
	if err != nil {
		return ix, err
	}
	for _, r := range rows {
		ix.targetGroups[r.TargetID] = append(ix.targetGroups[r.TargetID], r.GroupID)
	}

	groups, err := pluckIDs(tx, "group_members", "group_id", "user_id = ?", actor)
	if err != nil {
		return ix, err
	}
	ix.actorGroups = idSet(groups)
	return ix, nil
}

func sessionTarget(s *models.Session, a associations) access.Target {
	var policy access.Policy
	switch s.Visibility {
	case models.SessionPublic:
		policy = access.Public{}
	case models.SessionGroupLimited:
		policy = access.GroupScoped{Member: a.groupMember(s.ID), Invited: a.invited(s.ID)}
	case models.SessionInviteOnly:
		policy = access.InviteScoped{Invited: a.invited(s.ID)}
	}
	return access.Target{OwnerID: s.HostID, Policy: policy}
}

func eventTarget(e *models.Event, a associations) access.Target {
	var policy access.Policy
	switch e.Visibility {
	case models.EventPublic:
		policy = access.Public{}
	case models.EventGroupOnly:
		policy = access.GroupScoped{Member: a.groupMember(e.ID)}
	case models.EventInviteOnly:
		policy = access.InviteScoped{Invited: a.invited(e.ID)}
	}
	return access.Target{OwnerID: e.OrganizerID, Policy: policy}
}

// groupTarget treats a private group's roster as its invite list: members and
// users holding a pending invitation may see it.
func groupTarget(tx *gorm.DB, g *models.Group) access.Target {
	if g.Visibility == models.GroupPublic {
		return access.Target{OwnerID: g.OwnerID, Policy: access.Public{}}
	}
	return access.Target{OwnerID: g.OwnerID, Policy: access.InviteScoped{
		Invited: func(actor uuid.UUID) (bool, error) {
			member, err := exists(tx, &models.GroupMember{}, "group_id = ? AND user_id = ?", g.ID, actor)
			if err != nil || member {
				return member, err
			}
			return exists(tx, &models.GroupInvitation{}, "group_id = ? AND invited_user_id = ? AND status = ?",
				g.ID, actor, models.RequestPending)
		},
	}}
}

// filterVisible keeps the items whose target actor may view.
func filterVisible[T any](items []T, actor *uuid.UUID, target func(T) access.Target) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, it := range items {
		ok, err := access.CanView(target(it), actor)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, it)
		}
	}
	return out, nil
}
