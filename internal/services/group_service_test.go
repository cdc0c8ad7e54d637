package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/access"
	"github.com/playbojio/playbojio-api/internal/models"
)

func TestGroupCreateMakesOwnerAdmin(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	g := f.group(t, owner, "Meeple Club", models.GroupPublic)

	if !g.IsOwner || !g.IsAdmin || !g.IsMember || g.MemberCount != 1 {
		t.Errorf("owner flags: %+v", g)
	}
}

func TestGroupJoinPublicAndPrivate(t *testing.T) {
	f := newFixture(t)
	owner, u1 := f.user(t, "owner"), f.user(t, "u1")
	pub := f.group(t, owner, "Open Table", models.GroupPublic)
	priv := f.group(t, owner, "Inner Circle", models.GroupPrivate)

	mustOK(t, f.groups.Join(pub.ID, u1))
	wantErr(t, f.groups.Join(pub.ID, u1), access.ErrAlreadyMember)
	wantErr(t, f.groups.Join(priv.ID, u1), access.ErrApprovalRequired)

	mustOK(t, f.groups.Leave(pub.ID, u1))
	wantErr(t, f.groups.Leave(pub.ID, u1), ErrNotMember)
	wantErr(t, f.groups.Leave(pub.ID, owner), ErrOwnerCannotLeave)
}

func TestPrivateGroupHiddenFromOutsiders(t *testing.T) {
	f := newFixture(t)
	owner, outsider, invitee := f.user(t, "owner"), f.user(t, "outsider"), f.user(t, "invitee")
	priv := f.group(t, owner, "Secret Society", models.GroupPrivate)

	_, err := f.groups.Get(priv.ID, &outsider)
	wantErr(t, err, ErrGroupNotFound)
	_, err = f.groups.Get(priv.ID, nil)
	wantErr(t, err, ErrGroupNotFound)

	_, err = f.invites.Invite(priv.ID, owner, invitee)
	mustOK(t, err)
	_, err = f.groups.Get(priv.ID, &invitee)
	mustOK(t, err)

	list, err := f.groups.ListPublic("", &outsider)
	mustOK(t, err)
	if len(list) != 0 {
		t.Errorf("private group listed publicly")
	}
}

func TestJoinRequestApproveFlow(t *testing.T) {
	f := newFixture(t)
	owner, u1, u2 := f.user(t, "owner"), f.user(t, "u1"), f.user(t, "u2")
	priv := f.group(t, owner, "Invite Club", models.GroupPrivate)
	pub := f.group(t, owner, "Open Club", models.GroupPublic)

	_, err := f.requests.Create(pub.ID, u1)
	wantErr(t, err, ErrGroupIsPublic)

	req, err := f.requests.Create(priv.ID, u1)
	mustOK(t, err)
	_, err = f.requests.Create(priv.ID, u1)
	wantErr(t, err, ErrRequestPending)

	pending, err := f.requests.ListForGroup(priv.ID, owner)
	mustOK(t, err)
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}
	_, err = f.requests.ListForGroup(priv.ID, u2)
	wantErr(t, err, ErrNotGroupAdmin)

	wantErr(t, f.requests.Approve(req.ID, u2), ErrNotGroupAdmin)
	mustOK(t, f.requests.Approve(req.ID, owner))
	wantErr(t, f.requests.Approve(req.ID, owner), ErrNotPending)

	g, err := f.groups.Get(priv.ID, &u1)
	mustOK(t, err)
	if !g.IsMember {
		t.Error("approved user should be a member")
	}

	_, err = f.requests.Create(priv.ID, u1)
	wantErr(t, err, ErrAlreadyMember)

	rejected, err := f.requests.Create(priv.ID, u2)
	mustOK(t, err)
	mustOK(t, f.requests.Reject(rejected.ID, owner))
	mine, err := f.requests.ListMine(u2)
	mustOK(t, err)
	if len(mine) != 1 || mine[0].Status != models.RequestRejected {
		t.Errorf("u2 requests: %+v", mine)
	}
}

func TestInvitationAcceptAndDecline(t *testing.T) {
	f := newFixture(t)
	owner, u1, u2, stranger := f.user(t, "owner"), f.user(t, "u1"), f.user(t, "u2"), f.user(t, "stranger")
	priv := f.group(t, owner, "Guild", models.GroupPrivate)

	inv, err := f.invites.Invite(priv.ID, owner, u1)
	mustOK(t, err)
	_, err = f.invites.Invite(priv.ID, owner, u1)
	wantErr(t, err, ErrInvitationPending)
	_, err = f.invites.Invite(priv.ID, stranger, u2)
	wantErr(t, err, ErrNotGroupAdmin)

	mine, err := f.invites.ListMine(u1)
	mustOK(t, err)
	if len(mine) != 1 || mine[0].GroupName != "Guild" {
		t.Fatalf("u1 invitations: %+v", mine)
	}

	wantErr(t, f.invites.Accept(inv.ID, u2), ErrNotRecipient)
	mustOK(t, f.invites.Accept(inv.ID, u1))
	wantErr(t, f.invites.Accept(inv.ID, u1), ErrNotPending)

	members, err := f.groups.Members(priv.ID, &owner)
	mustOK(t, err)
	if len(members) != 2 || !members[0].IsAdmin || members[1].UserID != u1 {
		t.Errorf("members: %+v", members)
	}

	declined, err := f.invites.Invite(priv.ID, owner, u2)
	mustOK(t, err)
	mustOK(t, f.invites.Decline(declined.ID, u2))
	g, err := f.groups.Get(priv.ID, &owner)
	mustOK(t, err)
	if g.MemberCount != 2 {
		t.Errorf("member count = %d, want 2", g.MemberCount)
	}

	cancelled, err := f.invites.Invite(priv.ID, owner, stranger)
	mustOK(t, err)
	mustOK(t, f.invites.Cancel(cancelled.ID, owner))
	wantErr(t, f.invites.Accept(cancelled.ID, stranger), ErrInvitationNotFound)
}

func TestInvitationAcceptRespectsLaterBlacklist(t *testing.T) {
	f := newFixture(t)
	owner, u1 := f.user(t, "owner"), f.user(t, "u1")
	g := f.group(t, owner, "Blocked Out", models.GroupPrivate)

	inv, err := f.invites.Invite(g.ID, owner, u1)
	mustOK(t, err)
	mustOK(t, f.groups.AddToBlacklist(g.ID, owner, u1, nil))

	// the blacklist clears the pending invitation
	wantErr(t, f.invites.Accept(inv.ID, u1), ErrInvitationNotFound)
	_, err = f.invites.Invite(g.ID, owner, u1)
	wantErr(t, err, access.ErrBlacklisted)
}

func TestGroupBlacklistRemovesMembership(t *testing.T) {
	f := newFixture(t)
	owner, admin, u1 := f.user(t, "owner"), f.user(t, "admin"), f.user(t, "u1")
	g := f.group(t, owner, "Strict Club", models.GroupPublic)
	mustOK(t, f.groups.Join(g.ID, admin))
	mustOK(t, f.groups.Join(g.ID, u1))
	mustOK(t, f.groups.PromoteToAdmin(g.ID, owner, admin))

	mustOK(t, f.groups.AddToBlacklist(g.ID, admin, u1, nil))
	wantErr(t, f.groups.AddToBlacklist(g.ID, admin, u1, nil), ErrAlreadyBlacklisted)
	wantErr(t, f.groups.AddToBlacklist(g.ID, admin, owner, nil), ErrCannotBlacklistOwner)
	wantErr(t, f.groups.AddToBlacklist(g.ID, admin, admin, nil), ErrSelfBlacklist)

	got, err := f.groups.Get(g.ID, &u1)
	mustOK(t, err)
	if got.IsMember {
		t.Error("blacklisted user is still a member")
	}
	wantErr(t, f.groups.Join(g.ID, u1), access.ErrBlacklisted)

	list, err := f.groups.Blacklist(g.ID, admin)
	mustOK(t, err)
	if len(list) != 1 || list[0].UserID != u1 {
		t.Errorf("blacklist: %+v", list)
	}

	mustOK(t, f.groups.RemoveFromBlacklist(g.ID, owner, u1))
	mustOK(t, f.groups.Join(g.ID, u1))
}

func TestGroupMemberManagement(t *testing.T) {
	f := newFixture(t)
	owner, admin, u1 := f.user(t, "owner"), f.user(t, "admin"), f.user(t, "u1")
	g := f.group(t, owner, "Roster", models.GroupPublic)
	mustOK(t, f.groups.Join(g.ID, admin))
	mustOK(t, f.groups.Join(g.ID, u1))

	wantErr(t, f.groups.PromoteToAdmin(g.ID, admin, u1), ErrNotOwner)
	mustOK(t, f.groups.PromoteToAdmin(g.ID, owner, admin))
	mustOK(t, f.groups.PromoteToAdmin(g.ID, owner, admin))
	wantErr(t, f.groups.PromoteToAdmin(g.ID, owner, f.user(t, "nobody")), ErrNotMember)

	wantErr(t, f.groups.RemoveMember(g.ID, u1, admin), ErrNotGroupAdmin)
	wantErr(t, f.groups.RemoveMember(g.ID, admin, owner), ErrCannotRemoveOwner)
	mustOK(t, f.groups.RemoveMember(g.ID, admin, u1))
	wantErr(t, f.groups.RemoveMember(g.ID, admin, u1), ErrNotMember)

	mine, err := f.groups.ListMine(admin)
	mustOK(t, err)
	if len(mine) != 1 || !mine[0].IsAdmin {
		t.Errorf("admin groups: %+v", mine)
	}
}

func TestGroupDeleteKeepsLinkedSessions(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	g := f.group(t, owner, "Short Lived", models.GroupPublic)

	req := sessionRequest("Linked Session", 4)
	req.Visibility = models.SessionGroupLimited
	req.GroupIDs = []uuid.UUID{g.ID}
	s := f.session(t, owner, req)

	wantErr(t, f.groups.Delete(g.ID, f.user(t, "other")), ErrNotOwner)
	mustOK(t, f.groups.Delete(g.ID, owner))

	_, err := f.groups.Get(g.ID, &owner)
	wantErr(t, err, ErrGroupNotFound)
	got, err := f.sessions.Get(s.ID, &owner)
	mustOK(t, err)
	if len(got.GroupIDs) != 0 {
		t.Errorf("session still linked to %v", got.GroupIDs)
	}
}
