package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/dto"
	"github.com/playbojio/playbojio-api/internal/models"
)

func TestProvisionIsIdempotent(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()

	u, err := f.users.Provision(id, "jamie@example.com", "")
	mustOK(t, err)
	if u.DisplayName != "jamie" || !u.IsProfilePublic {
		t.Errorf("provisioned: %+v", u)
	}

	again, err := f.users.Provision(id, "jamie@example.com", "Someone Else")
	mustOK(t, err)
	if again.DisplayName != "jamie" {
		t.Errorf("second provision renamed user to %q", again.DisplayName)
	}

	var n int64
	mustOK(t, f.db.Model(&models.User{}).Where("id = ?", id).Count(&n).Error)
	if n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}

	anon, err := f.users.Provision(uuid.New(), "", "  ")
	mustOK(t, err)
	if anon.DisplayName != "Player" {
		t.Errorf("fallback name = %q", anon.DisplayName)
	}
}

func TestProfilePrivacy(t *testing.T) {
	f := newFixture(t)
	a, b := f.user(t, "alice"), f.user(t, "bob")

	private := false
	name := "Alice P."
	_, err := f.users.UpdateMe(a, &dto.UpdateProfileRequest{DisplayName: &name, IsProfilePublic: &private})
	mustOK(t, err)

	seen, err := f.users.Get(a, &b)
	mustOK(t, err)
	if seen.Email != "" || seen.DisplayName != "Alice P." {
		t.Errorf("private profile leaked email or kept old name: %+v", seen)
	}
	self, err := f.users.Get(a, &a)
	mustOK(t, err)
	if self.Email == "" {
		t.Error("owner should see their own email")
	}

	_, err = f.users.Get(uuid.New(), nil)
	wantErr(t, err, ErrUserNotFound)
}

func TestUserSearch(t *testing.T) {
	f := newFixture(t)
	f.user(t, "Boardgame Ben")
	f.user(t, "boardwalk bea")
	f.user(t, "chess_carl")

	_, err := f.users.Search("b")
	wantErr(t, err, ErrQueryTooShort)

	got, err := f.users.Search("BOARD")
	mustOK(t, err)
	if len(got) != 2 {
		t.Errorf("matches = %d, want 2", len(got))
	}
	got, err = f.users.Search("s_c")
	mustOK(t, err)
	if len(got) != 1 {
		t.Errorf("underscore should match literally, got %d", len(got))
	}
}

func TestDeleteAccountCascadesAndPromotes(t *testing.T) {
	f := newFixture(t)
	host, leaving, queued, other := f.user(t, "host"), f.user(t, "leaving"), f.user(t, "queued"), f.user(t, "other")

	s := f.session(t, host, sessionRequest("Seat Swap", 1))
	_, err := f.sessions.Join(s.ID, leaving)
	mustOK(t, err)
	_, err = f.sessions.Join(s.ID, queued)
	mustOK(t, err)

	owned := f.session(t, leaving, sessionRequest("Doomed Session", 4))
	e := f.event(t, leaving, eventRequest("Doomed Event", nil))
	g := f.group(t, leaving, "Doomed Group", models.GroupPublic)
	mustOK(t, f.groups.Join(g.ID, other))
	mustOK(t, f.blocks.Add(other, leaving))
	_, err = f.friends.Send(leaving, host)
	mustOK(t, err)

	mustOK(t, f.users.DeleteAccount(leaving))
	wantErr(t, f.users.DeleteAccount(leaving), ErrUserNotFound)

	got, err := f.sessions.Get(s.ID, &queued)
	mustOK(t, err)
	if !got.IsUserAttending {
		t.Error("waitlisted user was not promoted into the freed seat")
	}

	_, err = f.sessions.Get(owned.ID, &host)
	wantErr(t, err, ErrSessionNotFound)
	_, err = f.events.Get(e.ID, &host)
	wantErr(t, err, ErrEventNotFound)
	_, err = f.groups.Get(g.ID, &other)
	wantErr(t, err, ErrGroupNotFound)

	for _, m := range []interface{}{&models.Blacklist{}, &models.FriendRequest{}, &models.GroupMember{}} {
		var n int64
		mustOK(t, f.db.Model(m).Count(&n).Error)
		if n != 0 {
			t.Errorf("%T rows left: %d", m, n)
		}
	}
}

func TestDeleteAccountClearsJoinRequestResponder(t *testing.T) {
	f := newFixture(t)
	owner, mod, applicant := f.user(t, "owner"), f.user(t, "mod"), f.user(t, "applicant")
	g := f.group(t, owner, "Quiet Club", models.GroupPrivate)

	inv, err := f.invites.Invite(g.ID, owner, mod)
	mustOK(t, err)
	mustOK(t, f.invites.Accept(inv.ID, mod))
	mustOK(t, f.groups.PromoteToAdmin(g.ID, owner, mod))

	req, err := f.requests.Create(g.ID, applicant)
	mustOK(t, err)
	mustOK(t, f.requests.Reject(req.ID, mod))

	mustOK(t, f.users.DeleteAccount(mod))

	var row models.GroupJoinRequest
	mustOK(t, f.db.First(&row, "id = ?", req.ID).Error)
	if row.RespondedByUserID != nil {
		t.Errorf("responded_by_user_id = %v, want nil", *row.RespondedByUserID)
	}
	if row.Status != models.RequestRejected {
		t.Errorf("status = %q, want rejected", row.Status)
	}
}
