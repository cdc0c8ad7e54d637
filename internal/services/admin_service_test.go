package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/models"
)

func countRows(t *testing.T, f *fixture, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

func TestAdminDeleteSession(t *testing.T) {
	f := newFixture(t)
	host, player := f.user(t, "host"), f.user(t, "player")
	s := f.session(t, host, sessionRequest("Catan Night", 4))
	_, err := f.sessions.Join(s.ID, player)
	mustOK(t, err)

	mustOK(t, f.admin.DeleteSession(s.ID))

	if n := countRows(t, f, &models.Session{}, "id = ?", s.ID); n != 0 {
		t.Errorf("session still present")
	}
	if n := countRows(t, f, &models.SessionAttendee{}, "session_id = ?", s.ID); n != 0 {
		t.Errorf("%d attendee rows left", n)
	}
	wantErr(t, f.admin.DeleteSession(s.ID), ErrSessionNotFound)
}

func TestAdminDeleteEventTakesItsSessions(t *testing.T) {
	f := newFixture(t)
	org, attendee := f.user(t, "org"), f.user(t, "attendee")
	e := f.event(t, org, eventRequest("Board Game Con", nil))
	mustOK(t, f.events.Join(e.ID, attendee))

	req := sessionRequest("Con Table 1", 4)
	req.SessionType = models.SessionForEvent
	req.EventID = &e.ID
	s := f.session(t, org, req)
	standalone := f.session(t, org, sessionRequest("Catan Night", 4))

	mustOK(t, f.admin.DeleteEvent(e.ID))

	if n := countRows(t, f, &models.Event{}, "id = ?", e.ID); n != 0 {
		t.Errorf("event still present")
	}
	if n := countRows(t, f, &models.EventAttendee{}, "event_id = ?", e.ID); n != 0 {
		t.Errorf("%d event attendee rows left", n)
	}
	if n := countRows(t, f, &models.Session{}, "id = ?", s.ID); n != 0 {
		t.Errorf("event session still present")
	}
	if n := countRows(t, f, &models.Session{}, "id = ?", standalone.ID); n != 1 {
		t.Errorf("standalone session was removed")
	}
	wantErr(t, f.admin.DeleteEvent(uuid.New()), ErrEventNotFound)
}

func TestAdminDeleteGroup(t *testing.T) {
	f := newFixture(t)
	owner, member := f.user(t, "owner"), f.user(t, "member")
	g := f.group(t, owner, "Meeples", models.GroupPublic)
	mustOK(t, f.groups.Join(g.ID, member))

	mustOK(t, f.admin.DeleteGroup(g.ID))

	if n := countRows(t, f, &models.Group{}, "id = ?", g.ID); n != 0 {
		t.Errorf("group still present")
	}
	if n := countRows(t, f, &models.GroupMember{}, "group_id = ?", g.ID); n != 0 {
		t.Errorf("%d member rows left", n)
	}
	wantErr(t, f.admin.DeleteGroup(g.ID), ErrGroupNotFound)
}

func TestAdminRegenerateSlugs(t *testing.T) {
	f := newFixture(t)
	host := f.user(t, "host")
	f.session(t, host, sessionRequest("Catan Night", 4))
	bare := f.session(t, host, sessionRequest("Catan Night", 4))
	e := f.event(t, host, eventRequest("Spring Fest", nil))

	mustOK(t, f.db.Model(&models.Session{}).Where("id = ?", bare.ID).Update("slug", "").Error)
	mustOK(t, f.db.Model(&models.Event{}).Where("id = ?", e.ID).Update("slug", "").Error)

	resp, err := f.admin.RegenerateSlugs()
	mustOK(t, err)
	if resp.SessionsUpdated != 1 || resp.EventsUpdated != 1 {
		t.Fatalf("updated %d sessions, %d events", resp.SessionsUpdated, resp.EventsUpdated)
	}
	if resp.Sessions[0].ID != bare.ID || resp.Sessions[0].Slug != "catan-night-1" {
		t.Errorf("session change = %+v", resp.Sessions[0])
	}
	if resp.Events[0].Slug != "spring-fest" {
		t.Errorf("event change = %+v", resp.Events[0])
	}

	got, err := f.sessions.GetBySlug("catan-night-1", nil)
	mustOK(t, err)
	if got.ID != bare.ID {
		t.Errorf("slug lookup returned %v", got.ID)
	}

	again, err := f.admin.RegenerateSlugs()
	mustOK(t, err)
	if again.SessionsUpdated != 0 || again.EventsUpdated != 0 {
		t.Errorf("second run updated %d sessions, %d events", again.SessionsUpdated, again.EventsUpdated)
	}
}
