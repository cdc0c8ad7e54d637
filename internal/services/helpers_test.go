package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/dto"
	"github.com/playbojio/playbojio-api/internal/models"
	"github.com/playbojio/playbojio-api/internal/testutil"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	sessions *SessionService
	events   *EventService
	groups   *GroupService
	requests *GroupJoinRequestService
	invites  *GroupInvitationService
	friends  *FriendService
	blocks   *BlacklistService
	users    *UserService
	admin    *AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	return &fixture{
		db:       db,
		sessions: NewSessionService(db, 30),
		events:   NewEventService(db, 30),
		groups:   NewGroupService(db),
		requests: NewGroupJoinRequestService(db),
		invites:  NewGroupInvitationService(db),
		friends:  NewFriendService(db),
		blocks:   NewBlacklistService(db),
		users:    NewUserService(db),
		admin:    NewAdminService(db),
	}
}

func (f *fixture) user(t *testing.T, name string) uuid.UUID {
	t.Helper()
	return testutil.NewUser(t, f.db, name).ID
}

func sessionRequest(title string, max int) *dto.SessionRequest {
	return &dto.SessionRequest{
		Title:        title,
		SessionType:  models.SessionStandalone,
		Location:     "Tiong Bahru",
		LocationType: models.LocationCafe,
		StartTime:    time.Now().UTC().Add(48 * time.Hour),
		PrimaryGame:  "Catan",
		MinPlayers:   1,
		MaxPlayers:   max,
		Visibility:   models.SessionPublic,
	}
}

func (f *fixture) session(t *testing.T, host uuid.UUID, req *dto.SessionRequest) *dto.SessionResponse {
	t.Helper()
	s, err := f.sessions.Create(host, req)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return s
}

func eventRequest(name string, max *int) *dto.EventRequest {
	start := time.Now().UTC().Add(72 * time.Hour)
	return &dto.EventRequest{
		Name:            name,
		StartDate:       start,
		EndDate:         start.Add(6 * time.Hour),
		Location:        "Suntec",
		MaxParticipants: max,
		Visibility:      models.EventPublic,
	}
}

func (f *fixture) event(t *testing.T, organizer uuid.UUID, req *dto.EventRequest) *dto.EventResponse {
	t.Helper()
	e, err := f.events.Create(organizer, req)
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return e
}

func (f *fixture) group(t *testing.T, owner uuid.UUID, name string, vis models.GroupVisibility) *dto.GroupResponse {
	t.Helper()
	g, err := f.groups.Create(owner, &dto.GroupRequest{Name: name, Visibility: vis})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	return g
}

func intPtr(n int) *int { return &n }

func wantErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
}

func mustOK(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
