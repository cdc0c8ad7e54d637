package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/playbojio/playbojio-api/internal/config"
	"github.com/playbojio/playbojio-api/internal/dto"
	"github.com/playbojio/playbojio-api/internal/handlers"
	"github.com/playbojio/playbojio-api/internal/models"
	"github.com/playbojio/playbojio-api/internal/services"
	"github.com/playbojio/playbojio-api/internal/testutil"
	"gorm.io/gorm"
)

type testServer struct {
	app *fiber.App
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{JWTSecret: testutil.JWTSecret, RateLimitPerMin: 1000, PageSize: 30}

	sessions := services.NewSessionService(db, cfg.PageSize)
	events := services.NewEventService(db, cfg.PageSize)
	groups := services.NewGroupService(db)
	users := services.NewUserService(db)
	h := Handlers{
		Health:    handlers.NewHealthHandler(db),
		Sessions:  handlers.NewSessionHandler(sessions),
		Events:    handlers.NewEventHandler(events),
		Groups:    handlers.NewGroupHandler(groups, services.NewGroupJoinRequestService(db), services.NewGroupInvitationService(db), sessions, events),
		Friends:   handlers.NewFriendHandler(services.NewFriendService(db)),
		Blacklist: handlers.NewBlacklistHandler(services.NewBlacklistService(db)),
		Users:     handlers.NewUserHandler(users),
		Admin:     handlers.NewAdminHandler(services.NewAdminService(db)),
	}

	app := fiber.New()
	Setup(app, cfg, db, users, h, nil)
	return &testServer{app: app, db: db}
}

// do sends a request as userID, or anonymously when userID is uuid.Nil, and
// decodes a JSON response into out when out is non-nil.
func (s *testServer) do(t *testing.T, method, path string, userID uuid.UUID, body, out interface{}) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req.Header.Set("Authorization", "Bearer "+testutil.Token(t, userID, userID.String()[:8]+"@example.com"))
	}

	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func sessionBody(title string, max int, visibility models.SessionVisibility) map[string]interface{} {
	return map[string]interface{}{
		"title":         title,
		"session_type":  models.SessionStandalone,
		"location":      "Bugis",
		"location_type": models.LocationHome,
		"start_time":    time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339),
		"primary_game":  "Azul",
		"min_players":   1,
		"max_players":   max,
		"visibility":    visibility,
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	var out dto.HealthResponse
	if code := s.do(t, http.MethodGet, "/api/health", uuid.Nil, nil, &out); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if out.Status != "ok" || out.DB != "ok" {
		t.Errorf("health: %+v", out)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/sessions"},
		{http.MethodGet, "/api/users/me"},
		{http.MethodGet, "/api/friends"},
		{http.MethodGet, "/api/blacklist"},
		{http.MethodGet, "/api/groups/mine"},
	}
	for _, tt := range tests {
		if code := s.do(t, tt.method, tt.path, uuid.Nil, nil, nil); code != http.StatusUnauthorized {
			t.Errorf("%s %s = %d, want 401", tt.method, tt.path, code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad token on public route = %d, want 401", resp.StatusCode)
	}
}

func TestFirstRequestProvisionsProfile(t *testing.T) {
	s := newTestServer(t)
	id := uuid.New()

	var me dto.ProfileResponse
	if code := s.do(t, http.MethodGet, "/api/users/me", id, nil, &me); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if me.ID != id || me.DisplayName == "" {
		t.Errorf("profile: %+v", me)
	}

	var n int64
	s.db.Model(&models.User{}).Where("id = ?", id).Count(&n)
	if n != 1 {
		t.Errorf("users = %d, want 1", n)
	}
}

func TestSessionJoinOverHTTP(t *testing.T) {
	s := newTestServer(t)
	host, u1, u2 := uuid.New(), uuid.New(), uuid.New()

	var created dto.SessionResponse
	if code := s.do(t, http.MethodPost, "/api/sessions", host, sessionBody("Azul Evening", 1, models.SessionPublic), &created); code != http.StatusCreated {
		t.Fatalf("create = %d", code)
	}
	path := "/api/sessions/" + created.ID.String()

	var got dto.SessionResponse
	if code := s.do(t, http.MethodGet, path, uuid.Nil, nil, &got); code != http.StatusOK {
		t.Fatalf("anonymous get = %d", code)
	}
	if code := s.do(t, http.MethodGet, "/api/sessions/slug/azul-evening", uuid.Nil, nil, nil); code != http.StatusOK {
		t.Errorf("get by slug = %d", code)
	}

	for _, tc := range []struct {
		user uuid.UUID
		want string
	}{{u1, "joined"}, {u2, "waitlisted"}} {
		var jr dto.JoinResponse
		if code := s.do(t, http.MethodPost, path+"/join", tc.user, nil, &jr); code != http.StatusOK {
			t.Fatalf("join = %d", code)
		}
		if jr.Status != tc.want {
			t.Errorf("join status = %q, want %q", jr.Status, tc.want)
		}
	}

	var er dto.ErrorResponse
	if code := s.do(t, http.MethodPost, path+"/join", u1, nil, &er); code != http.StatusBadRequest || !er.Error {
		t.Errorf("double join = %d %+v", code, er)
	}
	if code := s.do(t, http.MethodPost, path+"/leave", host, nil, nil); code != http.StatusBadRequest {
		t.Errorf("host leave = %d, want 400", code)
	}

	var lr dto.LeaveResponse
	if code := s.do(t, http.MethodPost, path+"/leave", u1, nil, &lr); code != http.StatusOK {
		t.Fatalf("leave = %d", code)
	}
	if lr.PromotedID == nil || *lr.PromotedID != u2 {
		t.Errorf("promoted = %v, want %v", lr.PromotedID, u2)
	}
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)
	host, outsider := uuid.New(), uuid.New()

	var hidden dto.SessionResponse
	s.do(t, http.MethodPost, "/api/sessions", host, sessionBody("Secret Game", 4, models.SessionInviteOnly), &hidden)

	overbooked := sessionBody("Overbooked", 4, models.SessionPublic)
	overbooked["reserved_slots"] = 5

	tests := []struct {
		name   string
		method string
		path   string
		user   uuid.UUID
		body   interface{}
		want   int
	}{
		{"malformed id", http.MethodGet, "/api/sessions/not-a-uuid", uuid.Nil, nil, http.StatusBadRequest},
		{"unknown session", http.MethodGet, "/api/sessions/" + uuid.NewString(), uuid.Nil, nil, http.StatusNotFound},
		{"hidden session", http.MethodGet, "/api/sessions/" + hidden.ID.String(), outsider, nil, http.StatusNotFound},
		{"join hidden session", http.MethodPost, "/api/sessions/" + hidden.ID.String() + "/join", outsider, nil, http.StatusForbidden},
		{"invalid body", http.MethodPost, "/api/sessions", host, map[string]interface{}{"title": ""}, http.StatusBadRequest},
		{"reserved over capacity", http.MethodPost, "/api/sessions", host, overbooked, http.StatusBadRequest},
		{"short user search", http.MethodGet, "/api/users/search?q=a", uuid.Nil, nil, http.StatusBadRequest},
		{"self blacklist", http.MethodPost, "/api/blacklist/" + host.String(), host, nil, http.StatusBadRequest},
		{"non-admin", http.MethodGet, "/api/admin/users", outsider, nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := s.do(t, tt.method, tt.path, tt.user, tt.body, nil); code != tt.want {
				t.Errorf("status = %d, want %d", code, tt.want)
			}
		})
	}
}

func TestAdminModeration(t *testing.T) {
	s := newTestServer(t)
	admin, host := uuid.New(), uuid.New()

	if code := s.do(t, http.MethodGet, "/api/users/me", admin, nil, nil); code != http.StatusOK {
		t.Fatalf("provision admin = %d", code)
	}
	if err := s.db.Model(&models.User{}).Where("id = ?", admin).Update("role", models.RoleAdmin).Error; err != nil {
		t.Fatal(err)
	}

	var created dto.SessionResponse
	if code := s.do(t, http.MethodPost, "/api/sessions", host, sessionBody("Azul Evening", 4, models.SessionPublic), &created); code != http.StatusCreated {
		t.Fatalf("create = %d", code)
	}
	path := "/api/admin/sessions/" + created.ID.String()

	if code := s.do(t, http.MethodDelete, path, host, nil, nil); code != http.StatusForbidden {
		t.Errorf("host delete via admin route = %d, want 403", code)
	}
	if code := s.do(t, http.MethodDelete, path, admin, nil, nil); code != http.StatusOK {
		t.Fatalf("admin delete = %d", code)
	}
	if code := s.do(t, http.MethodGet, "/api/sessions/"+created.ID.String(), uuid.Nil, nil, nil); code != http.StatusNotFound {
		t.Errorf("get deleted session = %d, want 404", code)
	}
	if code := s.do(t, http.MethodDelete, path, admin, nil, nil); code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", code)
	}
	for _, p := range []string{"/api/admin/events/", "/api/admin/groups/"} {
		if code := s.do(t, http.MethodDelete, p+uuid.NewString(), admin, nil, nil); code != http.StatusNotFound {
			t.Errorf("delete unknown %s = %d, want 404", p, code)
		}
	}

	var regen dto.RegenerateSlugsResponse
	if code := s.do(t, http.MethodPost, "/api/admin/regenerate-slugs", admin, nil, &regen); code != http.StatusOK {
		t.Fatalf("regenerate = %d", code)
	}
	if regen.SessionsUpdated != 0 || regen.EventsUpdated != 0 {
		t.Errorf("regenerate = %+v", regen)
	}
}
