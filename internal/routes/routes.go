package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/playbojio/playbojio-api/internal/config"
	"github.com/playbojio/playbojio-api/internal/handlers"
	"github.com/playbojio/playbojio-api/internal/middleware"
	"gorm.io/gorm"
)

type Handlers struct {
	Health    *handlers.HealthHandler
	Sessions  *handlers.SessionHandler
	Events    *handlers.EventHandler
	Groups    *handlers.GroupHandler
	Friends   *handlers.FriendHandler
	Blacklist *handlers.BlacklistHandler
	Users     *handlers.UserHandler
	Admin     *handlers.AdminHandler
}

// Setup mounts every route under /api. Every request passes optional JWT
// verification and profile provisioning; routes that need a caller add
// JWTProtected. A nil storage keeps rate-limit counters in memory.
func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	provisioner middleware.Provisioner,
	h Handlers,
	storage fiber.Storage,
) {
	api := app.Group("/api")

	api.Get("/health", h.Health.Check)

	api.Use(middleware.JWTOptional(cfg), middleware.EnsureUser(provisioner))
	api.Use(limiter.New(limiter.Config{
		Max:               cfg.RateLimitPerMin,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		Storage:           storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			if id, ok := c.Locals("user_id").(string); ok {
				return "user:" + id
			}
			return "ip:" + c.IP()
		},
	}))

	auth := middleware.JWTProtected(cfg)

	// Sessions
	sessions := api.Group("/sessions")
	sessions.Get("/", h.Sessions.Search)
	sessions.Get("/mine/hosted", auth, h.Sessions.ListHosted)
	sessions.Get("/mine/attending", auth, h.Sessions.ListAttending)
	sessions.Get("/slug/:slug", h.Sessions.GetBySlug)
	sessions.Get("/event/:eventId", h.Sessions.ListForEvent)
	sessions.Get("/:id", h.Sessions.Get)
	sessions.Get("/:id/attendees", h.Sessions.Attendees)
	sessions.Get("/:id/waitlist", h.Sessions.Waitlist)
	sessions.Get("/:id/groups", h.Sessions.Groups)
	sessions.Post("/", auth, h.Sessions.Create)
	sessions.Put("/:id", auth, h.Sessions.Update)
	sessions.Delete("/:id", auth, h.Sessions.Cancel)
	sessions.Post("/:id/join", auth, h.Sessions.Join)
	sessions.Post("/:id/leave", auth, h.Sessions.Leave)
	sessions.Put("/:id/attendees/:userId/attendance", auth, h.Sessions.MarkAttendance)

	// Events
	events := api.Group("/events")
	events.Get("/", h.Events.Search)
	events.Get("/mine/organized", auth, h.Events.ListOrganized)
	events.Get("/mine/attending", auth, h.Events.ListAttending)
	events.Get("/slug/:slug", h.Events.GetBySlug)
	events.Get("/:id", h.Events.Get)
	events.Get("/:id/groups", h.Events.Groups)
	events.Get("/:id/attendees", auth, h.Events.Attendees)
	events.Post("/", auth, h.Events.Create)
	events.Put("/:id", auth, h.Events.Update)
	events.Delete("/:id", auth, h.Events.Cancel)
	events.Post("/:id/join", auth, h.Events.Join)
	events.Post("/:id/leave", auth, h.Events.Leave)
	events.Get("/:id/blacklist", auth, h.Events.Blacklist)
	events.Post("/:id/blacklist/:userId", auth, h.Events.AddToBlacklist)
	events.Delete("/:id/blacklist/:userId", auth, h.Events.RemoveFromBlacklist)

	// Groups
	groups := api.Group("/groups")
	groups.Get("/", h.Groups.ListPublic)
	groups.Get("/mine", auth, h.Groups.ListMine)
	groups.Get("/join-requests/mine", auth, h.Groups.MyJoinRequests)
	groups.Post("/join-requests/:requestId/approve", auth, h.Groups.ApproveRequest)
	groups.Post("/join-requests/:requestId/reject", auth, h.Groups.RejectRequest)
	groups.Get("/invitations/mine", auth, h.Groups.MyInvitations)
	groups.Post("/invitations/:invitationId/accept", auth, h.Groups.AcceptInvitation)
	groups.Post("/invitations/:invitationId/decline", auth, h.Groups.DeclineInvitation)
	groups.Delete("/invitations/:invitationId", auth, h.Groups.CancelInvitation)
	groups.Get("/:id", h.Groups.Get)
	groups.Get("/:id/members", h.Groups.Members)
	groups.Post("/", auth, h.Groups.Create)
	groups.Put("/:id", auth, h.Groups.Update)
	groups.Delete("/:id", auth, h.Groups.Delete)
	groups.Post("/:id/join", auth, h.Groups.Join)
	groups.Post("/:id/leave", auth, h.Groups.Leave)
	groups.Delete("/:id/members/:userId", auth, h.Groups.RemoveMember)
	groups.Post("/:id/members/:userId/promote", auth, h.Groups.PromoteToAdmin)
	groups.Get("/:id/sessions", auth, h.Groups.Sessions)
	groups.Get("/:id/events", auth, h.Groups.Events)
	groups.Get("/:id/blacklist", auth, h.Groups.Blacklist)
	groups.Post("/:id/blacklist/:userId", auth, h.Groups.AddToBlacklist)
	groups.Delete("/:id/blacklist/:userId", auth, h.Groups.RemoveFromBlacklist)
	groups.Post("/:id/join-requests", auth, h.Groups.RequestToJoin)
	groups.Get("/:id/join-requests", auth, h.Groups.JoinRequests)
	groups.Post("/:id/invitations", auth, h.Groups.Invite)
	groups.Get("/:id/invitations", auth, h.Groups.Invitations)

	// Friends
	friends := api.Group("/friends", auth)
	friends.Get("/", h.Friends.List)
	friends.Get("/requests/sent", h.Friends.ListSent)
	friends.Get("/requests/received", h.Friends.ListReceived)
	friends.Post("/requests/:receiverId", h.Friends.Send)
	friends.Post("/requests/:requestId/accept", h.Friends.Accept)
	friends.Post("/requests/:requestId/reject", h.Friends.Reject)
	friends.Delete("/requests/:requestId", h.Friends.Cancel)
	friends.Delete("/:friendId", h.Friends.Remove)

	// Global blacklist
	blacklist := api.Group("/blacklist", auth)
	blacklist.Get("/", h.Blacklist.List)
	blacklist.Post("/:userId", h.Blacklist.Add)
	blacklist.Delete("/:userId", h.Blacklist.Remove)

	// Users
	users := api.Group("/users")
	users.Get("/me", auth, h.Users.Me)
	users.Put("/me", auth, h.Users.UpdateMe)
	users.Delete("/me", auth, h.Users.DeleteMe)
	users.Get("/search", h.Users.Search)
	users.Get("/:id", h.Users.Get)

	// Admin
	admin := api.Group("/admin", auth, middleware.AdminRequired(db, cfg))
	admin.Get("/users", h.Users.AdminList)
	admin.Delete("/users/:id", h.Users.AdminDelete)
	admin.Delete("/sessions/:id", h.Admin.DeleteSession)
	admin.Delete("/events/:id", h.Admin.DeleteEvent)
	admin.Delete("/groups/:id", h.Admin.DeleteGroup)
	admin.Post("/regenerate-slugs", h.Admin.RegenerateSlugs)
}
