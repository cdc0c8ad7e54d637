package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/playbojio/playbojio-api/internal/config"
)

// corsHeaders are the request headers browser clients send: the bearer token,
// the admin override and a caller-chosen request id.
var corsHeaders = []string{
	fiber.HeaderOrigin,
	fiber.HeaderContentType,
	fiber.HeaderAccept,
	fiber.HeaderAuthorization,
	"X-Admin-Token",
	fiber.HeaderXRequestID,
}

// CORS admits the configured origins. Credentials are only allowed when the
// origins are an explicit list; a wildcard stays anonymous.
func CORS(cfg *config.Config) fiber.Handler {
	origins := strings.Join(parseCSV(cfg.CORSOrigins), ",")
	if origins == "" {
		origins = "*"
	}
	wildcard := origins == "*" || contains(parseCSV(origins), "*")
	if wildcard {
		origins = "*"
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     strings.Join(corsHeaders, ","),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		ExposeHeaders:    fiber.HeaderXRequestID,
		AllowCredentials: !wildcard,
		MaxAge:           600,
	})
}
