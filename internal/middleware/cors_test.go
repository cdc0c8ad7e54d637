package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/playbojio/playbojio-api/internal/config"
)

func preflight(t *testing.T, origins, origin string) *http.Response {
	t.Helper()
	app := fiber.New()
	app.Use(CORS(&config.Config{CORSOrigins: origins}))
	app.Get("/api/sessions", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest(http.MethodOptions, "/api/sessions", nil)
	req.Header.Set(fiber.HeaderOrigin, origin)
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, http.MethodGet)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	return resp
}

func TestCORSExplicitOrigins(t *testing.T) {
	resp := preflight(t, "https://playbojio.com, https://admin.playbojio.com", "https://admin.playbojio.com")
	if got := resp.Header.Get(fiber.HeaderAccessControlAllowOrigin); got != "https://admin.playbojio.com" {
		t.Errorf("allow origin = %q", got)
	}
	if got := resp.Header.Get(fiber.HeaderAccessControlAllowCredentials); got != "true" {
		t.Errorf("allow credentials = %q, want true", got)
	}
	if got := resp.Header.Get(fiber.HeaderAccessControlAllowHeaders); !strings.Contains(got, "X-Admin-Token") {
		t.Errorf("allow headers = %q, missing X-Admin-Token", got)
	}
	if got := resp.Header.Get(fiber.HeaderAccessControlMaxAge); got != "600" {
		t.Errorf("max age = %q, want 600", got)
	}

	resp = preflight(t, "https://playbojio.com", "https://elsewhere.example")
	if got := resp.Header.Get(fiber.HeaderAccessControlAllowOrigin); got == "https://elsewhere.example" {
		t.Errorf("unlisted origin was allowed")
	}
}

func TestCORSWildcardStaysAnonymous(t *testing.T) {
	for _, origins := range []string{"*", "", "https://playbojio.com,*"} {
		resp := preflight(t, origins, "https://anywhere.example")
		if got := resp.Header.Get(fiber.HeaderAccessControlAllowOrigin); got != "*" {
			t.Errorf("%q: allow origin = %q, want *", origins, got)
		}
		if got := resp.Header.Get(fiber.HeaderAccessControlAllowCredentials); got != "" {
			t.Errorf("%q: allow credentials = %q, want none", origins, got)
		}
	}
}
