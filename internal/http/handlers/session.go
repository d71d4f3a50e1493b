package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"bookshelf/internal/domain"
	applog "bookshelf/internal/log"
	"bookshelf/internal/services"
)

// The session token rides an HttpOnly cookie scoped to the API base path.
const (
	tokenCookie = "token"
	cookiePath  = "/api/v1"
)

func setTokenCookie(c *fiber.Ctx, token string, ttl time.Duration, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     cookiePath,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Secure:   secure,
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
	})
}

// clearTokenCookie expires the cookie; attributes must match the ones used
// when setting it or browsers keep the old cookie around.
func clearTokenCookie(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     cookiePath,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Secure:   secure,
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
	})
}

func identityFrom(c *fiber.Ctx) domain.Identity {
	id, _ := c.Locals("identity").(domain.Identity)
	return id
}

func storeIdentity(c *fiber.Ctx, id domain.Identity) {
	c.Locals("identity", id)
	c.Locals("identity_id", id.ID)
}

// RequireSession resolves the cookie token into an identity or fails the
// request with 401. Invalid, expired and orphaned tokens also get their
// cookie cleared so clients fall back to a clean unauthenticated state.
func RequireSession(auth *services.AuthService, secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := auth.Resolve(c.Cookies(tokenCookie))
		if err != nil {
			if !errors.Is(err, services.ErrNoToken) {
				clearTokenCookie(c, secure)
			}
			applog.Security(c, "session.resolve.fail", map[string]any{"reason": err.Error()})
			return failErr(c, err)
		}
		storeIdentity(c, id)
		return c.Next()
	}
}

// OptionalSession attaches an identity when a valid token is present but
// lets anonymous requests through untouched. Used on public read routes so
// owners and admins can see their hidden books. Broken cookies get cleared
// just like on the required path.
func OptionalSession(auth *services.AuthService, secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := auth.Resolve(c.Cookies(tokenCookie))
		if err != nil {
			if !errors.Is(err, services.ErrNoToken) {
				clearTokenCookie(c, secure)
			}
			return c.Next()
		}
		storeIdentity(c, id)
		return c.Next()
	}
}

// RequireAdmin gates a route group on the resolved identity's role. Must
// run after RequireSession.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !identityFrom(c).IsAdmin() {
			applog.Security(c, "access.denied.admin", nil)
			return fail(c, fiber.StatusForbidden, "forbidden: admin access required")
		}
		return c.Next()
	}
}
