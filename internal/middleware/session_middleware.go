package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"toko-storefront/internal/apperr"
	"toko-storefront/internal/backend"
	"toko-storefront/internal/models"
	"toko-storefront/internal/services"
)

const sessionLocal = "session"

// LoginPath is where the storefront sends a visitor without a live session.
const LoginPath = "/login"

// SessionRequired is a Fiber middleware that resolves the session cookie to a
// live, authenticated session. The session's access token is put into the
// request's user context so backend calls carry it.
//
// When the handler answers 401 (the backend rejected the token), the session
// is torn down and the cookie cleared.
func SessionRequired(sessions *services.SessionService, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := sessions.Resolve(c.UserContext(), c.Cookies(cookieName))
		if err != nil {
			if !apperr.IsAuth(err) {
				log.Printf("Session lookup failed: %v", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": "Could not load session",
					"error":   err.Error(),
				})
			}
			ClearSessionCookie(c, cookieName)
			return unauthorized(c, err.Error())
		}
		if !session.Authenticated() {
			return unauthorized(c, "session has no access token")
		}

		return withSession(c, sessions, cookieName, session)
	}
}

// SessionOptional resolves the session cookie when there is one but lets
// anonymous visitors through. A live session's token is attached to backend
// calls the same way SessionRequired does; a stale cookie is cleared.
func SessionOptional(sessions *services.SessionService, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(cookieName)
		if id == "" {
			return c.Next()
		}
		session, err := sessions.Resolve(c.UserContext(), id)
		if err != nil {
			if apperr.IsAuth(err) {
				ClearSessionCookie(c, cookieName)
			} else {
				log.Printf("Session lookup failed, continuing anonymously: %v", err)
			}
			return c.Next()
		}
		if !session.Authenticated() {
			return c.Next()
		}
		return withSession(c, sessions, cookieName, session)
	}
}

func withSession(c *fiber.Ctx, sessions *services.SessionService, cookieName string, session *models.Session) error {
	c.Locals(sessionLocal, session)
	c.SetUserContext(backend.WithToken(c.UserContext(), session.AccessToken))

	if err := c.Next(); err != nil {
		return err
	}

	if c.Response().StatusCode() == fiber.StatusUnauthorized {
		if err := sessions.Logout(c.UserContext(), session.ID); err != nil {
			log.Printf("Failed to clear rejected session %s: %v", session.ID, err)
		}
		ClearSessionCookie(c, cookieName)
	}
	return nil
}

// CurrentSession returns the session stored by SessionRequired or
// SessionOptional, or nil.
func CurrentSession(c *fiber.Ctx) *models.Session {
	session, _ := c.Locals(sessionLocal).(*models.Session)
	return session
}

// SetSessionCookie hands the session id to the browser.
func SetSessionCookie(c *fiber.Ctx, name string, session *models.Session) {
	cookie := &fiber.Cookie{
		Name:     name,
		Value:    session.ID,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if !session.ExpiresAt.IsZero() {
		cookie.Expires = session.ExpiresAt
	}
	c.Cookie(cookie)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Unix(0, 0),
	})
}

func unauthorized(c *fiber.Ctx, reason string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message":  "Authentication required",
		"error":    reason,
		"redirect": LoginPath,
	})
}
