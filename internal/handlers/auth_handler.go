package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"toko-storefront/internal/middleware"
	"toko-storefront/internal/models"
	"toko-storefront/internal/services"
)

// AuthHandler handles HTTP requests for sign-in, registration and the session.
type AuthHandler struct {
	sessions   *services.SessionService
	cookieName string
	validate   *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions *services.SessionService, cookieName string) *AuthHandler {
	return &AuthHandler{
		sessions:   sessions,
		cookieName: cookieName,
		validate:   newValidator(),
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/logout", h.HandleLogout)
}

// RegisterSessionRoutes registers the routes that need a live session.
func (h *AuthHandler) RegisterSessionRoutes(router fiber.Router) {
	router.Get("/session", h.HandleSession)
}

// HandleRegister creates an account at the backend.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, "register", err)
	}
	if err := validateStruct(h.validate, req); err != nil {
		return respondError(c, "register", err)
	}

	session, err := h.sessions.Register(c.UserContext(), c.Cookies(h.cookieName), req)
	if err != nil {
		return respondError(c, "register", err)
	}

	middleware.SetSessionCookie(c, h.cookieName, session)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       "User registered successfully",
		"session":       session,
		"authenticated": session.Authenticated(),
	})
}

// HandleLogin signs in and starts a session.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, "login", err)
	}
	if err := validateStruct(h.validate, req); err != nil {
		return respondError(c, "login", err)
	}

	session, err := h.sessions.Login(c.UserContext(), c.Cookies(h.cookieName), req)
	if err != nil {
		return respondError(c, "login", err)
	}

	middleware.SetSessionCookie(c, h.cookieName, session)
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"session": session,
	})
}

// HandleLogout ends the session, if any.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c.UserContext(), c.Cookies(h.cookieName)); err != nil {
		return respondError(c, "logout", err)
	}
	middleware.ClearSessionCookie(c, h.cookieName)
	return c.JSON(fiber.Map{
		"message":  "Logged out",
		"redirect": middleware.LoginPath,
	})
}

// HandleSession returns the signed-in identity.
func (h *AuthHandler) HandleSession(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"session": middleware.CurrentSession(c),
	})
}
