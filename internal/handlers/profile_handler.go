package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"toko-storefront/internal/middleware"
	"toko-storefront/internal/models"
	"toko-storefront/internal/services"
)

// ProfileHandler handles HTTP requests for the user's profile.
type ProfileHandler struct {
	service  *services.ProfileService
	validate *validator.Validate
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(service *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the profile routes with the Fiber app.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/profile", h.HandleGetProfile)
	router.Put("/profile", h.HandleUpdateProfile)
}

// HandleGetProfile returns the user, role and addresses.
func (h *ProfileHandler) HandleGetProfile(c *fiber.Ctx) error {
	profile, err := h.service.Profile(c.UserContext())
	if err != nil {
		return respondError(c, "get profile", err)
	}
	return c.JSON(profile)
}

// HandleUpdateProfile saves the name and phone number.
func (h *ProfileHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var update models.ProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		return badBody(c, "update profile", err)
	}
	if err := validateStruct(h.validate, update); err != nil {
		return respondError(c, "update profile", err)
	}

	profile, err := h.service.UpdateProfile(c.UserContext(), middleware.CurrentSession(c).ID, update)
	if err != nil {
		return respondError(c, "update profile", err)
	}
	return c.JSON(profile)
}
