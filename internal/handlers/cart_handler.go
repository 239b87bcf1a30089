package handlers

import (
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"toko-storefront/internal/middleware"
	"toko-storefront/internal/models"
	"toko-storefront/internal/services"
)

// CartHandler handles HTTP requests for the cart and checkout.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Get("/validation", h.HandleValidateCart)

	router.Post("/checkout", h.HandleCheckout)
}

// HandleGetCart returns the authoritative cart.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	view, err := h.service.FetchCart(c.UserContext(), middleware.CurrentSession(c).ID)
	if err != nil {
		return respondError(c, "get cart", err)
	}
	return c.JSON(view)
}

// HandleAddItem puts a supplier's product into the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var line models.CartLine
	if err := c.BodyParser(&line); err != nil {
		return badBody(c, "add to cart", err)
	}
	if err := validateStruct(h.validate, line); err != nil {
		return respondError(c, "add to cart", err)
	}

	view, err := h.service.AddToCart(c.UserContext(), middleware.CurrentSession(c).ID, line)
	if err != nil {
		return respondError(c, "add to cart", err)
	}
	return c.JSON(view)
}

// HandleClearCart removes every line.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	view, err := h.service.ClearCart(c.UserContext(), middleware.CurrentSession(c).ID)
	if err != nil {
		return respondError(c, "clear cart", err)
	}
	return c.JSON(view)
}

// HandleValidateCart reports the suppliers below their minimum order.
func (h *CartHandler) HandleValidateCart(c *fiber.Ctx) error {
	view, flagged, err := h.service.ValidateCheckout(c.UserContext(), middleware.CurrentSession(c).ID)
	if err != nil {
		return respondError(c, "validate cart", err)
	}

	ids := make([]int64, 0, len(flagged))
	for id := range flagged {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return c.JSON(fiber.Map{
		"cart":         view,
		"flagged":      ids,
		"can_checkout": len(ids) == 0 && len(view.Suppliers) > 0,
	})
}

// HandleCheckout asks for a payment link once the cart passes validation.
func (h *CartHandler) HandleCheckout(c *fiber.Ctx) error {
	checkout, err := h.service.InitiateCheckout(c.UserContext(), middleware.CurrentSession(c).ID)
	if err != nil {
		return respondError(c, "checkout", err)
	}
	return c.JSON(checkout)
}
