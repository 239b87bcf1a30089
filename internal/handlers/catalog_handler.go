package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"toko-storefront/internal/apperr"
	"toko-storefront/internal/services"
)

// CatalogHandler handles HTTP requests for product browsing.
type CatalogHandler struct {
	service *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		service: service,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app. Each route
// runs the given middleware first.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router, middleware ...fiber.Handler) {
	chain := func(handler fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, middleware...), handler)
	}
	router.Get("/catalog", chain(h.HandleGetCatalog)...)
	router.Get("/products/:id", chain(h.HandleGetProduct)...)
}

// HandleGetCatalog returns one zero-based page of products.
func (h *CatalogHandler) HandleGetCatalog(c *fiber.Ctx) error {
	page := 0
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return respondError(c, "list products", apperr.Validation("page", "page must be an integer"))
		}
		page = n
	}

	result, err := h.service.ListProducts(c.UserContext(), page)
	if err != nil {
		return respondError(c, "list products", err)
	}
	return c.JSON(result)
}

// HandleGetProduct returns a product with its supplier offers.
func (h *CatalogHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := pathID(c, "product")
	if err != nil {
		return respondError(c, "get product", err)
	}
	detail, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, "get product", err)
	}
	return c.JSON(detail)
}
