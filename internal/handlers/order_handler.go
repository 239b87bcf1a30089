package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"toko-storefront/internal/apperr"
	"toko-storefront/internal/models"
	"toko-storefront/internal/services"
)

// OrderHandler handles HTTP requests for orders and their contracts.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order and contract routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
	orderRoutes.Post("/:id/status", h.HandleUpdateOrderStatus)

	router.Get("/contracts", h.HandleGetContracts)
	router.Post("/contracts/:id/sign", h.HandleSignContract)
}

// HandleGetOrders lists the signed-in user's orders with their actions.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(c.UserContext())
	if err != nil {
		return respondError(c, "list orders", err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	id, err := pathID(c, "order")
	if err != nil {
		return respondError(c, "get order", err)
	}
	order, err := h.service.GetOrder(c.UserContext(), id)
	if err != nil {
		return respondError(c, "get order", err)
	}
	return c.JSON(order)
}

// HandleCancelOrder cancels a pending order.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	id, err := pathID(c, "order")
	if err != nil {
		return respondError(c, "cancel order", err)
	}
	order, err := h.service.CancelOrder(c.UserContext(), id)
	if err != nil {
		log.Printf("Error cancelling order %d: %v", id, err)
		return respondError(c, "cancel order", err)
	}
	return c.JSON(order)
}

// HandleUpdateOrderStatus moves an order to a new status.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	id, err := pathID(c, "order")
	if err != nil {
		return respondError(c, "update order status", err)
	}
	var updateData struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return badBody(c, "status update", err)
	}

	status, err := models.ParseOrderStatus(updateData.Status)
	if err != nil {
		return respondError(c, "update order status", apperr.Validation("status", err.Error()))
	}

	order, err := h.service.UpdateStatus(c.UserContext(), id, status)
	if err != nil {
		log.Printf("Error updating order status for order %d: %v", id, err)
		return respondError(c, "update order status", err)
	}
	return c.JSON(order)
}

// HandleGetContracts lists the contracts of the signed-in user.
func (h *OrderHandler) HandleGetContracts(c *fiber.Ctx) error {
	contracts, err := h.service.ListContracts(c.UserContext())
	if err != nil {
		return respondError(c, "list contracts", err)
	}
	return c.JSON(fiber.Map{"contracts": contracts})
}

// HandleSignContract signs a contract as the signed-in user's role.
func (h *OrderHandler) HandleSignContract(c *fiber.Ctx) error {
	id, err := pathID(c, "contract")
	if err != nil {
		return respondError(c, "sign contract", err)
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badBody(c, "sign contract", err)
	}

	order, err := h.service.SignContract(c.UserContext(), id, body.Code)
	if err != nil {
		log.Printf("Error signing contract %d: %v", id, err)
		return respondError(c, "sign contract", err)
	}
	return c.JSON(order)
}

func pathID(c *fiber.Ctx, entity string) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, apperr.Validation("id", entity+" id must be a positive integer")
	}
	return int64(id), nil
}
