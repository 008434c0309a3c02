package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tradeyard/marketplace-api/internal/core/domain"
	"github.com/tradeyard/marketplace-api/internal/core/ports"
)

// OrderHandler handles HTTP requests for the order lifecycle.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Place converts the authenticated buyer's cart into an order.
//
// @Summary      Place an order from the current cart
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  domain.Order
// @Failure      403  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/orders [post]
func (h *OrderHandler) Place(c echo.Context) error {
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	order, err := h.service.PlaceOrder(c.Request().Context(), actorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, order)
}

// Cancel cancels a PLACED order and restores its stock.
//
// @Summary      Cancel an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  domain.Order
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c echo.Context) error {
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	order, err := h.service.CancelOrder(c.Request().Context(), actorID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateStatus sets an order's status; admin only, never touches inventory.
//
// @Summary      Update an order's status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Order ID"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  domain.Order
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.service.UpdateOrderStatus(c.Request().Context(), actorID, c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// ListMine returns the authenticated buyer's orders.
//
// @Summary      List own orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Order
// @Router       /v1/orders/my [get]
func (h *OrderHandler) ListMine(c echo.Context) error {
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	orders, err := h.service.GetUserOrders(c.Request().Context(), actorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// ListAll returns every order; admin only.
//
// @Summary      List all orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Order
// @Failure      403  {object}  map[string]string
// @Router       /v1/orders [get]
func (h *OrderHandler) ListAll(c echo.Context) error {
	actorID, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	orders, err := h.service.GetAllOrders(c.Request().Context(), actorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}
