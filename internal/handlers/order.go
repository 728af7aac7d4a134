package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/adiprasetyo/tokoku/internal/mykafka"
	"github.com/adiprasetyo/tokoku/internal/service/order"
)

type OrderHandler struct {
	Svc      *order.OrderService
	Producer *mykafka.Producer
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req order.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}

	created, err := h.Svc.CreateOrder(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrMissingFields), errors.Is(err, order.ErrInvalidQuantity):
			return errorResponse(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, order.ErrProductNotFound), errors.Is(err, order.ErrVoucherNotFound):
			return errorResponse(c, http.StatusNotFound, err.Error())
		default:
			return internalError(c, err)
		}
	}

	publish(c, h.Producer, "order_events", map[string]any{
		"type":      "order_created",
		"orderID":   created.ID,
		"orderCode": created.OrderCode,
		"buyerID":   created.BuyerID,
		"total":     created.Total,
	})

	return c.JSON(http.StatusCreated, echo.Map{"msg": "order created successfully", "data": created})
}

func (h *OrderHandler) GetOrdersByBuyer(c echo.Context) error {
	buyerID, err := paramID(c, "buyerId")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	orders, err := h.Svc.GetOrdersByBuyer(c.Request().Context(), buyerID)
	if err != nil {
		return internalError(c, err)
	}
	if len(orders) == 0 {
		return errorResponse(c, http.StatusNotFound, "no orders found for this buyer")
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrderDetail(c echo.Context) error {
	orderID, err := paramID(c, "orderId")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	found, err := h.Svc.GetOrderByID(c.Request().Context(), orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "order not found")
		}
		return internalError(c, err)
	}

	return c.JSON(http.StatusOK, found)
}

func (h *OrderHandler) GetAllOrders(c echo.Context) error {
	orders, err := h.Svc.ListOrders(c.Request().Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}
