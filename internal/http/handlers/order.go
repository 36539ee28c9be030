package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/badwolf/storefront-backend/internal/domain"
	"github.com/badwolf/storefront-backend/internal/http/response"
	"github.com/badwolf/storefront-backend/internal/platform/apperr"
	"github.com/badwolf/storefront-backend/internal/services"
)

type OrderHandler struct {
	orderService services.OrderService
}

func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req struct {
		SessionID       string `json:"sessionId"`
		UserID          string `json:"userId"`
		CustomerName    string `json:"customerName"`
		CustomerEmail   string `json:"customerEmail"`
		CustomerPhone   string `json:"customerPhone"`
		ShippingAddress string `json:"shippingAddress"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.CodeInvalidRequest, err)
		return
	}
	order, err := h.orderService.PlaceOrder(c.Request.Context(), services.PlaceOrderInput{
		SessionKey:      req.SessionID,
		UserID:          req.UserID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
	})
	// The order is durable even when the cart clear lost out; failing the
	// request here would only invite a duplicate placement.
	if err != nil && !errors.Is(err, apperr.ErrCartNotCleared) {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, order)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := orderID(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	order, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.List(c.Request.Context(), c.Query("userId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, orders)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := orderID(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.CodeInvalidRequest, err)
		return
	}
	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, order)
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, err := orderID(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Order deleted successfully"})
}

func orderID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: order %q", apperr.ErrNotFound, c.Param("id"))
	}
	return id, nil
}
