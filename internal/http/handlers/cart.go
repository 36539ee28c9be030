package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/badwolf/storefront-backend/internal/domain"
	"github.com/badwolf/storefront-backend/internal/http/response"
	"github.com/badwolf/storefront-backend/internal/platform/apperr"
	"github.com/badwolf/storefront-backend/internal/services"
)

type CartHandler struct {
	cartService services.CartService
}

func NewCartHandler(cartService services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	sessionKey := c.Query("sessionId")
	if sessionKey == "" {
		sessionKey = domain.DefaultSessionKey
	}
	cart, err := h.cartService.Read(c.Request.Context(), sessionKey)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, cart)
}

type cartLineRequest struct {
	SessionID string `json:"sessionId"`
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Quantity  *int   `json:"quantity"`
}

func (req cartLineRequest) lineKey() (uuid.UUID, *uuid.UUID, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("%w: product %q", apperr.ErrNotFound, req.ProductID)
	}
	if req.VariantID == "" {
		return productID, nil, nil
	}
	variantID, err := uuid.Parse(req.VariantID)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("%w: variant %q", apperr.ErrNotFound, req.VariantID)
	}
	return productID, &variantID, nil
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req cartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.CodeInvalidRequest, err)
		return
	}
	productID, variantID, err := req.lineKey()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	cart, err := h.cartService.AddItem(c.Request.Context(), req.SessionID, productID, variantID, quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, cart)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req cartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.CodeInvalidRequest, err)
		return
	}
	if req.Quantity == nil {
		response.RespondError(c, http.StatusBadRequest, response.CodeInvalidRequest, fmt.Errorf("quantity is required"))
		return
	}
	productID, variantID, err := req.lineKey()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	cart, err := h.cartService.SetQuantity(c.Request.Context(), req.SessionID, productID, variantID, *req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, cart)
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	var req struct {
		SessionID string `json:"sessionId"`
	}
	// A body-less clear targets the guest cart.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, response.CodeInvalidRequest, err)
		return
	}
	cart, err := h.cartService.Clear(c.Request.Context(), req.SessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, cart)
}
