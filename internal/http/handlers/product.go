package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/badwolf/storefront-backend/internal/data/repos"
	"github.com/badwolf/storefront-backend/internal/domain"
	"github.com/badwolf/storefront-backend/internal/http/response"
	"github.com/badwolf/storefront-backend/internal/platform/apperr"
	"github.com/badwolf/storefront-backend/internal/services"
)

type ProductHandler struct {
	productService services.ProductService
}

func NewProductHandler(productService services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	page, err := h.productService.List(c.Request.Context(), repos.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"products": page.Products,
		"pagination": gin.H{
			"total":   page.Total,
			"limit":   page.Limit,
			"offset":  page.Offset,
			"hasMore": page.HasMore,
		},
	})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := productID(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	product, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, product)
}

type productVariantRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req struct {
		Name        string                  `json:"name"`
		Description string                  `json:"description"`
		Price       float64                 `json:"price"`
		Image       string                  `json:"image"`
		Category    string                  `json:"category"`
		Variants    []productVariantRequest `json:"variants"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.CodeInvalidRequest, err)
		return
	}
	row := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
	}
	for _, v := range req.Variants {
		row.Variants = append(row.Variants, domain.ProductVariant{
			Name:  v.Name,
			Price: v.Price,
			Stock: v.Stock,
		})
	}
	created, err := h.productService.Create(c.Request.Context(), row)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, created)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := productID(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Image       *string  `json:"image"`
		Category    *string  `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.CodeInvalidRequest, err)
		return
	}
	updated, err := h.productService.Update(c.Request.Context(), id, services.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, updated)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := productID(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Product deleted successfully"})
}

func productID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: product %q", apperr.ErrNotFound, c.Param("id"))
	}
	return id, nil
}
