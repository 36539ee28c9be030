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

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.CodeInvalidRequest, err)
		return
	}
	user := domain.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	if err := ah.authService.RegisterUser(c.Request.Context(), &user); err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			response.RespondError(c, http.StatusBadRequest, response.CodeEmailTaken, err)
			return
		}
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, user)
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.CodeInvalidRequest, err)
		return
	}
	user, accessToken, err := ah.authService.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.RespondError(c, http.StatusUnauthorized, response.CodeInvalidCredentials, err)
			return
		}
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"user":  user,
		"token": accessToken,
	})
}

// GetUser returns the user profile. The password hash never leaves the
// service; the model's json tag drops it.
func (ah *AuthHandler) GetUser(c *gin.Context) {
	id, err := userID(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	user, err := ah.authService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, user)
}

func (ah *AuthHandler) UpdateUser(c *gin.Context) {
	id, err := userID(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	var req struct {
		Name          *string `json:"name"`
		LoyaltyPoints *int    `json:"loyaltyPoints"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.CodeInvalidRequest, err)
		return
	}
	user, err := ah.authService.UpdateUser(c.Request.Context(), id, services.UserUpdate{
		Name:          req.Name,
		LoyaltyPoints: req.LoyaltyPoints,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, user)
}

func userID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: user %q", apperr.ErrNotFound, c.Param("id"))
	}
	return id, nil
}
