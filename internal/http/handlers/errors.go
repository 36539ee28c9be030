package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/badwolf/storefront-backend/internal/http/response"
	"github.com/badwolf/storefront-backend/internal/platform/apperr"
)

// respondServiceError translates engine error kinds to transport status
// codes: caller errors surface directly, Conflict marks a transient
// failure the client may retry, StorageUnavailable maps to 503.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, response.CodeNotFound, err)
	case errors.Is(err, apperr.ErrEmptyCart):
		response.RespondError(c, http.StatusBadRequest, response.CodeEmptyCart, err)
	case errors.Is(err, apperr.ErrInvalidStatus):
		response.RespondError(c, http.StatusBadRequest, response.CodeInvalidStatus, err)
	case errors.Is(err, apperr.ErrConflict):
		response.RespondError(c, http.StatusConflict, response.CodeConflict, err)
	case errors.Is(err, apperr.ErrStorageUnavailable):
		response.RespondError(c, http.StatusServiceUnavailable, response.CodeStorageUnavailable, err)
	default:
		response.RespondError(c, http.StatusInternalServerError, response.CodeInternal, err)
	}
}
