package handler

import (
	"net/http"

	"github.com/solucomercial/vola-solucoes/internal/apperr"
	"github.com/solucomercial/vola-solucoes/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP statuses.
// Upstream failures stay generic so provider internals never leak.
func respondError(c *gin.Context, err error) {
	switch {
	case apperr.IsValidation(err):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	case apperr.IsAuthorization(err):
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, err.Error()))
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case apperr.IsConflict(err):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	case apperr.IsUpstream(err):
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	}
}

// currentUserID pulls the authenticated user id the auth middleware stored
func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		return "", false
	}
	idStr, ok := userID.(string)
	return idStr, ok
}
