package handler

import (
	"net/http"

	"github.com/solucomercial/vola-solucoes/internal/middleware"
	"github.com/solucomercial/vola-solucoes/internal/service"
	"github.com/solucomercial/vola-solucoes/pkg/pagination"
	"github.com/solucomercial/vola-solucoes/pkg/response"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	notifications := router.Group("/api/notifications")
	{
		notifications.GET("", middleware.RequireAuth(), h.List)
		notifications.PUT("/:id/read", middleware.RequireAuth(), h.MarkRead)
	}
}

// List returns the caller's notifications, newest first, with unread count
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	params := pagination.Parse(c)
	result, err := h.notificationService.ListForUser(c.Request.Context(), userID, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   result.Notifications,
		"total":  result.Total,
		"unread": result.Unread,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// MarkRead flips one notification to read; repeating the call is a no-op
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "notification read"}))
}
