package handler

import (
	"net/http"

	"github.com/solucomercial/vola-solucoes/internal/middleware"
	"github.com/solucomercial/vola-solucoes/internal/model"
	"github.com/solucomercial/vola-solucoes/internal/service"
	"github.com/solucomercial/vola-solucoes/pkg/pagination"
	"github.com/solucomercial/vola-solucoes/pkg/response"

	"github.com/gin-gonic/gin"
)

type ApprovalHandler struct {
	approvalService service.ApprovalService
}

func NewApprovalHandler(approvalService service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

func (h *ApprovalHandler) RegisterRoutes(router *gin.RouterGroup) {
	approvals := router.Group("/api/approvals")
	{
		approvals.GET("/pending", middleware.RequireApprover(), h.ListPending)
		approvals.GET("/history", middleware.RequireApprover(), h.ListHistory)
		approvals.PUT("/:id/approve", middleware.RequireApprover(), h.Approve)
		approvals.PUT("/:id/reject", middleware.RequireApprover(), h.Reject)
	}
}

// ListPending returns the queue of requests awaiting a decision
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	params := pagination.Parse(c)

	requests, total, err := h.approvalService.ListPending(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   requests,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// ListHistory returns decisions made by the calling approver
func (h *ApprovalHandler) ListHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	params := pagination.Parse(c)
	approvals, total, err := h.approvalService.ListHistory(c.Request.Context(), userID, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   approvals,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// Approve decides a pending request positively
func (h *ApprovalHandler) Approve(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	var req service.DecideRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		// Allow empty body; comments are optional when approving
		req.Comments = ""
	}

	result, err := h.approvalService.Decide(c.Request.Context(), c.Param("id"), userID, model.DecisionApproved, req.Comments)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Reject decides a pending request negatively; comments are mandatory
func (h *ApprovalHandler) Reject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	var req service.DecideRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Comments = ""
	}

	result, err := h.approvalService.Decide(c.Request.Context(), c.Param("id"), userID, model.DecisionRejected, req.Comments)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
