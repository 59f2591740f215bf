package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/solucomercial/vola-solucoes/internal/apperr"
	"github.com/solucomercial/vola-solucoes/internal/model"
	"github.com/solucomercial/vola-solucoes/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type DecideRequestDTO struct {
	Comments string `json:"comments"`
}

// --- Interface ---

// NotificationPusher delivers a payload to a user's live connections.
// Implemented by the websocket hub; a nil pusher disables push.
type NotificationPusher interface {
	SendToUser(userID uuid.UUID, payload []byte)
}

// ApprovalService is the decision half of the workflow engine. A request
// moves pending -> approved|rejected exactly once; both outcomes are
// terminal and emit a notification to the request owner.
type ApprovalService interface {
	Decide(ctx context.Context, requestID, approverID, decision, comments string) (RequestResponse, error)
	ListPending(ctx context.Context, page, limit int) ([]RequestResponse, int64, error)
	ListHistory(ctx context.Context, approverID string, page, limit int) ([]model.Approval, int64, error)
}

type approvalService struct {
	requests      repository.RequestRepository
	approvals     repository.ApprovalRepository
	notifications repository.NotificationRepository
	profiles      repository.ProfileRepository
	audits        repository.AuditRepository
	tx            repository.TransactionManager
	pusher        NotificationPusher
}

func NewApprovalService(
	requests repository.RequestRepository,
	approvals repository.ApprovalRepository,
	notifications repository.NotificationRepository,
	profiles repository.ProfileRepository,
	audits repository.AuditRepository,
	tx repository.TransactionManager,
	pusher NotificationPusher,
) ApprovalService {
	return &approvalService{
		requests:      requests,
		approvals:     approvals,
		notifications: notifications,
		profiles:      profiles,
		audits:        audits,
		tx:            tx,
		pusher:        pusher,
	}
}

// --- Implementation ---

func (s *approvalService) Decide(ctx context.Context, requestID, approverID, decision, comments string) (RequestResponse, error) {
	reqID, err := uuid.Parse(requestID)
	if err != nil {
		return RequestResponse{}, apperr.NotFoundError{Resource: "request", Err: err}
	}
	decider, err := uuid.Parse(approverID)
	if err != nil {
		return RequestResponse{}, fmt.Errorf("invalid approver id: %w", err)
	}

	if decision != model.DecisionApproved && decision != model.DecisionRejected {
		return RequestResponse{}, apperr.ValidationError{Field: "decision", Msg: "decision must be approved or rejected"}
	}
	// Comments check happens before any insert attempt; whitespace-only
	// comments count as empty and the stored value is the trimmed form.
	comments = strings.TrimSpace(comments)
	if decision == model.DecisionRejected && comments == "" {
		return RequestResponse{}, apperr.ValidationError{Field: "comments", Msg: "comments are required when rejecting"}
	}

	approver, err := s.profiles.GetByID(ctx, approverID)
	if err != nil {
		return RequestResponse{}, apperr.NotFoundError{Resource: "approver", Err: err}
	}
	if !approver.Role.CanApprove() {
		return RequestResponse{}, apperr.AuthorizationError{Msg: "only approvers may decide requests"}
	}

	var notification model.Notification
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		req, findErr := s.requests.FindByIDForUpdate(txCtx, reqID)
		if findErr != nil {
			return apperr.NotFoundError{Resource: "request", Err: findErr}
		}

		if req.Status != model.RequestPending {
			return apperr.AuthorizationError{Msg: "request is already " + req.Status}
		}

		approval := model.Approval{
			RequestID:  req.ID,
			ApproverID: decider,
			Status:     decision,
			Comments:   comments,
		}
		if createErr := s.approvals.Create(txCtx, &approval); createErr != nil {
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return apperr.ConflictError{Msg: "request was already decided", Err: createErr}
			}
			return fmt.Errorf("failed to record decision: %w", createErr)
		}

		// The stored status mirrors the approval in the same transaction
		if updateErr := s.requests.UpdateStatus(txCtx, req.ID, decision); updateErr != nil {
			return fmt.Errorf("failed to update request status: %w", updateErr)
		}

		notification = buildDecisionNotification(req, approver, decision, comments)
		if notifErr := s.notifications.Create(txCtx, &notification); notifErr != nil {
			return fmt.Errorf("failed to create notification: %w", notifErr)
		}

		action := model.ActionApproveRequest
		if decision == model.DecisionRejected {
			action = model.ActionRejectRequest
		}
		details, _ := json.Marshal(map[string]interface{}{
			"origin":      req.Origin,
			"destination": req.Destination,
			"comments":    comments,
		})
		audit := model.AuditLog{
			UserID:     &decider,
			Action:     action,
			EntityID:   req.ID.String(),
			EntityName: req.Origin + " → " + req.Destination,
			Details:    string(details),
		}
		if auditErr := s.audits.Log(txCtx, &audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		return nil
	})
	if err != nil {
		return RequestResponse{}, err
	}

	// Push only after the transaction has committed
	if s.pusher != nil {
		if payload, marshalErr := json.Marshal(notification); marshalErr == nil {
			s.pusher.SendToUser(notification.UserID, payload)
		}
	}

	reloaded, err := s.requests.FindByIDWithRelations(ctx, reqID)
	if err != nil {
		return RequestResponse{}, fmt.Errorf("failed to reload request: %w", err)
	}
	return toRequestResponse(*reloaded), nil
}

func (s *approvalService) ListPending(ctx context.Context, page, limit int) ([]RequestResponse, int64, error) {
	requests, total, err := s.requests.ListByStatus(ctx, model.RequestPending, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch pending requests: %w", err)
	}

	result := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		result = append(result, toRequestResponse(r))
	}
	return result, total, nil
}

func (s *approvalService) ListHistory(ctx context.Context, approverID string, page, limit int) ([]model.Approval, int64, error) {
	decider, err := uuid.Parse(approverID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid approver id: %w", err)
	}
	return s.approvals.ListByApprover(ctx, decider, page, limit)
}

// --- Helpers ---

func buildDecisionNotification(req *model.FlightRequest, approver *model.Profile, decision, comments string) model.Notification {
	route := req.Origin + " → " + req.Destination
	requestID := req.ID

	if decision == model.DecisionApproved {
		return model.Notification{
			UserID:           req.UserID,
			Title:            "Request approved",
			Message:          fmt.Sprintf("Your travel request %s was approved by %s.", route, approver.FullName),
			Type:             model.NotifRequestApproved,
			Read:             false,
			RelatedRequestID: &requestID,
			CreatedAt:        time.Now(),
		}
	}

	return model.Notification{
		UserID:           req.UserID,
		Title:            "Request rejected",
		Message:          fmt.Sprintf("Your travel request %s was rejected by %s: %s", route, approver.FullName, comments),
		Type:             model.NotifRequestRejected,
		Read:             false,
		RelatedRequestID: &requestID,
		CreatedAt:        time.Now(),
	}
}
