package service

import (
	"context"
	"fmt"

	"github.com/solucomercial/vola-solucoes/internal/apperr"
	"github.com/solucomercial/vola-solucoes/internal/model"
	"github.com/solucomercial/vola-solucoes/internal/repository"

	"github.com/google/uuid"
)

type NotificationListResponse struct {
	Notifications []model.Notification `json:"notifications"`
	Total         int64                `json:"total"`
	Unread        int64                `json:"unread"`
}

type NotificationService interface {
	ListForUser(ctx context.Context, userID string, page, limit int) (NotificationListResponse, error)
	// MarkRead flips the read flag of the owner's notification. Marking an
	// already-read notification again is a no-op, so repeated display
	// events cannot double-mark.
	MarkRead(ctx context.Context, notificationID, userID string) error
}

type notificationService struct {
	notifications repository.NotificationRepository
}

func NewNotificationService(notifications repository.NotificationRepository) NotificationService {
	return &notificationService{notifications: notifications}
}

func (s *notificationService) ListForUser(ctx context.Context, userID string, page, limit int) (NotificationListResponse, error) {
	owner, err := uuid.Parse(userID)
	if err != nil {
		return NotificationListResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	notifications, total, err := s.notifications.ListByUser(ctx, owner, page, limit)
	if err != nil {
		return NotificationListResponse{}, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	unread, err := s.notifications.CountUnread(ctx, owner)
	if err != nil {
		return NotificationListResponse{}, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	if notifications == nil {
		notifications = []model.Notification{}
	}
	return NotificationListResponse{Notifications: notifications, Total: total, Unread: unread}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	id, err := uuid.Parse(notificationID)
	if err != nil {
		return apperr.NotFoundError{Resource: "notification", Err: err}
	}
	owner, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	affected, err := s.notifications.MarkRead(ctx, id, owner)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// Nothing flipped: distinguish already-read (fine) from missing or
	// foreign notifications
	existing, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		return apperr.NotFoundError{Resource: "notification", Err: err}
	}
	if existing.UserID != owner {
		return apperr.AuthorizationError{Msg: "notification belongs to another user"}
	}
	return nil
}
