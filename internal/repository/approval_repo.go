package repository

import (
	"context"

	"github.com/solucomercial/vola-solucoes/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApprovalRepository interface {
	Create(ctx context.Context, approval *model.Approval) error
	FindByRequestID(ctx context.Context, requestID uuid.UUID) (*model.Approval, error)
	ListByApprover(ctx context.Context, approverID uuid.UUID, page, limit int) ([]model.Approval, int64, error)
}

type approvalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) ApprovalRepository {
	return &approvalRepository{db: db}
}

func (r *approvalRepository) Create(ctx context.Context, approval *model.Approval) error {
	return GetDB(ctx, r.db).Create(approval).Error
}

func (r *approvalRepository) FindByRequestID(ctx context.Context, requestID uuid.UUID) (*model.Approval, error) {
	var approval model.Approval
	if err := GetDB(ctx, r.db).Preload("Approver").First(&approval, "request_id = ?", requestID).Error; err != nil {
		return nil, err
	}
	return &approval, nil
}

func (r *approvalRepository) ListByApprover(ctx context.Context, approverID uuid.UUID, page, limit int) ([]model.Approval, int64, error) {
	var approvals []model.Approval
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Approval{}).Where("approver_id = ?", approverID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Where("approver_id = ?", approverID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&approvals).Error; err != nil {
		return nil, 0, err
	}

	return approvals, total, nil
}
