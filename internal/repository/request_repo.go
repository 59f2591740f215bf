package repository

import (
	"context"

	"github.com/solucomercial/vola-solucoes/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RequestStatusCounts aggregates a user's requests by status for the dashboard
type RequestStatusCounts struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

type RequestRepository interface {
	Create(ctx context.Context, req *model.FlightRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.FlightRequest, error)
	// FindByIDForUpdate locks the row for the duration of the surrounding
	// transaction so a decision and a cancellation cannot interleave.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.FlightRequest, error)
	FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.FlightRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.FlightRequest, int64, error)
	ListByStatus(ctx context.Context, status string, page, limit int) ([]model.FlightRequest, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByUser(ctx context.Context, userID uuid.UUID) (RequestStatusCounts, error)
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, req *model.FlightRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *requestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.FlightRequest, error) {
	var req model.FlightRequest
	if err := GetDB(ctx, r.db).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.FlightRequest, error) {
	var req model.FlightRequest
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.FlightRequest, error) {
	var req model.FlightRequest
	if err := GetDB(ctx, r.db).
		Preload("User").
		Preload("Flight").
		Preload("Approval").
		Preload("Approval.Approver").
		First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.FlightRequest, int64, error) {
	var requests []model.FlightRequest
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.FlightRequest{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Flight").
		Preload("Approval").
		Preload("Approval.Approver").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *requestRepository) ListByStatus(ctx context.Context, status string, page, limit int) ([]model.FlightRequest, int64, error) {
	var requests []model.FlightRequest
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.FlightRequest{}).Where("status = ?", status).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("User").
		Preload("Flight").
		Where("status = ?", status).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *requestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.FlightRequest{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *requestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.FlightRequest{}).Error
}

func (r *requestRepository) CountByUser(ctx context.Context, userID uuid.UUID) (RequestStatusCounts, error) {
	var counts RequestStatusCounts

	db := GetDB(ctx, r.db)
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	if err := db.Model(&model.FlightRequest{}).
		Select("status, count(*) as n").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return counts, err
	}

	for _, r := range rows {
		counts.Total += r.N
		switch r.Status {
		case model.RequestPending:
			counts.Pending = r.N
		case model.RequestApproved:
			counts.Approved = r.N
		case model.RequestRejected:
			counts.Rejected = r.N
		}
	}

	return counts, nil
}
