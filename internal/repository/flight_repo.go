package repository

import (
	"context"

	"github.com/solucomercial/vola-solucoes/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FlightRepository persists immutable flight snapshots. Snapshots are only
// ever created at submission time and deleted when their request is
// cancelled; there is no update path.
type FlightRepository interface {
	Create(ctx context.Context, flight *model.Flight) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Flight, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type flightRepository struct {
	db *gorm.DB
}

func NewFlightRepository(db *gorm.DB) FlightRepository {
	return &flightRepository{db: db}
}

func (r *flightRepository) Create(ctx context.Context, flight *model.Flight) error {
	return GetDB(ctx, r.db).Create(flight).Error
}

func (r *flightRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Flight, error) {
	var flight model.Flight
	if err := GetDB(ctx, r.db).First(&flight, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &flight, nil
}

func (r *flightRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Flight{}).Error
}
