package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestStatus enum constants
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// HotelInfo is the optional hotel snapshot attached to a request.
// NightlyRate is per stay-night, not per passenger.
type HotelInfo struct {
	Name        string          `json:"name"`
	Link        string          `json:"link,omitempty"`
	NightlyRate decimal.Decimal `json:"nightly_rate"`
}

// ReturnFlightInfo is the optional return-itinerary snapshot attached to a
// round-trip request.
type ReturnFlightInfo struct {
	Airline      string          `json:"airline"`
	FlightNumber string          `json:"flight_number"`
	Price        decimal.Decimal `json:"price"`
}

// FlightRequest is a travel request submitted for approval. Status starts
// at pending and permanently mirrors the single Approval row once one
// exists. A request may be deleted by its owner only while still pending.
type FlightRequest struct {
	ID              uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *Profile          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	FlightID        uuid.UUID         `gorm:"type:uuid;not null" json:"flight_id"`
	Flight          *Flight           `gorm:"foreignKey:FlightID" json:"flight,omitempty"`
	Origin          string            `gorm:"type:varchar(10);not null" json:"origin"`
	Destination     string            `gorm:"type:varchar(10);not null" json:"destination"`
	DepartureDate   string            `gorm:"type:varchar(10);not null" json:"departure_date"`
	ReturnDate      *string           `gorm:"type:varchar(10)" json:"return_date"`
	IsRoundTrip     bool              `gorm:"not null;default:false" json:"is_round_trip"`
	IncludeHotel    bool              `gorm:"not null;default:false" json:"include_hotel"`
	PassengersCount int               `gorm:"not null;default:1" json:"passengers_count"`
	HotelInfo       *HotelInfo        `gorm:"type:jsonb;serializer:json" json:"hotel_info"`
	ReturnFlight    *ReturnFlightInfo `gorm:"type:jsonb;serializer:json;column:return_flight_info" json:"return_flight_info"`
	Reason          string            `gorm:"type:text;not null" json:"reason"`
	TotalPrice      decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"total_price"`
	Status          string            `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Approval        *Approval         `gorm:"foreignKey:RequestID" json:"approval,omitempty"`
	CreatedAt       time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
