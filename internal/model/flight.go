package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Flight is an immutable snapshot of the outbound itinerary the employee
// picked from search results. It is written once at submission time and is
// not a live inventory row; seats are never locked or decremented here.
type Flight struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Airline       string          `gorm:"type:varchar(100);not null" json:"airline"`
	AirlineLogo   string          `gorm:"type:varchar(500)" json:"airline_logo,omitempty"`
	FlightNumber  string          `gorm:"type:varchar(20);not null" json:"flight_number"`
	Origin        string          `gorm:"type:varchar(10);not null" json:"origin"`
	Destination   string          `gorm:"type:varchar(10);not null" json:"destination"`
	DepartureTime string          `gorm:"type:varchar(30)" json:"departure_time"`
	ArrivalTime   string          `gorm:"type:varchar(30)" json:"arrival_time"`
	Price         decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price"`
	CreatedAt     time.Time       `json:"created_at"`
}
