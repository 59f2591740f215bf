package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType enum constants
const (
	NotifRequestApproved = "request_approved"
	NotifRequestRejected = "request_rejected"
	NotifRequestPending  = "request_pending"
)

// Notification is delivered to the request owner when a decision lands.
// Content is immutable; only the read flag ever transitions (false -> true).
type Notification struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User             *Profile   `gorm:"foreignKey:UserID" json:"-"`
	Title            string     `gorm:"type:varchar(255);not null" json:"title"`
	Message          string     `gorm:"type:text;not null" json:"message"`
	Type             string     `gorm:"type:varchar(30);not null;index" json:"type"`
	Read             bool       `gorm:"not null;default:false;index" json:"read"`
	RelatedRequestID *uuid.UUID `gorm:"type:uuid" json:"related_request_id"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
}
