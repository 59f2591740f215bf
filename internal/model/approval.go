package model

import (
	"time"

	"github.com/google/uuid"
)

// DecisionStatus enum constants
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// Approval records the terminal decision on a flight request. At most one
// per request: the unique index on request_id makes a second decision a
// constraint violation rather than a silent overwrite. Rows are immutable
// once created.
type Approval struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"request_id"`
	ApproverID uuid.UUID `gorm:"type:uuid;not null;index" json:"approver_id"`
	Approver   *Profile  `gorm:"foreignKey:ApproverID" json:"approver,omitempty"`
	Status     string    `gorm:"type:varchar(20);not null" json:"status"` // approved, rejected
	Comments   string    `gorm:"type:text" json:"comments"`               // required when rejecting
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
