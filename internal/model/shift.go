package model

import (
	"time"

	"github.com/google/uuid"
)

// ShiftStatus is the lifecycle state of a cashier shift.
type ShiftStatus string

const (
	ShiftOpen   ShiftStatus = "open"
	ShiftClosed ShiftStatus = "closed"
)

// Shift is one cashier work session at one outlet. It opens in "open" state
// and transitions exactly once to "closed"; a closed shift never reopens.
// A partial unique index on (outlet_id, user_id) WHERE status = 'open'
// (created during migration) backs the at-most-one-open invariant under
// concurrent opens.
type Shift struct {
	BaseModel
	OutletID uuid.UUID `gorm:"type:uuid;not null;index" json:"outlet_id" validate:"uuid_required"`
	Outlet   *Outlet   `gorm:"foreignKey:OutletID" json:"outlet,omitempty" validate:"-"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id" validate:"uuid_required"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty" validate:"-"`

	StartTime time.Time   `gorm:"not null" json:"start_time"`
	EndTime   *time.Time  `json:"end_time"` // nil while the shift is open
	Status    ShiftStatus `gorm:"type:varchar(10);not null;default:'open';index" json:"status"`
}

// TableName specifies the table name for GORM
func (Shift) TableName() string {
	return "shifts"
}

// IsOpen reports whether the shift is still accepting sales.
func (s *Shift) IsOpen() bool {
	return s.Status == ShiftOpen
}
