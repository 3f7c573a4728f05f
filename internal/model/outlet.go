package model

import "github.com/google/uuid"

// Outlet is a sales location under a merchant. Shifts and transactions always
// happen at an outlet; tenant ownership checks go through it.
type Outlet struct {
	BaseModel
	MerchantID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_outlets_merchant_slug" json:"merchant_id" validate:"uuid_required"`
	Merchant   *Merchant `gorm:"foreignKey:MerchantID" json:"merchant,omitempty" validate:"-"`
	Slug       string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_outlets_merchant_slug" json:"slug" validate:"required"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Location   string    `gorm:"type:varchar(255)" json:"location"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
}
