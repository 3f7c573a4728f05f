package model

import "github.com/google/uuid"

// Product is a merchant-scoped catalog row. StockQty is mutated exclusively
// through the inventory ledger's conditional update; nothing else writes it.
type Product struct {
	BaseModel
	MerchantID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_products_merchant_slug" json:"merchant_id" validate:"uuid_required"`
	Merchant   *Merchant `gorm:"foreignKey:MerchantID" json:"merchant,omitempty" validate:"-"`
	Slug       string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_products_merchant_slug" json:"slug" validate:"required"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`

	// Prices in minor currency units
	Price int64 `gorm:"not null;default:0" json:"price" validate:"gte=0"`
	Cost  int64 `gorm:"not null;default:0" json:"cost" validate:"gte=0"`

	StockQty int    `gorm:"not null;default:0" json:"stock_qty"`
	MinStock int    `gorm:"not null;default:0" json:"min_stock"`
	Unit     string `gorm:"type:varchar(20)" json:"unit"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}
