package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockReason explains why a stock quantity changed.
type StockReason string

const (
	ReasonSale       StockReason = "sale"
	ReasonRestock    StockReason = "restock"
	ReasonDamage     StockReason = "damage"
	ReasonCorrection StockReason = "correction"
	ReasonManual     StockReason = "manual"
)

// AdjustmentReasons are the reasons accepted for manual adjustments.
// "sale" is reserved for the checkout path.
var AdjustmentReasons = []StockReason{ReasonRestock, ReasonDamage, ReasonCorrection, ReasonManual}

// ValidAdjustmentReason reports whether reason may be used for a manual adjustment.
func ValidAdjustmentReason(reason StockReason) bool {
	for _, r := range AdjustmentReasons {
		if r == reason {
			return true
		}
	}
	return false
}

// StockLog is one immutable entry in the append-only stock ledger. Rows are
// created inside the same storage transaction as the quantity update and are
// never updated or deleted afterwards, so replaying all ChangeQty values for
// a product reproduces its current StockQty.
type StockLog struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	ProductID uuid.UUID   `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product    `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	ChangeQty int         `gorm:"not null" json:"change_qty"` // signed, never zero
	Reason    StockReason `gorm:"type:varchar(20);not null;index" json:"reason"`

	// RefID points at the transaction for reason=sale, nil otherwise.
	RefID *uuid.UUID `gorm:"type:uuid" json:"ref_id"`
	Note  string     `gorm:"type:varchar(255)" json:"note,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	CreatedBy string    `json:"created_by"`
}

// TableName specifies the table name for GORM
func (StockLog) TableName() string {
	return "stock_logs"
}

func (l *StockLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
