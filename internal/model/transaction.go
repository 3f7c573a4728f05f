package model

import "github.com/google/uuid"

// Transaction is one atomic sale at an outlet. It is created in a single
// storage transaction together with all of its items and the matching stock
// decrements; it is never partially persisted.
type Transaction struct {
	BaseModel
	OutletID uuid.UUID `gorm:"type:uuid;not null;index" json:"outlet_id"`
	Outlet   *Outlet   `gorm:"foreignKey:OutletID" json:"outlet,omitempty"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// ShiftID is a weak reference: stored as given at checkout time, with no
	// FK constraint and no lifecycle obligation. The shift may be closed or
	// even absent at read time.
	ShiftID *uuid.UUID `gorm:"type:uuid;index" json:"shift_id"`

	PaymentMethod string `gorm:"type:varchar(50);not null" json:"payment_method"`
	TotalAmount   int64  `gorm:"not null" json:"total_amount"` // equals the sum of item subtotals
	IsOffline     bool   `gorm:"default:false" json:"is_offline"`
	DeviceID      *string `gorm:"type:varchar(120)" json:"device_id"`

	Items []TransactionItem `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TransactionItem is one line of a sale. Name and price are snapshots frozen
// at checkout; later catalog edits must not rewrite historical receipts.
type TransactionItem struct {
	BaseModel
	TransactionID uuid.UUID `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`

	ProductNameSnapshot string `gorm:"type:varchar(255);not null" json:"product_name_snapshot"`
	PriceSnapshot       int64  `gorm:"not null" json:"price_snapshot"`
	Qty                 int    `gorm:"not null" json:"qty"`
	Subtotal            int64  `gorm:"not null" json:"subtotal"` // price_snapshot * qty
}
