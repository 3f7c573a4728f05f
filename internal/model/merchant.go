package model

// Merchant is the tenant boundary. Every outlet, user and product belongs to
// exactly one merchant and is never visible across that boundary.
type Merchant struct {
	BaseModel
	Slug string `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug" validate:"required"`
	Name string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
}
