package model

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is a merchant-scoped account (cashier or admin). Authentication and
// session handling live outside this service; the user row exists for audit
// references, shift ownership and seeding.
type User struct {
	BaseModel
	MerchantID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_users_merchant_email" json:"merchant_id" validate:"uuid_required"`
	Merchant   *Merchant `gorm:"foreignKey:MerchantID" json:"merchant,omitempty" validate:"-"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Username   string    `gorm:"type:varchar(100);not null" json:"username" validate:"required"`
	Email      string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_merchant_email" json:"email" validate:"required,email"`
	Password   string    `gorm:"type:varchar(255);not null;column:password_hash" json:"-"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
