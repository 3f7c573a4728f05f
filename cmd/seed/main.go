package main

import (
	"fmt"

	"go-pos-backend/internal/model"
	"go-pos-backend/pkg/database"
	"go-pos-backend/pkg/jwt"
	appLogger "go-pos-backend/pkg/logger"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// Seeds a demo merchant with outlets, users and products, and prints a dev
// token per user so the API can be exercised immediately.
func main() {
	if err := godotenv.Load(); err != nil {
		// .env is optional
	}
	appLogger.Init("pos-seed", true)

	db := database.ConnectDB()

	merchant := &model.Merchant{Slug: "demo-store", Name: "Demo Store"}
	if err := upsertMerchant(db, merchant); err != nil {
		appLogger.Logger.Fatal().Err(err).Msg("Failed to seed merchant")
	}

	outlets := []*model.Outlet{
		{MerchantID: merchant.ID, Slug: "main-branch", Name: "Main Branch", Location: "Jl. Ahmad Yani No. 1, Jakarta", IsActive: true},
		{MerchantID: merchant.ID, Slug: "second-branch", Name: "Second Branch", Location: "Jl. Sudirman No. 88, Jakarta", IsActive: true},
	}
	for _, o := range outlets {
		if err := upsertOutlet(db, o); err != nil {
			appLogger.Logger.Fatal().Err(err).Str("slug", o.Slug).Msg("Failed to seed outlet")
		}
	}

	allPermissions := []string{
		"transaction.create", "transaction.view",
		"stock.adjust", "stock.view",
		"shift.create", "shift.update", "shift.view",
	}
	cashierPermissions := []string{
		"transaction.create", "transaction.view",
		"shift.create", "shift.update", "shift.view",
	}

	users := []struct {
		user        *model.User
		permissions []string
	}{
		{&model.User{MerchantID: merchant.ID, Name: "Admin User", Username: "admin", Email: "admin@demo.com", IsActive: true}, allPermissions},
		{&model.User{MerchantID: merchant.ID, Name: "Cashier User", Username: "cashier", Email: "cashier@demo.com", IsActive: true}, cashierPermissions},
	}

	for _, u := range users {
		if err := u.user.SetPassword("password123"); err != nil {
			appLogger.Logger.Fatal().Err(err).Msg("Failed to hash password")
		}
		if err := upsertUser(db, u.user); err != nil {
			appLogger.Logger.Fatal().Err(err).Str("email", u.user.Email).Msg("Failed to seed user")
		}

		token, err := jwt.GenerateToken(u.user.ID, merchant.ID, u.user.Name, u.permissions)
		if err != nil {
			appLogger.Logger.Fatal().Err(err).Msg("Failed to generate dev token")
		}
		fmt.Printf("%s (%s):\n  %s\n", u.user.Name, u.user.Email, token)
	}

	products := []*model.Product{
		{MerchantID: merchant.ID, Slug: "americano", Name: "Americano", Price: 15000, Cost: 5000, StockQty: 100, MinStock: 10, Unit: "cup", IsActive: true},
		{MerchantID: merchant.ID, Slug: "cafe-latte", Name: "Cafe Latte", Price: 22000, Cost: 8000, StockQty: 100, MinStock: 10, Unit: "cup", IsActive: true},
		{MerchantID: merchant.ID, Slug: "croissant", Name: "Croissant", Price: 18000, Cost: 7000, StockQty: 50, MinStock: 5, Unit: "pcs", IsActive: true},
	}
	for _, p := range products {
		if err := upsertProduct(db, p); err != nil {
			appLogger.Logger.Fatal().Err(err).Str("slug", p.Slug).Msg("Failed to seed product")
		}
	}

	appLogger.Logger.Info().Msg("Seeding completed")
}

func upsertMerchant(db *gorm.DB, m *model.Merchant) error {
	var existing model.Merchant
	err := db.First(&existing, "slug = ?", m.Slug).Error
	if err == nil {
		*m = existing
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	m.CreatedBy = "system"
	m.UpdatedBy = "system"
	return db.Create(m).Error
}

func upsertOutlet(db *gorm.DB, o *model.Outlet) error {
	var existing model.Outlet
	err := db.First(&existing, "merchant_id = ? AND slug = ?", o.MerchantID, o.Slug).Error
	if err == nil {
		*o = existing
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	o.CreatedBy = "system"
	o.UpdatedBy = "system"
	return db.Create(o).Error
}

func upsertUser(db *gorm.DB, u *model.User) error {
	var existing model.User
	err := db.First(&existing, "merchant_id = ? AND email = ?", u.MerchantID, u.Email).Error
	if err == nil {
		*u = existing
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	u.CreatedBy = "system"
	u.UpdatedBy = "system"
	return db.Create(u).Error
}

func upsertProduct(db *gorm.DB, p *model.Product) error {
	var existing model.Product
	err := db.First(&existing, "merchant_id = ? AND slug = ?", p.MerchantID, p.Slug).Error
	if err == nil {
		*p = existing
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	p.CreatedBy = "system"
	p.UpdatedBy = "system"
	return db.Create(p).Error
}
