package repository

import (
	"go-pos-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OutletRepository interface {
	Create(outlet *model.Outlet) error
	// FindByIDForMerchant returns the outlet only when it belongs to the
	// merchant; a cross-tenant id behaves like a missing row.
	FindByIDForMerchant(id, merchantID uuid.UUID) (*model.Outlet, error)
}

type outletRepo struct {
	db *gorm.DB
}

func NewOutletRepo(db *gorm.DB) OutletRepository {
	return &outletRepo{db}
}

func (r *outletRepo) Create(outlet *model.Outlet) error {
	return r.db.Create(outlet).Error
}

func (r *outletRepo) FindByIDForMerchant(id, merchantID uuid.UUID) (*model.Outlet, error) {
	var outlet model.Outlet
	err := r.db.First(&outlet, "id = ? AND merchant_id = ?", id, merchantID).Error
	if err != nil {
		return nil, TranslateError(err)
	}
	return &outlet, nil
}
