package repository

import (
	"errors"
	"time"

	"go-pos-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShiftRepository interface {
	Create(tx *gorm.DB, shift *model.Shift) error
	// FindOpen returns the open shift for the user at the outlet, or nil when
	// there is none.
	FindOpen(tx *gorm.DB, outletID, userID uuid.UUID) (*model.Shift, error)
	// FindByIDForMerchant resolves a shift through the merchant's outlets, so
	// a shift at another tenant's outlet is indistinguishable from a missing one.
	FindByIDForMerchant(id, merchantID uuid.UUID) (*model.Shift, error)
	// CloseByID flips status open -> closed as a conditional update and
	// reports the affected row count; zero means a concurrent close won.
	CloseByID(tx *gorm.DB, id uuid.UUID, endTime time.Time, updatedBy string) (int64, error)
	FindAllForMerchant(merchantID uuid.UUID, outletID *uuid.UUID) ([]model.Shift, error)
}

type shiftRepo struct {
	db *gorm.DB
}

func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db}
}

func (r *shiftRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *shiftRepo) Create(tx *gorm.DB, shift *model.Shift) error {
	return TranslateError(r.conn(tx).Create(shift).Error)
}

func (r *shiftRepo) FindOpen(tx *gorm.DB, outletID, userID uuid.UUID) (*model.Shift, error) {
	var shift model.Shift
	err := r.conn(tx).
		Where("outlet_id = ? AND user_id = ? AND status = ?", outletID, userID, model.ShiftOpen).
		First(&shift).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, TranslateError(err)
	}
	return &shift, nil
}

func (r *shiftRepo) FindByIDForMerchant(id, merchantID uuid.UUID) (*model.Shift, error) {
	var shift model.Shift
	err := r.db.
		Joins("JOIN outlets ON outlets.id = shifts.outlet_id").
		Where("shifts.id = ? AND outlets.merchant_id = ?", id, merchantID).
		Preload("Outlet").
		Preload("User").
		First(&shift).Error
	if err != nil {
		return nil, TranslateError(err)
	}
	return &shift, nil
}

func (r *shiftRepo) CloseByID(tx *gorm.DB, id uuid.UUID, endTime time.Time, updatedBy string) (int64, error) {
	res := r.conn(tx).Model(&model.Shift{}).
		Where("id = ? AND status = ?", id, model.ShiftOpen).
		Updates(map[string]interface{}{
			"status":     model.ShiftClosed,
			"end_time":   endTime,
			"updated_by": updatedBy,
		})
	return res.RowsAffected, TranslateError(res.Error)
}

func (r *shiftRepo) FindAllForMerchant(merchantID uuid.UUID, outletID *uuid.UUID) ([]model.Shift, error) {
	q := r.db.
		Joins("JOIN outlets ON outlets.id = shifts.outlet_id").
		Where("outlets.merchant_id = ?", merchantID)
	if outletID != nil {
		q = q.Where("shifts.outlet_id = ?", *outletID)
	}

	var shifts []model.Shift
	err := q.Preload("Outlet").
		Preload("User").
		Order("shifts.start_time DESC").
		Find(&shifts).Error
	if err != nil {
		return nil, TranslateError(err)
	}
	return shifts, nil
}
