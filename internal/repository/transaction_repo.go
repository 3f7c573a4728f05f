package repository

import (
	"go-pos-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	// Create persists the transaction together with its items; it must run
	// inside the caller's storage transaction.
	Create(tx *gorm.DB, t *model.Transaction) error
	FindByIDForMerchant(id, merchantID uuid.UUID) (*model.Transaction, error)
	FindAllForMerchant(merchantID uuid.UUID, outletID *uuid.UUID, p Pagination) ([]model.Transaction, int64, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *transactionRepo) Create(tx *gorm.DB, t *model.Transaction) error {
	return TranslateError(r.conn(tx).Create(t).Error)
}

func (r *transactionRepo) FindByIDForMerchant(id, merchantID uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.
		Joins("JOIN outlets ON outlets.id = transactions.outlet_id").
		Where("transactions.id = ? AND outlets.merchant_id = ?", id, merchantID).
		Preload("Items").
		First(&transaction).Error
	if err != nil {
		return nil, TranslateError(err)
	}
	return &transaction, nil
}

func (r *transactionRepo) FindAllForMerchant(merchantID uuid.UUID, outletID *uuid.UUID, p Pagination) ([]model.Transaction, int64, error) {
	p = p.Normalize()

	q := r.db.Model(&model.Transaction{}).
		Joins("JOIN outlets ON outlets.id = transactions.outlet_id").
		Where("outlets.merchant_id = ?", merchantID)
	if outletID != nil {
		q = q.Where("transactions.outlet_id = ?", *outletID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, TranslateError(err)
	}

	var transactions []model.Transaction
	err := q.Preload("Items").
		Order("transactions.created_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, TranslateError(err)
	}
	return transactions, total, nil
}
