package repository

import (
	"time"

	"go-pos-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockLogFilter narrows the ledger stream by product and time range.
type StockLogFilter struct {
	ProductID *uuid.UUID
	From      *time.Time
	To        *time.Time
}

type StockLogRepository interface {
	Create(tx *gorm.DB, log *model.StockLog) error
	// FindByMerchant streams ledger entries for products owned by the
	// merchant, newest first.
	FindByMerchant(merchantID uuid.UUID, filter StockLogFilter, p Pagination) ([]model.StockLog, int64, error)
	// SumByProduct replays the ledger for one product. The result must equal
	// the product's current stock quantity at all times.
	SumByProduct(productID uuid.UUID) (int64, error)
}

type stockLogRepo struct {
	db *gorm.DB
}

func NewStockLogRepo(db *gorm.DB) StockLogRepository {
	return &stockLogRepo{db}
}

func (r *stockLogRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *stockLogRepo) Create(tx *gorm.DB, log *model.StockLog) error {
	return TranslateError(r.conn(tx).Create(log).Error)
}

func (r *stockLogRepo) FindByMerchant(merchantID uuid.UUID, filter StockLogFilter, p Pagination) ([]model.StockLog, int64, error) {
	p = p.Normalize()

	q := r.db.Model(&model.StockLog{}).
		Joins("JOIN products ON products.id = stock_logs.product_id").
		Where("products.merchant_id = ?", merchantID)

	if filter.ProductID != nil {
		q = q.Where("stock_logs.product_id = ?", *filter.ProductID)
	}
	if filter.From != nil {
		q = q.Where("stock_logs.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("stock_logs.created_at <= ?", *filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, TranslateError(err)
	}

	var logs []model.StockLog
	err := q.Preload("Product").
		Order("stock_logs.created_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, TranslateError(err)
	}
	return logs, total, nil
}

func (r *stockLogRepo) SumByProduct(productID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.Model(&model.StockLog{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(change_qty), 0)").
		Scan(&sum).Error
	return sum, TranslateError(err)
}
