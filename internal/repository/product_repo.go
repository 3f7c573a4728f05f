package repository

import (
	"go-pos-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindByID(tx *gorm.DB, id, merchantID uuid.UUID) (*model.Product, error)
	// FindActiveForUpdate loads active merchant products by id with row-level
	// locks, ordered ascending by id so concurrent multi-product checkouts
	// always acquire locks in the same global order.
	FindActiveForUpdate(tx *gorm.DB, ids []uuid.UUID, merchantID uuid.UUID) ([]model.Product, error)
	// AdjustStock applies a signed delta as a single conditional update:
	// the row changes only if the resulting quantity stays non-negative.
	// Returns the number of affected rows; zero means the product is missing,
	// belongs to another merchant, or the delta would oversell.
	AdjustStock(tx *gorm.DB, id, merchantID uuid.UUID, delta int, updatedBy string) (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// conn picks the caller's transaction when one is in flight
func (r *productRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindByID(tx *gorm.DB, id, merchantID uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.conn(tx).First(&product, "id = ? AND merchant_id = ?", id, merchantID).Error
	if err != nil {
		return nil, TranslateError(err)
	}
	return &product, nil
}

func (r *productRepo) FindActiveForUpdate(tx *gorm.DB, ids []uuid.UUID, merchantID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.conn(tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ? AND merchant_id = ? AND is_active = ?", ids, merchantID, true).
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, TranslateError(err)
	}
	return products, nil
}

func (r *productRepo) AdjustStock(tx *gorm.DB, id, merchantID uuid.UUID, delta int, updatedBy string) (int64, error) {
	res := r.conn(tx).Model(&model.Product{}).
		Where("id = ? AND merchant_id = ? AND stock_qty + ? >= 0", id, merchantID, delta).
		Updates(map[string]interface{}{
			"stock_qty":  gorm.Expr("stock_qty + ?", delta),
			"updated_by": updatedBy,
		})
	return res.RowsAffected, TranslateError(res.Error)
}
