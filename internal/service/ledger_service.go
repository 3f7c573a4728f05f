package service

import (
	"bytes"
	"context"
	"errors"
	"sort"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BatchItem is one signed stock movement inside a batch.
type BatchItem struct {
	ProductID uuid.UUID
	Delta     int
}

// StockChange is the result of a single applied ledger change.
type StockChange struct {
	Product *model.Product  `json:"product"`
	Log     *model.StockLog `json:"log"`
}

// InventoryLedger is the single authority for mutating stock quantity. Every
// change goes through a conditional update that refuses to drive the quantity
// negative, and every applied change appends exactly one immutable log entry
// in the same storage transaction. No other component writes stock_qty.
type InventoryLedger interface {
	// ApplyChange applies one signed delta in its own storage transaction.
	ApplyChange(ctx context.Context, merchantID, actorID, productID uuid.UUID,
		delta int, reason model.StockReason, refID *uuid.UUID, note string) (*StockChange, error)

	// ApplyBatch applies several deltas all-or-nothing inside the caller's
	// transaction. Items are processed in ascending product id order so two
	// concurrent batches over overlapping products cannot deadlock. The first
	// item that would oversell aborts the whole batch.
	ApplyBatch(tx *gorm.DB, merchantID, actorID uuid.UUID,
		items []BatchItem, reason model.StockReason, refID *uuid.UUID) ([]model.StockLog, error)
}

type inventoryLedger struct {
	txm         repository.TxManager
	productRepo repository.ProductRepository
	logRepo     repository.StockLogRepository
}

func NewInventoryLedger(txm repository.TxManager, productRepo repository.ProductRepository, logRepo repository.StockLogRepository) InventoryLedger {
	return &inventoryLedger{
		txm:         txm,
		productRepo: productRepo,
		logRepo:     logRepo,
	}
}

func (l *inventoryLedger) ApplyChange(ctx context.Context, merchantID, actorID, productID uuid.UUID,
	delta int, reason model.StockReason, refID *uuid.UUID, note string) (*StockChange, error) {

	if delta == 0 {
		return nil, apperr.ErrInvalidDelta
	}

	var change StockChange
	err := l.txm.WithinTransaction(ctx, func(tx *gorm.DB) error {
		log, err := l.applyOne(tx, merchantID, actorID, productID, delta, reason, refID, note)
		if err != nil {
			return err
		}

		product, err := l.productRepo.FindByID(tx, productID, merchantID)
		if err != nil {
			return err
		}

		change.Product = product
		change.Log = log
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &change, nil
}

func (l *inventoryLedger) ApplyBatch(tx *gorm.DB, merchantID, actorID uuid.UUID,
	items []BatchItem, reason model.StockReason, refID *uuid.UUID) ([]model.StockLog, error) {

	for _, item := range items {
		if item.Delta == 0 {
			return nil, apperr.ErrInvalidDelta
		}
	}

	// Fixed global ordering across concurrent batches
	ordered := make([]BatchItem, len(items))
	copy(ordered, items)
	sort.Slice(ordered, func(i, j int) bool {
		return bytes.Compare(ordered[i].ProductID[:], ordered[j].ProductID[:]) < 0
	})

	logs := make([]model.StockLog, 0, len(ordered))
	for _, item := range ordered {
		log, err := l.applyOne(tx, merchantID, actorID, item.ProductID, item.Delta, reason, refID, "")
		if err != nil {
			return nil, err
		}
		logs = append(logs, *log)
	}
	return logs, nil
}

// applyOne performs the conditional decrement and the matching log append.
// A zero affected-row count is re-read to tell a missing product apart from
// an oversell, so the caller always gets a precise typed error.
func (l *inventoryLedger) applyOne(tx *gorm.DB, merchantID, actorID, productID uuid.UUID,
	delta int, reason model.StockReason, refID *uuid.UUID, note string) (*model.StockLog, error) {

	rows, err := l.productRepo.AdjustStock(tx, productID, merchantID, delta, actorID.String())
	if err != nil {
		return nil, err
	}

	if rows == 0 {
		product, err := l.productRepo.FindByID(tx, productID, merchantID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Resource: "Product", ID: productID}
		}
		if err != nil {
			return nil, err
		}
		return nil, &apperr.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.StockQty,
			Requested:   -delta,
		}
	}

	log := &model.StockLog{
		ProductID: productID,
		ChangeQty: delta,
		Reason:    reason,
		RefID:     refID,
		Note:      note,
		CreatedBy: actorID.String(),
	}
	if err := l.logRepo.Create(tx, log); err != nil {
		return nil, err
	}
	return log, nil
}
