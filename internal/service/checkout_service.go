package service

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"time"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/ws"
	"go-pos-backend/pkg/logger"
	"go-pos-backend/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckoutItemInput is one cart line.
type CheckoutItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Qty       int       `json:"qty" validate:"required,gt=0"`
}

// CheckoutInput is the request consumed from the HTTP boundary. Caller
// identity (actor, merchant) arrives separately, already authenticated.
type CheckoutInput struct {
	OutletID      uuid.UUID           `json:"outlet_id" validate:"uuid_required"`
	ShiftID       *uuid.UUID          `json:"shift_id"`
	PaymentMethod string              `json:"payment_method" validate:"required,max=50"`
	DeviceID      *string             `json:"device_id" validate:"omitempty,max=120"`
	IsOffline     bool                `json:"is_offline"`
	Items         []CheckoutItemInput `json:"items"`
}

// CheckoutService turns a cart into a durable sale: price snapshots, total
// computation, atomic multi-product stock decrement and the transaction
// record are one indivisible unit.
type CheckoutService interface {
	Checkout(ctx context.Context, merchantID, actorID uuid.UUID, in *CheckoutInput) (*model.Transaction, error)
	GetTransaction(merchantID, id uuid.UUID) (*model.Transaction, error)
	ListTransactions(merchantID uuid.UUID, outletID *uuid.UUID, p repository.Pagination) ([]model.Transaction, repository.PageMeta, error)
}

type checkoutService struct {
	txm             repository.TxManager
	outletRepo      repository.OutletRepository
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	ledger          InventoryLedger
	wsHub           *ws.Hub
}

func NewCheckoutService(
	txm repository.TxManager,
	outletRepo repository.OutletRepository,
	productRepo repository.ProductRepository,
	transactionRepo repository.TransactionRepository,
	ledger InventoryLedger,
	hub *ws.Hub,
) CheckoutService {
	return &checkoutService{
		txm:             txm,
		outletRepo:      outletRepo,
		productRepo:     productRepo,
		transactionRepo: transactionRepo,
		ledger:          ledger,
		wsHub:           hub,
	}
}

func (s *checkoutService) Checkout(ctx context.Context, merchantID, actorID uuid.UUID, in *CheckoutInput) (*model.Transaction, error) {
	start := time.Now()

	result, err := s.checkout(ctx, merchantID, actorID, in)
	if err != nil {
		metrics.TransactionsTotal.WithLabelValues(checkoutStatus(err)).Inc()
		return nil, err
	}

	metrics.TransactionsTotal.WithLabelValues("success").Inc()
	metrics.CheckoutDuration.Observe(time.Since(start).Seconds())
	logger.Logger.Info().
		Str("transaction_id", result.transaction.ID.String()).
		Str("outlet_id", in.OutletID.String()).
		Int64("total_amount", result.transaction.TotalAmount).
		Int("items", len(result.transaction.Items)).
		Msg("checkout completed")

	if s.wsHub != nil {
		for _, e := range result.events {
			s.wsHub.BroadcastStockUpdate(e)
		}
	}

	return result.transaction, nil
}

type checkoutResult struct {
	transaction *model.Transaction
	events      []ws.StockUpdateEvent
}

func (s *checkoutService) checkout(ctx context.Context, merchantID, actorID uuid.UUID, in *CheckoutInput) (*checkoutResult, error) {
	// Outlet tenant ownership is the first gate; a cross-tenant outlet is a
	// hard authorization failure, not a not-found.
	if _, err := s.outletRepo.FindByIDForMerchant(in.OutletID, merchantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.UnauthorizedError{Resource: "Outlet", ID: in.OutletID}
		}
		return nil, err
	}

	if len(in.Items) == 0 {
		return nil, apperr.ErrEmptyCart
	}
	for _, item := range in.Items {
		if item.Qty <= 0 {
			return nil, apperr.ErrInvalidQuantity
		}
	}

	productIDs := uniqueSortedIDs(in.Items)

	var transaction *model.Transaction
	var events []ws.StockUpdateEvent

	err := s.txm.WithinTransaction(ctx, func(tx *gorm.DB) error {
		// Lock all product rows up front, in ascending id order. Name and
		// price snapshots are taken under this lock, so the price charged is
		// the price in effect at the moment stock is reserved.
		products, err := s.productRepo.FindActiveForUpdate(tx, productIDs, merchantID)
		if err != nil {
			return err
		}

		productMap := make(map[uuid.UUID]*model.Product, len(products))
		for i := range products {
			productMap[products[i].ID] = &products[i]
		}
		for _, id := range productIDs {
			if _, ok := productMap[id]; !ok {
				return &apperr.NotFoundError{Resource: "Product", ID: id}
			}
		}

		var totalAmount int64
		items := make([]model.TransactionItem, 0, len(in.Items))
		batch := make([]BatchItem, 0, len(in.Items))
		requested := make(map[uuid.UUID]int, len(productIDs))

		for _, line := range in.Items {
			product := productMap[line.ProductID]
			subtotal := product.Price * int64(line.Qty)
			totalAmount += subtotal
			requested[line.ProductID] += line.Qty

			items = append(items, model.TransactionItem{
				BaseModel:           model.BaseModel{CreatedBy: actorID.String(), UpdatedBy: actorID.String()},
				ProductID:           product.ID,
				ProductNameSnapshot: product.Name,
				PriceSnapshot:       product.Price,
				Qty:                 line.Qty,
				Subtotal:            subtotal,
			})
			batch = append(batch, BatchItem{ProductID: line.ProductID, Delta: -line.Qty})
		}

		transaction = &model.Transaction{
			BaseModel:     model.BaseModel{CreatedBy: actorID.String(), UpdatedBy: actorID.String()},
			OutletID:      in.OutletID,
			UserID:        actorID,
			ShiftID:       in.ShiftID, // weak reference, stored as given
			PaymentMethod: in.PaymentMethod,
			TotalAmount:   totalAmount,
			IsOffline:     in.IsOffline,
			DeviceID:      in.DeviceID,
			Items:         items,
		}
		if err := s.transactionRepo.Create(tx, transaction); err != nil {
			return err
		}

		refID := transaction.ID
		if _, err := s.ledger.ApplyBatch(tx, merchantID, actorID, batch, model.ReasonSale, &refID); err != nil {
			return err
		}

		events = make([]ws.StockUpdateEvent, 0, len(productIDs))
		for _, id := range productIDs {
			product := productMap[id]
			events = append(events, ws.StockUpdateEvent{
				Action:    "sale",
				ProductID: id,
				ChangeQty: -requested[id],
				NewQty:    product.StockQty - requested[id],
				Reason:    string(model.ReasonSale),
				RefID:     &refID,
				ActorID:   actorID.String(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.StockChangesTotal.WithLabelValues(string(model.ReasonSale)).Add(float64(len(in.Items)))

	// Return the durable read model, items included, for receipt rendering.
	persisted, err := s.transactionRepo.FindByIDForMerchant(transaction.ID, merchantID)
	if err != nil {
		return nil, err
	}
	return &checkoutResult{transaction: persisted, events: events}, nil
}

func (s *checkoutService) GetTransaction(merchantID, id uuid.UUID) (*model.Transaction, error) {
	transaction, err := s.transactionRepo.FindByIDForMerchant(id, merchantID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Resource: "Transaction", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

func (s *checkoutService) ListTransactions(merchantID uuid.UUID, outletID *uuid.UUID, p repository.Pagination) ([]model.Transaction, repository.PageMeta, error) {
	p = p.Normalize()
	transactions, total, err := s.transactionRepo.FindAllForMerchant(merchantID, outletID, p)
	if err != nil {
		return nil, repository.PageMeta{}, err
	}
	return transactions, repository.NewPageMeta(total, p), nil
}

func uniqueSortedIDs(items []CheckoutItemInput) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}

func checkoutStatus(err error) string {
	switch {
	case apperr.IsInsufficientStock(err):
		metrics.InsufficientStockTotal.Inc()
		return "insufficient_stock"
	case errors.Is(err, apperr.ErrStorageConflict):
		return "conflict"
	default:
		return "error"
	}
}
