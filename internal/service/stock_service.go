package service

import (
	"context"
	"errors"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/ws"
	"go-pos-backend/pkg/logger"
	"go-pos-backend/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdjustmentInput is a manual (non-sale) stock correction request.
type AdjustmentInput struct {
	ProductID uuid.UUID         `json:"product_id" validate:"uuid_required"`
	ChangeQty int               `json:"change_qty"`
	Reason    model.StockReason `json:"reason" validate:"required"`
	Note      string            `json:"note" validate:"omitempty,max=255"`
}

// StockService handles manual stock corrections and exposes the ledger
// stream. Mutation goes through the same InventoryLedger primitive as
// checkout, so both paths share one non-negative invariant.
type StockService interface {
	Adjust(ctx context.Context, merchantID, actorID uuid.UUID, in *AdjustmentInput) (*StockChange, error)
	ListLogs(merchantID uuid.UUID, filter repository.StockLogFilter, p repository.Pagination) ([]model.StockLog, repository.PageMeta, error)
}

type stockService struct {
	ledger      InventoryLedger
	productRepo repository.ProductRepository
	logRepo     repository.StockLogRepository
	wsHub       *ws.Hub
}

func NewStockService(ledger InventoryLedger, productRepo repository.ProductRepository, logRepo repository.StockLogRepository, hub *ws.Hub) StockService {
	return &stockService{
		ledger:      ledger,
		productRepo: productRepo,
		logRepo:     logRepo,
		wsHub:       hub,
	}
}

func (s *stockService) Adjust(ctx context.Context, merchantID, actorID uuid.UUID, in *AdjustmentInput) (*StockChange, error) {
	if in.ChangeQty == 0 {
		return nil, apperr.ErrInvalidDelta
	}
	if !model.ValidAdjustmentReason(in.Reason) {
		return nil, apperr.ErrInvalidReason
	}

	change, err := s.ledger.ApplyChange(ctx, merchantID, actorID, in.ProductID, in.ChangeQty, in.Reason, nil, in.Note)
	if err != nil {
		if apperr.IsInsufficientStock(err) {
			metrics.InsufficientStockTotal.Inc()
		}
		return nil, err
	}

	metrics.StockChangesTotal.WithLabelValues(string(in.Reason)).Inc()
	logger.Logger.Info().
		Str("product_id", in.ProductID.String()).
		Int("change_qty", in.ChangeQty).
		Str("reason", string(in.Reason)).
		Int("new_qty", change.Product.StockQty).
		Msg("stock adjusted")

	if s.wsHub != nil {
		s.wsHub.BroadcastStockUpdate(ws.StockUpdateEvent{
			Action:    "adjustment",
			ProductID: in.ProductID,
			ChangeQty: in.ChangeQty,
			NewQty:    change.Product.StockQty,
			Reason:    string(in.Reason),
			ActorID:   actorID.String(),
		})
	}

	return change, nil
}

func (s *stockService) ListLogs(merchantID uuid.UUID, filter repository.StockLogFilter, p repository.Pagination) ([]model.StockLog, repository.PageMeta, error) {
	// When filtering by product, verify it belongs to this merchant first
	if filter.ProductID != nil {
		if _, err := s.productRepo.FindByID(nil, *filter.ProductID, merchantID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, repository.PageMeta{}, &apperr.NotFoundError{Resource: "Product", ID: *filter.ProductID}
			}
			return nil, repository.PageMeta{}, err
		}
	}

	p = p.Normalize()
	logs, total, err := s.logRepo.FindByMerchant(merchantID, filter, p)
	if err != nil {
		return nil, repository.PageMeta{}, err
	}
	return logs, repository.NewPageMeta(total, p), nil
}
