package service

import (
	"context"
	"errors"
	"time"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// openShiftConstraint is the partial unique index backing the single-open
// invariant; created during migration.
const openShiftConstraint = "uq_shifts_open_per_user_outlet"

// ShiftService owns the open/closed lifecycle of a cashier work session.
// A user has at most one open shift per outlet; closed is terminal.
type ShiftService interface {
	Open(ctx context.Context, merchantID, actorID, outletID uuid.UUID) (*model.Shift, error)
	Close(ctx context.Context, merchantID, actorID, shiftID uuid.UUID) (*model.Shift, error)
	GetShift(merchantID, id uuid.UUID) (*model.Shift, error)
	ListShifts(merchantID uuid.UUID, outletID *uuid.UUID) ([]model.Shift, error)
}

type shiftService struct {
	txm        repository.TxManager
	shiftRepo  repository.ShiftRepository
	outletRepo repository.OutletRepository
}

func NewShiftService(txm repository.TxManager, shiftRepo repository.ShiftRepository, outletRepo repository.OutletRepository) ShiftService {
	return &shiftService{
		txm:        txm,
		shiftRepo:  shiftRepo,
		outletRepo: outletRepo,
	}
}

func (s *shiftService) Open(ctx context.Context, merchantID, actorID, outletID uuid.UUID) (*model.Shift, error) {
	if _, err := s.outletRepo.FindByIDForMerchant(outletID, merchantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.UnauthorizedError{Resource: "Outlet", ID: outletID}
		}
		return nil, err
	}

	var shift *model.Shift
	err := s.txm.WithinTransaction(ctx, func(tx *gorm.DB) error {
		existing, err := s.shiftRepo.FindOpen(tx, outletID, actorID)
		if err != nil {
			return err
		}
		if existing != nil {
			return &apperr.AlreadyOpenError{ShiftID: existing.ID}
		}

		shift = &model.Shift{
			BaseModel: model.BaseModel{CreatedBy: actorID.String(), UpdatedBy: actorID.String()},
			OutletID:  outletID,
			UserID:    actorID,
			StartTime: time.Now(),
			Status:    model.ShiftOpen,
		}
		return s.shiftRepo.Create(tx, shift)
	})
	if err != nil {
		// The partial unique index catches the race two concurrent opens
		// can slip through the pre-check.
		if repository.IsUniqueViolation(err, openShiftConstraint) {
			return nil, &apperr.AlreadyOpenError{}
		}
		return nil, err
	}

	logger.Logger.Info().
		Str("shift_id", shift.ID.String()).
		Str("outlet_id", outletID.String()).
		Str("user_id", actorID.String()).
		Msg("shift opened")

	return s.reload(shift.ID, merchantID)
}

func (s *shiftService) Close(ctx context.Context, merchantID, actorID, shiftID uuid.UUID) (*model.Shift, error) {
	shift, err := s.shiftRepo.FindByIDForMerchant(shiftID, merchantID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Resource: "Shift", ID: shiftID}
	}
	if err != nil {
		return nil, err
	}
	if shift.Status == model.ShiftClosed {
		return nil, apperr.ErrAlreadyClosed
	}

	err = s.txm.WithinTransaction(ctx, func(tx *gorm.DB) error {
		rows, err := s.shiftRepo.CloseByID(tx, shiftID, time.Now(), actorID.String())
		if err != nil {
			return err
		}
		if rows == 0 {
			// A concurrent close got there first
			return apperr.ErrAlreadyClosed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Logger.Info().
		Str("shift_id", shiftID.String()).
		Str("user_id", actorID.String()).
		Msg("shift closed")

	return s.reload(shiftID, merchantID)
}

func (s *shiftService) GetShift(merchantID, id uuid.UUID) (*model.Shift, error) {
	return s.reload(id, merchantID)
}

func (s *shiftService) ListShifts(merchantID uuid.UUID, outletID *uuid.UUID) ([]model.Shift, error) {
	return s.shiftRepo.FindAllForMerchant(merchantID, outletID)
}

func (s *shiftService) reload(id, merchantID uuid.UUID) (*model.Shift, error) {
	shift, err := s.shiftRepo.FindByIDForMerchant(id, merchantID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Resource: "Shift", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return shift, nil
}
