package service

import (
	"context"
	"errors"
	"testing"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"

	"github.com/google/uuid"
)

func TestShiftOpen_Success(t *testing.T) {
	env := newTestEnv(t)
	merchantID := uuid.New()
	actorID := uuid.New()
	outlet := env.store.addOutlet(merchantID)

	shift, err := env.shifts.Open(context.Background(), merchantID, actorID, outlet.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shift.Status != model.ShiftOpen {
		t.Errorf("expected status open, got %q", shift.Status)
	}
	if shift.OutletID != outlet.ID || shift.UserID != actorID {
		t.Errorf("unexpected shift ownership: %+v", shift)
	}
	if shift.StartTime.IsZero() {
		t.Error("expected start time to be set")
	}
	if shift.EndTime != nil {
		t.Errorf("expected nil end time on open shift, got %v", shift.EndTime)
	}
}

func TestShiftOpen_SecondOpenRejected(t *testing.T) {
	env := newTestEnv(t)
	merchantID := uuid.New()
	actorID := uuid.New()
	outlet := env.store.addOutlet(merchantID)

	first, err := env.shifts.Open(context.Background(), merchantID, actorID, outlet.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = env.shifts.Open(context.Background(), merchantID, actorID, outlet.ID)
	var alreadyOpen *apperr.AlreadyOpenError
	if !errors.As(err, &alreadyOpen) {
		t.Fatalf("expected AlreadyOpenError, got: %v", err)
	}
	if alreadyOpen.ShiftID != first.ID {
		t.Errorf("expected existing shift id %s in error, got %s", first.ID, alreadyOpen.ShiftID)
	}
}

func TestShiftOpen_SameUserDifferentOutlets(t *testing.T) {
	env := newTestEnv(t)
	merchantID := uuid.New()
	actorID := uuid.New()
	outletA := env.store.addOutlet(merchantID)
	outletB := env.store.addOutlet(merchantID)

	if _, err := env.shifts.Open(context.Background(), merchantID, actorID, outletA.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The invariant is per user+outlet, so a second outlet is fine.
	if _, err := env.shifts.Open(context.Background(), merchantID, actorID, outletB.ID); err != nil {
		t.Fatalf("unexpected error opening on second outlet: %v", err)
	}
}

func TestShiftOpen_CrossTenantOutlet(t *testing.T) {
	env := newTestEnv(t)
	outlet := env.store.addOutlet(uuid.New())

	_, err := env.shifts.Open(context.Background(), uuid.New(), uuid.New(), outlet.ID)
	var unauthorized *apperr.UnauthorizedError
	if !errors.As(err, &unauthorized) {
		t.Fatalf("expected UnauthorizedError, got: %v", err)
	}
}

func TestShiftClose_Success(t *testing.T) {
	env := newTestEnv(t)
	merchantID := uuid.New()
	actorID := uuid.New()
	outlet := env.store.addOutlet(merchantID)

	opened, err := env.shifts.Open(context.Background(), merchantID, actorID, outlet.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	closed, err := env.shifts.Close(context.Background(), merchantID, actorID, opened.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closed.Status != model.ShiftClosed {
		t.Errorf("expected status closed, got %q", closed.Status)
	}
	if closed.EndTime == nil {
		t.Fatal("expected end time to be set")
	}
	if closed.EndTime.Before(closed.StartTime) {
		t.Errorf("end time %v before start time %v", closed.EndTime, closed.StartTime)
	}
}

func TestShiftClose_Twice(t *testing.T) {
	env := newTestEnv(t)
	merchantID := uuid.New()
	actorID := uuid.New()
	outlet := env.store.addOutlet(merchantID)

	opened, err := env.shifts.Open(context.Background(), merchantID, actorID, outlet.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.shifts.Close(context.Background(), merchantID, actorID, opened.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = env.shifts.Close(context.Background(), merchantID, actorID, opened.ID)
	if !errors.Is(err, apperr.ErrAlreadyClosed) {
		t.Errorf("expected ErrAlreadyClosed, got: %v", err)
	}
}

func TestShiftClose_UnknownID(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.shifts.Close(context.Background(), uuid.New(), uuid.New(), uuid.New())
	var notFound *apperr.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got: %v", err)
	}
}

func TestShiftClose_CrossTenant(t *testing.T) {
	env := newTestEnv(t)
	merchantID := uuid.New()
	actorID := uuid.New()
	outlet := env.store.addOutlet(merchantID)

	opened, err := env.shifts.Open(context.Background(), merchantID, actorID, outlet.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Another merchant cannot see, let alone close, the shift.
	_, err = env.shifts.Close(context.Background(), uuid.New(), uuid.New(), opened.ID)
	var notFound *apperr.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got: %v", err)
	}
	reloaded, err := env.shifts.GetShift(merchantID, opened.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reloaded.Status != model.ShiftOpen {
		t.Errorf("shift closed across tenants, status %q", reloaded.Status)
	}
}

func TestShiftReopenAfterClose(t *testing.T) {
	env := newTestEnv(t)
	merchantID := uuid.New()
	actorID := uuid.New()
	outlet := env.store.addOutlet(merchantID)

	first, err := env.shifts.Open(context.Background(), merchantID, actorID, outlet.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.shifts.Close(context.Background(), merchantID, actorID, first.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := env.shifts.Open(context.Background(), merchantID, actorID, outlet.ID)
	if err != nil {
		t.Fatalf("expected new shift after close, got: %v", err)
	}
	if second.ID == first.ID {
		t.Error("expected a fresh shift record, got the old one reused")
	}
}

func TestListShifts_FilterByOutlet(t *testing.T) {
	env := newTestEnv(t)
	merchantID := uuid.New()
	outletA := env.store.addOutlet(merchantID)
	outletB := env.store.addOutlet(merchantID)

	if _, err := env.shifts.Open(context.Background(), merchantID, uuid.New(), outletA.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.shifts.Open(context.Background(), merchantID, uuid.New(), outletB.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := env.shifts.ListShifts(merchantID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 shifts, got %d", len(all))
	}

	onlyA, err := env.shifts.ListShifts(merchantID, &outletA.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(onlyA) != 1 || onlyA[0].OutletID != outletA.ID {
		t.Errorf("unexpected filtered result: %+v", onlyA)
	}
}
