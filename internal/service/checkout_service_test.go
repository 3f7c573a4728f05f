package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"

	"github.com/google/uuid"
)

func TestCheckout_SimpleSale(t *testing.T) {
	env := newTestEnv(t)
	merchantID := uuid.New()
	actorID := uuid.New()
	outlet := env.store.addOutlet(merchantID)
	product := env.store.addProduct(merchantID, "Americano", 15000, 100)

	transaction, err := env.checkout.Checkout(context.Background(), merchantID, actorID, &CheckoutInput{
		OutletID:      outlet.ID,
		PaymentMethod: "cash",
		Items:         []CheckoutItemInput{{ProductID: product.ID, Qty: 2}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if transaction.TotalAmount != 30000 {
		t.Errorf("expected total 30000, got %d", transaction.TotalAmount)
	}
	if len(transaction.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(transaction.Items))
	}
	item := transaction.Items[0]
	if item.ProductNameSnapshot != "Americano" || item.PriceSnapshot != 15000 || item.Qty != 2 || item.Subtotal != 30000 {
		t.Errorf("unexpected item snapshot: %+v", item)
	}

	if got := env.store.getProduct(product.ID).StockQty; got != 98 {
		t.Errorf("expected stock 98 after sale, got %d", got)
	}

	if len(env.store.logs) != 1 {
		t.Fatalf("expected exactly one ledger entry, got %d", len(env.store.logs))
	}
	log := env.store.logs[0]
	if log.ChangeQty != -2 || log.Reason != model.ReasonSale {
		t.Errorf("unexpected ledger entry: %+v", log)
	}
	if log.RefID == nil || *log.RefID != transaction.ID {
		t.Errorf("expected ledger entry to reference transaction %s, got %v", transaction.ID, log.RefID)
	}
}

func TestCheckout_CrossTenantOutlet(t *testing.T) {
	env := newTestEnv(t)
	merchantID := uuid.New()
	otherOutlet := env.store.addOutlet(uuid.New())
	product := env.store.addProduct(merchantID, "Americano", 15000, 100)

	_, err := env.checkout.Checkout(context.Background(), merchantID, uuid.New(), &CheckoutInput{
		OutletID:      otherOutlet.ID,
		PaymentMethod: "cash",
		Items:         []CheckoutItemInput{{ProductID: product.ID, Qty: 1}},
	})

	var unauthorized *apperr.UnauthorizedError
	if !errors.As(err, &unauthorized) {
		t.Fatalf("expected UnauthorizedError, got: %v", err)
	}
	if len(env.store.transactions) != 0 || len(env.store.logs) != 0 {
		t.Error("expected no rows written on cross-tenant rejection")
	}
	if got := env.store.getProduct(product.ID).StockQty; got != 100 {
		t.Errorf("expected stock unchanged at 100, got %d", got)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	env := newTestEnv(t)
	merchantID := uuid.New()
	outlet := env.store.addOutlet(merchantID)

	_, err := env.checkout.Checkout(context.Background(), merchantID, uuid.New(), &CheckoutInput{
		OutletID:      outlet.ID,
		PaymentMethod: "cash",
	})
	if !errors.Is(err, apperr.ErrEmptyCart) {
		t.Errorf("expected ErrEmptyCart, got: %v", err)
	}
}

func TestCheckout_InvalidQuantity(t *testing.T) {
	env := newTestEnv(t)
	merchantID := uuid.New()
	outlet := env.store.addOutlet(merchantID)
	product := env.store.addProduct(merchantID, "Americano", 15000, 100)

	_, err := env.checkout.Checkout(context.Background(), merchantID, uuid.New(), &CheckoutInput{
		OutletID:      outlet.ID,
		PaymentMethod: "cash",
		Items:         []CheckoutItemInput{{ProductID: product.ID, Qty: 0}},
	})
	if !errors.Is(err, apperr.ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got: %v", err)
	}
}

func TestCheckout_InactiveProduct(t *testing.T) {
	env := newTestEnv(t)
	merchantID := uuid.New()
	outlet := env.store.addOutlet(merchantID)
	product := env.store.addProduct(merchantID, "Americano", 15000, 100)
	env.store.products[product.ID].IsActive = false

	_, err := env.checkout.Checkout(context.Background(), merchantID, uuid.New(), &CheckoutInput{
		OutletID:      outlet.ID,
		PaymentMethod: "cash",
		Items:         []CheckoutItemInput{{ProductID: product.ID, Qty: 1}},
	})
	var notFound *apperr.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError for inactive product, got: %v", err)
	}
}

func TestCheckout_InsufficientStockAtomicity(t *testing.T) {
	env := newTestEnv(t)
	merchantID := uuid.New()
	actorID := uuid.New()
	outlet := env.store.addOutlet(merchantID)
	pA := env.store.addProduct(merchantID, "A", 1000, 50)
	pB := env.store.addProduct(merchantID, "B", 2000, 1)

	_, err := env.checkout.Checkout(context.Background(), merchantID, actorID, &CheckoutInput{
		OutletID:      outlet.ID,
		PaymentMethod: "cash",
		Items: []CheckoutItemInput{
			{ProductID: pA.ID, Qty: 5},
			{ProductID: pB.ID, Qty: 3},
		},
	})

	var insufficient *apperr.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got: %v", err)
	}
	if insufficient.ProductID != pB.ID || insufficient.Available != 1 || insufficient.Requested != 3 {
		t.Errorf("unexpected error detail: %+v", insufficient)
	}

	// No partial state: no transaction, no items, no logs, stock untouched.
	if len(env.store.transactions) != 0 {
		t.Errorf("expected no transactions, got %d", len(env.store.transactions))
	}
	if len(env.store.logs) != 0 {
		t.Errorf("expected no ledger entries, got %d", len(env.store.logs))
	}
	if got := env.store.getProduct(pA.ID).StockQty; got != 50 {
		t.Errorf("expected product A stock unchanged at 50, got %d", got)
	}
	if got := env.store.getProduct(pB.ID).StockQty; got != 1 {
		t.Errorf("expected product B stock unchanged at 1, got %d", got)
	}
}

func TestCheckout_NoOversellUnderConcurrency(t *testing.T) {
	env := newTestEnv(t)
	merchantID := uuid.New()
	outlet := env.store.addOutlet(merchantID)
	product := env.store.addProduct(merchantID, "Americano", 15000, 5)

	var successCount, failCount atomic.Int32
	var insufficientSeen atomic.Bool
	var wg sync.WaitGroup

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.checkout.Checkout(context.Background(), merchantID, uuid.New(), &CheckoutInput{
				OutletID:      outlet.ID,
				PaymentMethod: "cash",
				Items:         []CheckoutItemInput{{ProductID: product.ID, Qty: 3}},
			})
			if err == nil {
				successCount.Add(1)
				return
			}
			failCount.Add(1)
			var insufficient *apperr.InsufficientStockError
			if errors.As(err, &insufficient) {
				insufficientSeen.Store(true)
				if insufficient.Available > 2 || insufficient.Requested != 3 {
					t.Errorf("unexpected error detail: %+v", insufficient)
				}
			}
		}()
	}
	wg.Wait()

	if successCount.Load() != 1 || failCount.Load() != 1 {
		t.Fatalf("expected exactly one success and one failure, got %d/%d",
			successCount.Load(), failCount.Load())
	}
	if !insufficientSeen.Load() {
		t.Error("expected the losing checkout to fail with InsufficientStockError")
	}
	if got := env.store.getProduct(product.ID).StockQty; got != 2 {
		t.Errorf("expected final stock 2, got %d", got)
	}
	if len(env.store.transactions) != 1 {
		t.Errorf("expected exactly one persisted transaction, got %d", len(env.store.transactions))
	}
}

func TestCheckout_ShiftIsWeakReference(t *testing.T) {
	env := newTestEnv(t)
	merchantID := uuid.New()
	outlet := env.store.addOutlet(merchantID)
	product := env.store.addProduct(merchantID, "Americano", 15000, 10)

	// The shift id does not exist anywhere; checkout must still succeed and
	// store the id as given.
	bogusShift := uuid.New()
	transaction, err := env.checkout.Checkout(context.Background(), merchantID, uuid.New(), &CheckoutInput{
		OutletID:      outlet.ID,
		ShiftID:       &bogusShift,
		PaymentMethod: "qris",
		Items:         []CheckoutItemInput{{ProductID: product.ID, Qty: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transaction.ShiftID == nil || *transaction.ShiftID != bogusShift {
		t.Errorf("expected shift id stored as given, got %v", transaction.ShiftID)
	}
}

func TestCheckout_SnapshotsSurviveCatalogEdits(t *testing.T) {
	env := newTestEnv(t)
	merchantID := uuid.New()
	outlet := env.store.addOutlet(merchantID)
	product := env.store.addProduct(merchantID, "Americano", 15000, 10)

	transaction, err := env.checkout.Checkout(context.Background(), merchantID, uuid.New(), &CheckoutInput{
		OutletID:      outlet.ID,
		PaymentMethod: "cash",
		Items:         []CheckoutItemInput{{ProductID: product.ID, Qty: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Rename and reprice the product after the sale.
	env.store.products[product.ID].Name = "Long Black"
	env.store.products[product.ID].Price = 99000

	reloaded, err := env.checkout.GetTransaction(merchantID, transaction.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reloaded.Items[0].ProductNameSnapshot != "Americano" || reloaded.Items[0].PriceSnapshot != 15000 {
		t.Errorf("historical receipt mutated by catalog edit: %+v", reloaded.Items[0])
	}
}

func TestCheckout_MultiLineTotals(t *testing.T) {
	env := newTestEnv(t)
	merchantID := uuid.New()
	outlet := env.store.addOutlet(merchantID)
	pA := env.store.addProduct(merchantID, "Americano", 15000, 100)
	pB := env.store.addProduct(merchantID, "Croissant", 18000, 100)

	transaction, err := env.checkout.Checkout(context.Background(), merchantID, uuid.New(), &CheckoutInput{
		OutletID:      outlet.ID,
		PaymentMethod: "transfer",
		Items: []CheckoutItemInput{
			{ProductID: pA.ID, Qty: 2},
			{ProductID: pB.ID, Qty: 3},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantTotal := int64(2*15000 + 3*18000)
	if transaction.TotalAmount != wantTotal {
		t.Errorf("expected total %d, got %d", wantTotal, transaction.TotalAmount)
	}
	var itemSum int64
	for _, item := range transaction.Items {
		itemSum += item.Subtotal
	}
	if itemSum != transaction.TotalAmount {
		t.Errorf("total %d does not equal item subtotal sum %d", transaction.TotalAmount, itemSum)
	}
	if len(env.store.logs) != 2 {
		t.Errorf("expected one ledger entry per line, got %d", len(env.store.logs))
	}
}

func TestListTransactions_Pagination(t *testing.T) {
	env := newTestEnv(t)
	merchantID := uuid.New()
	outlet := env.store.addOutlet(merchantID)
	product := env.store.addProduct(merchantID, "Americano", 15000, 100)

	for i := 0; i < 5; i++ {
		_, err := env.checkout.Checkout(context.Background(), merchantID, uuid.New(), &CheckoutInput{
			OutletID:      outlet.ID,
			PaymentMethod: "cash",
			Items:         []CheckoutItemInput{{ProductID: product.ID, Qty: 1}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	page, meta, err := env.checkout.ListTransactions(merchantID, nil, repository.Pagination{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("expected 2 transactions on page, got %d", len(page))
	}
	if meta.Total != 5 || meta.TotalPages != 3 {
		t.Errorf("unexpected meta: %+v", meta)
	}
}
