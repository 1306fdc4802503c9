package service

import (
	"context"
	"testing"

	"metallbau_backend/internal/calculations/repository"
	"metallbau_backend/internal/calculations/transport"
	"metallbau_backend/platform/apperr"
	"metallbau_backend/platform/events"

	"github.com/google/uuid"
)

type zeroRateFallbackOff struct{}

func (zeroRateFallbackOff) GetZeroRateFallback() bool { return false }

// fakeStore serves a single calculation and counts write calls so tests can
// assert a rejected operation never reached the database.
type fakeStore struct {
	calc   *repository.Calculation
	writes int
}

func (f *fakeStore) NextNumber(_ context.Context, _ uuid.UUID) (string, error) {
	return "KA-2026-0001", nil
}

func (f *fakeStore) CreateWithItems(_ context.Context, _ *repository.Calculation, _ []repository.CostItem) error {
	f.writes++
	return nil
}

func (f *fakeStore) UpdateWithItems(_ context.Context, _ *repository.Calculation, _ []repository.CostItem, _ bool) error {
	f.writes++
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, _ uuid.UUID, _ uuid.UUID) (*repository.Calculation, error) {
	if f.calc == nil {
		return nil, apperr.NotFound("calculation not found")
	}
	copied := *f.calc
	return &copied, nil
}

func (f *fakeStore) GetItemsByCalculationID(_ context.Context, _ uuid.UUID, _ uuid.UUID) ([]repository.CostItem, error) {
	return nil, nil
}

func (f *fakeStore) List(_ context.Context, _ repository.ListParams) (*repository.ListResult, error) {
	return &repository.ListResult{}, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, _ uuid.UUID, _ uuid.UUID, _ string) error {
	f.writes++
	return nil
}

func (f *fakeStore) Delete(_ context.Context, _ uuid.UUID, _ uuid.UUID) error {
	f.writes++
	return nil
}

func (f *fakeStore) Transfer(_ context.Context, _ uuid.UUID, _ uuid.UUID, _ repository.QuoteWriter, _ repository.BuildQuoteFunc) (*repository.Calculation, *repository.TransferQuote, error) {
	f.writes++
	return f.calc, &repository.TransferQuote{}, nil
}

func newLifecycleService(store *fakeStore) *Service {
	return New(store, nil, events.NewInMemoryBus(nil), zeroRateFallbackOff{})
}

func transferredCalc() *repository.Calculation {
	customerID := uuid.New()
	return &repository.Calculation{
		ID:         uuid.New(),
		CompanyID:  uuid.New(),
		Number:     "KA-2026-0007",
		Status:     string(transport.CalculationStatusTransferred),
		CustomerID: &customerID,
	}
}

func TestUpdateRejectsTransferredCalculation(t *testing.T) {
	store := &fakeStore{calc: transferredCalc()}
	svc := newLifecycleService(store)

	_, err := svc.Update(context.Background(), store.calc.ID, store.calc.CompanyID, uuid.New(), transport.UpdateCalculationRequest{})
	if !apperr.Is(err, apperr.KindInvalidState) {
		t.Fatalf("expected invalid-state error, got %v", err)
	}
	if store.writes != 0 {
		t.Fatalf("rejected update must not write, got %d writes", store.writes)
	}
}

func TestUpdateStatusRejectsTransferredCalculation(t *testing.T) {
	store := &fakeStore{calc: transferredCalc()}
	svc := newLifecycleService(store)

	req := transport.UpdateCalculationStatusRequest{Status: transport.CalculationStatusDraft}
	_, err := svc.UpdateStatus(context.Background(), store.calc.ID, store.calc.CompanyID, uuid.New(), req)
	if !apperr.Is(err, apperr.KindInvalidState) {
		t.Fatalf("expected invalid-state error, got %v", err)
	}
	if store.writes != 0 {
		t.Fatalf("rejected status change must not write, got %d writes", store.writes)
	}
}

func TestDeleteRejectsTransferredCalculation(t *testing.T) {
	store := &fakeStore{calc: transferredCalc()}
	svc := newLifecycleService(store)

	err := svc.Delete(context.Background(), store.calc.ID, store.calc.CompanyID, uuid.New())
	if !apperr.Is(err, apperr.KindInvalidState) {
		t.Fatalf("expected invalid-state error, got %v", err)
	}
	if store.writes != 0 {
		t.Fatalf("rejected delete must not write, got %d writes", store.writes)
	}
}

func TestEnsureEditableAllowsNonTerminalStatuses(t *testing.T) {
	for _, status := range []transport.CalculationStatus{
		transport.CalculationStatusDraft,
		transport.CalculationStatusCalculated,
		transport.CalculationStatusApproved,
	} {
		if err := ensureEditable(string(status)); err != nil {
			t.Fatalf("status %s must be editable, got %v", status, err)
		}
	}
	if err := ensureEditable(string(transport.CalculationStatusTransferred)); !apperr.Is(err, apperr.KindInvalidState) {
		t.Fatalf("TRANSFERRED must be terminal, got %v", err)
	}
}
