package repository

import (
	"testing"

	"metallbau_backend/platform/apperr"

	"github.com/google/uuid"
)

func TestTransferPreconditionRejectsAlreadyTransferred(t *testing.T) {
	customerID := uuid.New()
	calc := &Calculation{Status: statusTransferred, CustomerID: &customerID}

	err := transferPrecondition(calc)
	if !apperr.Is(err, apperr.KindInvalidState) {
		t.Fatalf("second transfer must fail with invalid-state, got %v", err)
	}
}

func TestTransferPreconditionRequiresCustomer(t *testing.T) {
	calc := &Calculation{Status: "APPROVED"}

	err := transferPrecondition(calc)
	if !apperr.Is(err, apperr.KindInvalidState) {
		t.Fatalf("transfer without customer must fail with invalid-state, got %v", err)
	}
}

func TestTransferPreconditionAllowsNonTransferredWithCustomer(t *testing.T) {
	customerID := uuid.New()
	for _, status := range []string{"DRAFT", "CALCULATED", "APPROVED"} {
		calc := &Calculation{Status: status, CustomerID: &customerID}
		if err := transferPrecondition(calc); err != nil {
			t.Fatalf("status %s must be transferable, got %v", status, err)
		}
	}
}
