package billing

import (
	"context"
	"sync"

	"github.com/sumquiz/entitlements/pkg/account"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu       sync.Mutex
	payments map[string]PaymentRecord
	accounts account.Store
}

func NewMemoryStore(accounts account.Store) *MemoryStore {
	if accounts == nil {
		panic("billing: account store is required")
	}
	return &MemoryStore{
		payments: make(map[string]PaymentRecord),
		accounts: accounts,
	}
}

func (s *MemoryStore) GetPayment(ctx context.Context, transactionID string) (*PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.payments[transactionID]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	cp := rec
	return &cp, nil
}

func (s *MemoryStore) FinalizePayment(ctx context.Context, rec PaymentRecord, update account.PurchaseUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.accounts.ApplyPurchase(ctx, update); err != nil {
		return err
	}
	s.payments[rec.TransactionID] = rec
	return nil
}
