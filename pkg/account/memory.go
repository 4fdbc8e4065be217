package account

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used in tests and local development.
// Transactions are serialized behind one mutex and rolled back from a
// snapshot on failure, which gives the same observable semantics as the
// document store's per-transaction isolation.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[string]*Account
}

// NewMemoryStore creates an empty in-memory account store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[string]*Account)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

func (s *MemoryStore) get(id string) (*Account, error) {
	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *MemoryStore) FindByReferralCode(ctx context.Context, code string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findByReferralCode(code)
}

func (s *MemoryStore) findByReferralCode(code string) (*Account, error) {
	// Deterministic first match: lowest account id wins if uniqueness was
	// ever violated upstream.
	ids := make([]string, 0, len(s.accounts))
	for id, a := range s.accounts {
		if a.ReferralCode == code {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, ErrNotFound
	}
	slices.Sort(ids)
	cp := *s.accounts[ids[0]]
	return &cp, nil
}

func (s *MemoryStore) SetReferralCode(ctx context.Context, id, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	for otherID, other := range s.accounts {
		if otherID != id && other.ReferralCode == code {
			return ErrReferralCodeTaken
		}
	}
	a.ReferralCode = code
	return nil
}

func (s *MemoryStore) MarkExpired(ctx context.Context, id string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return false, ErrNotFound
	}
	if !a.IsPro || a.Entitlement.Status != EntitlementExpiresAt || a.Entitlement.ExpiresAt.After(now) {
		return false, nil
	}
	a.Expire(now)
	return true, nil
}

func (s *MemoryStore) RevokeExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, a := range s.accounts {
		if a.IsPro && a.Entitlement.Status == EntitlementExpiresAt && !a.Entitlement.ExpiresAt.After(now) {
			a.Expire(now)
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) ApplyPurchase(ctx context.Context, u PurchaseUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyPurchase(u)
}

func (s *MemoryStore) applyPurchase(u PurchaseUpdate) error {
	a, ok := s.accounts[u.AccountID]
	if !ok {
		a = &Account{ID: u.AccountID, CreatedAt: u.VerifiedAt.UTC()}
		s.accounts[u.AccountID] = a
	}
	verifiedAt := u.VerifiedAt.UTC()
	a.IsPro = u.IsPro
	a.Entitlement = u.Entitlement
	a.CurrentProduct = u.CurrentProduct
	a.LastWebhookEvent = u.LastWebhookEvent
	a.LastVerified = &verifiedAt
	return nil
}

func (s *MemoryStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Txn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[string]*Account, len(s.accounts))
	for id, a := range s.accounts {
		cp := *a
		snapshot[id] = &cp
	}

	if err := fn(ctx, &memoryTxn{store: s}); err != nil {
		s.accounts = snapshot
		return err
	}
	return nil
}

type memoryTxn struct {
	store *MemoryStore
}

func (t *memoryTxn) Get(ctx context.Context, id string) (*Account, error) {
	return t.store.get(id)
}

func (t *memoryTxn) FindByReferralCode(ctx context.Context, code string) (*Account, error) {
	return t.store.findByReferralCode(code)
}

func (t *memoryTxn) Create(ctx context.Context, a *Account) error {
	if _, ok := t.store.accounts[a.ID]; ok {
		return ErrAlreadyExists
	}
	cp := *a
	t.store.accounts[a.ID] = &cp
	return nil
}

func (t *memoryTxn) Update(ctx context.Context, a *Account) error {
	if _, ok := t.store.accounts[a.ID]; !ok {
		return ErrNotFound
	}
	cp := *a
	t.store.accounts[a.ID] = &cp
	return nil
}
