package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"smartfinance/internal/core"
	"smartfinance/internal/store"
)

// Store is an in-memory adapter implementing every persistence port.
// All methods are safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	seq      int64
	accounts map[string]core.Account
	txs      map[string]core.Transaction
	txOrder  []string
	bills    map[int64]core.RecurringBill
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[string]core.Account),
		txs:      make(map[string]core.Transaction),
		bills:    make(map[int64]core.RecurringBill),
	}
}

// SeedAccount inserts or replaces an account, for wiring and tests.
func (s *Store) SeedAccount(account core.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.ID] = account
}

// SeedBill inserts or replaces a recurring bill.
func (s *Store) SeedBill(bill core.RecurringBill) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bills[bill.ID] = bill
}

func (s *Store) GetAccount(_ context.Context, id string) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[id]
	if !ok {
		return core.Account{}, fmt.Errorf("account %q: %w", id, store.ErrNotFound)
	}
	return account, nil
}

func (s *Store) SaveAccount(_ context.Context, account core.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.ID] = account
	return nil
}

// AppendTransaction stores the transaction and returns a synthetic
// reference, assigning it as the transaction ID when one is missing.
func (s *Store) AppendTransaction(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if tx.ID == "" {
		tx.ID = fmt.Sprintf("mem:%d", s.seq)
	}
	if _, exists := s.txs[tx.ID]; exists {
		return "", fmt.Errorf("transaction %q already exists", tx.ID)
	}
	s.txs[tx.ID] = tx
	s.txOrder = append(s.txOrder, tx.ID)
	return tx.ID, nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("transaction %q: %w", id, store.ErrNotFound)
	}
	return tx, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txs[id]; !ok {
		return fmt.Errorf("transaction %q: %w", id, store.ErrNotFound)
	}
	delete(s.txs, id)
	for i, ref := range s.txOrder {
		if ref == id {
			s.txOrder = append(s.txOrder[:i], s.txOrder[i+1:]...)
			break
		}
	}
	return nil
}

// ListTransactions returns the account's transactions in insertion
// order. The result is a copy; callers may mutate it freely.
func (s *Store) ListTransactions(_ context.Context, accountID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, ref := range s.txOrder {
		tx := s.txs[ref]
		if tx.AccountID == accountID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *Store) ListActiveBills(_ context.Context) ([]core.RecurringBill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.RecurringBill
	for _, bill := range s.bills {
		if bill.Active {
			out = append(out, bill)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) MarkBillExecuted(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bill, ok := s.bills[id]
	if !ok {
		return fmt.Errorf("bill %d: %w", id, store.ErrNotFound)
	}
	bill.LastExecuted = at
	s.bills[id] = bill
	return nil
}
