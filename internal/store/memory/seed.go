package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"smartfinance/internal/core"
)

// seedFile is the JSON shape accepted by LoadSeed. Amounts may be
// numbers or quoted decimal strings.
type seedFile struct {
	Accounts     []seedAccount     `json:"accounts"`
	Bills        []seedBill        `json:"bills"`
	Transactions []seedTransaction `json:"transactions"`
}

type seedAccount struct {
	ID             string          `json:"id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	TargetAmount   decimal.Decimal `json:"target_amount"`
}

type seedBill struct {
	ID           int64           `json:"id"`
	AccountID    string          `json:"account_id"`
	Kind         string          `json:"kind"`
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	BillingDay   int             `json:"billing_day"`
	StartDate    time.Time       `json:"start_date"`
	EndDate      time.Time       `json:"end_date"`
	ReminderDays int             `json:"reminder_days"`
	AutoDeduct   bool            `json:"auto_deduct"`
	Active       bool            `json:"active"`
}

type seedTransaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	Kind        string          `json:"kind"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Timestamp   time.Time       `json:"timestamp"`
	Description string          `json:"description"`
}

// LoadSeed populates the store from a JSON file. Every record is
// validated; the first invalid one aborts the load.
func (s *Store) LoadSeed(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	for _, a := range seed.Accounts {
		account := core.Account{
			ID:             a.ID,
			TotalAmount:    a.TotalAmount,
			CurrentBalance: a.CurrentBalance,
			TargetAmount:   a.TargetAmount,
		}
		if err := account.Validate(); err != nil {
			return fmt.Errorf("seed account %q: %w", a.ID, err)
		}
		s.SeedAccount(account)
	}

	for _, b := range seed.Bills {
		bill := core.RecurringBill{
			ID:           b.ID,
			AccountID:    b.AccountID,
			Kind:         core.BillKind(b.Kind),
			Name:         b.Name,
			Amount:       b.Amount,
			BillingDay:   b.BillingDay,
			StartDate:    b.StartDate,
			EndDate:      b.EndDate,
			ReminderDays: b.ReminderDays,
			AutoDeduct:   b.AutoDeduct,
			Active:       b.Active,
		}
		if err := bill.Validate(); err != nil {
			return fmt.Errorf("seed bill %d: %w", b.ID, err)
		}
		s.SeedBill(bill)
	}

	for _, t := range seed.Transactions {
		tx := core.Transaction{
			ID:          t.ID,
			AccountID:   t.AccountID,
			Kind:        core.TransactionKind(t.Kind),
			Category:    core.Category(t.Category),
			Amount:      t.Amount,
			Timestamp:   t.Timestamp,
			Description: t.Description,
		}
		if _, err := s.AppendTransaction(context.Background(), tx); err != nil {
			return fmt.Errorf("seed transaction %q: %w", t.ID, err)
		}
	}

	return nil
}
