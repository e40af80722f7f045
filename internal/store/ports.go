// Package store defines the outbound persistence ports. The relational
// adapter lives outside this module; the in-memory adapter under
// store/memory backs the services, the worker, and tests.
package store

import (
	"context"
	"errors"
	"time"

	"smartfinance/internal/core"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

type (
	AccountStore interface {
		GetAccount(ctx context.Context, id string) (core.Account, error)
		SaveAccount(ctx context.Context, account core.Account) error
	}

	TransactionStore interface {
		// AppendTransaction stores the transaction and returns its reference.
		AppendTransaction(ctx context.Context, tx core.Transaction) (string, error)
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id string) error
		// ListTransactions returns all transactions for one account.
		ListTransactions(ctx context.Context, accountID string) ([]core.Transaction, error)
	}

	BillStore interface {
		ListActiveBills(ctx context.Context) ([]core.RecurringBill, error)
		MarkBillExecuted(ctx context.Context, id int64, at time.Time) error
	}
)
