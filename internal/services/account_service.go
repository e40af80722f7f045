package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"smartfinance/internal/amqp"
	"smartfinance/internal/core"
	"smartfinance/internal/insight"
	"smartfinance/internal/store"
)

// AccountService orchestrates account mutations, keeps the balance
// figures consistent with the ledger, and exposes the insight pipeline.
type AccountService struct {
	accounts   store.AccountStore
	txs        store.TransactionStore
	engine     *insight.Engine
	amqpClient *amqp.Client
	now        func() time.Time
}

func NewAccountService(accounts store.AccountStore, txs store.TransactionStore, engine *insight.Engine, amqpClient *amqp.Client) *AccountService {
	return &AccountService{
		accounts:   accounts,
		txs:        txs,
		engine:     engine,
		amqpClient: amqpClient,
		now:        time.Now,
	}
}

// AddFunds parses the raw amount, raises both the total and the current
// balance, and records an addition transaction.
func (s *AccountService) AddFunds(ctx context.Context, accountID, rawAmount, description string) (core.Transaction, error) {
	amount, err := core.ParseAmount(rawAmount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount: %w", err)
	}

	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load account: %w", err)
	}

	tx := core.Transaction{
		AccountID:   accountID,
		Kind:        core.Addition,
		Amount:      amount,
		Timestamp:   s.now(),
		Description: description,
	}

	account.TotalAmount = account.TotalAmount.Add(amount)
	account.CurrentBalance = account.CurrentBalance.Add(amount)

	tx, err = s.commit(ctx, account, tx)
	if err != nil {
		return core.Transaction{}, err
	}

	s.publishTransactionEvent(ctx, tx, "recorded")
	return tx, nil
}

// RecordExpense parses the raw amount, checks the balance, lowers it,
// and records an expense transaction. The account is untouched when the
// balance does not cover the amount.
func (s *AccountService) RecordExpense(ctx context.Context, accountID, rawAmount string, category core.Category, description string) (core.Transaction, error) {
	amount, err := core.ParseAmount(rawAmount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount: %w", err)
	}

	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load account: %w", err)
	}

	if account.CurrentBalance.LessThan(amount) {
		return core.Transaction{}, core.ErrInsufficientFunds
	}

	if category == "" {
		category = core.CategoryOther
	}

	tx := core.Transaction{
		AccountID:   accountID,
		Kind:        core.Expense,
		Category:    category,
		Amount:      amount,
		Timestamp:   s.now(),
		Description: description,
	}

	account.CurrentBalance = account.CurrentBalance.Sub(amount)

	tx, err = s.commit(ctx, account, tx)
	if err != nil {
		return core.Transaction{}, err
	}

	s.publishTransactionEvent(ctx, tx, "recorded")
	return tx, nil
}

// DeleteTransaction removes a ledger entry and reverses its effect on
// the account figures: deleting an expense restores the balance,
// deleting an addition lowers both the balance and the total.
func (s *AccountService) DeleteTransaction(ctx context.Context, id string) error {
	tx, err := s.txs.GetTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}

	account, err := s.accounts.GetAccount(ctx, tx.AccountID)
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}

	switch tx.Kind {
	case core.Expense:
		account.CurrentBalance = account.CurrentBalance.Add(tx.Amount)
	case core.Addition:
		account.CurrentBalance = account.CurrentBalance.Sub(tx.Amount)
		account.TotalAmount = account.TotalAmount.Sub(tx.Amount)
	default:
		return core.ErrInvalidKind
	}

	if err := account.Validate(); err != nil {
		return fmt.Errorf("reversal leaves account inconsistent: %w", err)
	}

	if err := s.txs.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if err := s.accounts.SaveAccount(ctx, account); err != nil {
		return fmt.Errorf("save account: %w", err)
	}

	s.publishTransactionEvent(ctx, tx, "deleted")
	return nil
}

// SetTarget updates the savings goal used by the insight rules.
func (s *AccountService) SetTarget(ctx context.Context, accountID, rawTarget string) error {
	target, err := core.ParseAmount(rawTarget)
	if err != nil {
		return fmt.Errorf("parse target: %w", err)
	}

	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}

	account.TargetAmount = target
	if err := s.accounts.SaveAccount(ctx, account); err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

// Insights runs the analysis pipeline over the account's full history.
// Computation failures are logged and replaced with the fallback bundle
// so callers always get something renderable.
func (s *AccountService) Insights(ctx context.Context, accountID string) (insight.Bundle, error) {
	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return insight.Bundle{}, fmt.Errorf("load account: %w", err)
	}

	transactions, err := s.txs.ListTransactions(ctx, accountID)
	if err != nil {
		return insight.Bundle{}, fmt.Errorf("list transactions: %w", err)
	}

	bundle, err := s.engine.Analyze(account, transactions)
	if err != nil {
		var compErr *insight.ComputationError
		if errors.As(err, &compErr) {
			slog.ErrorContext(ctx, "Insight computation failed, serving fallback",
				"account_id", accountID,
				"error", err)
			return insight.FallbackBundle(), nil
		}
		return insight.Bundle{}, err
	}

	return bundle, nil
}

// commit appends the transaction and saves the account, undoing the
// append when the save fails so the ledger and figures stay in step.
func (s *AccountService) commit(ctx context.Context, account core.Account, tx core.Transaction) (core.Transaction, error) {
	ref, err := s.txs.AppendTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("append transaction: %w", err)
	}
	tx.ID = ref

	if err := s.accounts.SaveAccount(ctx, account); err != nil {
		if delErr := s.txs.DeleteTransaction(ctx, ref); delErr != nil {
			slog.ErrorContext(ctx, "Failed to undo transaction after account save failure",
				"transaction_id", ref,
				"error", delErr)
		}
		return core.Transaction{}, fmt.Errorf("save account: %w", err)
	}

	return tx, nil
}

func (s *AccountService) publishTransactionEvent(ctx context.Context, tx core.Transaction, action string) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping transaction event")
		return
	}

	msg := amqp.NewTransactionEvent(tx.ID, tx.AccountID, string(tx.Kind), string(tx.Category), tx.Amount.String(), action)
	if err := s.amqpClient.PublishTransactionEvent(ctx, msg); err != nil {
		// The ledger write already succeeded; the event is best effort.
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"transaction_id", tx.ID,
			"action", action,
			"error", err)
	}
}
