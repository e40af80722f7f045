package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Expense  TransactionKind = "expense"
	Addition TransactionKind = "addition"
)

const (
	Subscription BillKind = "subscription"
	EMI          BillKind = "emi"
	Loan         BillKind = "loan"
)

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryShopping      Category = "Shopping"
	CategoryBills         Category = "Bills"
	CategoryEntertainment Category = "Entertainment"
	CategoryHealth        Category = "Health"
	CategoryEducation     Category = "Education"
	CategoryOther         Category = "Other"
)

// MaxDescriptionLength is the upper bound for free-text descriptions.
const MaxDescriptionLength = 200

type (
	TransactionKind string

	BillKind string

	// Category is one of the fixed expense tags. Unknown values are legal
	// on input and fall through to the default advice path.
	Category string

	// Transaction is an immutable ledger entry against one account.
	Transaction struct {
		ID          string
		AccountID   string
		Kind        TransactionKind
		Category    Category
		Amount      decimal.Decimal
		Timestamp   time.Time
		Description string
	}

	// Account holds the running totals for one user. The invariant
	// CurrentBalance == TotalAmount - sum(expense amounts) is maintained
	// by the services layer on every transaction create/delete.
	Account struct {
		ID             string
		TotalAmount    decimal.Decimal
		CurrentBalance decimal.Decimal
		TargetAmount   decimal.Decimal
	}

	// RecurringBill is a monthly obligation (subscription, EMI, loan)
	// billed on a fixed day of the month.
	RecurringBill struct {
		ID           int64
		AccountID    string
		Kind         BillKind
		Name         string
		Amount       decimal.Decimal
		BillingDay   int // day of month, 1-31, clamped to short months
		StartDate    time.Time
		EndDate      time.Time // zero when open-ended
		ReminderDays int
		AutoDeduct   bool
		Active       bool
		LastExecuted time.Time
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidKind        = errors.New("invalid transaction kind")
	ErrEmptyAccountID     = errors.New("empty account id")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrNegativeFigure     = errors.New("account figure cannot be negative")
	ErrInsufficientFunds  = errors.New("insufficient balance")
	ErrInvalidBillingDay  = errors.New("billing day must be between 1 and 31")
	ErrEmptyBillName      = errors.New("empty bill name")
	ErrInvalidBillKind    = errors.New("invalid bill kind")
)

// Categories returns the fixed tag set in canonical order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryTransport,
		CategoryShopping,
		CategoryBills,
		CategoryEntertainment,
		CategoryHealth,
		CategoryEducation,
		CategoryOther,
	}
}

// Known reports whether c is one of the fixed tags.
func (c Category) Known() bool {
	switch c {
	case CategoryFood, CategoryTransport, CategoryShopping, CategoryBills,
		CategoryEntertainment, CategoryHealth, CategoryEducation, CategoryOther:
		return true
	}
	return false
}

func (k TransactionKind) Valid() bool {
	return k == Expense || k == Addition
}

func (k BillKind) Valid() bool {
	return k == Subscription || k == EMI || k == Loan
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.AccountID) == "" {
		return ErrEmptyAccountID
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if t.Timestamp.IsZero() {
		return errors.New("timestamp cannot be zero")
	}
	if len(t.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

func (a Account) Validate() error {
	if a.TotalAmount.IsNegative() || a.CurrentBalance.IsNegative() || a.TargetAmount.IsNegative() {
		return ErrNegativeFigure
	}
	return nil
}

func (b RecurringBill) Validate() error {
	if strings.TrimSpace(b.AccountID) == "" {
		return ErrEmptyAccountID
	}
	if !b.Kind.Valid() {
		return ErrInvalidBillKind
	}
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyBillName
	}
	if len(b.Name) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if !b.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if b.BillingDay < 1 || b.BillingDay > 31 {
		return ErrInvalidBillingDay
	}
	if b.ReminderDays < 0 {
		return errors.New("reminder days cannot be negative")
	}
	if !b.EndDate.IsZero() && b.EndDate.Before(b.StartDate) {
		return errors.New("end date must be after start date")
	}
	return nil
}
