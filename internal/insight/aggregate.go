package insight

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"smartfinance/internal/core"
)

// Rollup is the derived aggregate view of an expense history. It is
// rebuilt on every invocation; nothing is cached or updated in place.
type Rollup struct {
	TotalExpenses decimal.Decimal
	ByCategory    map[core.Category]decimal.Decimal
	ByWeek        map[string]decimal.Decimal
	ExpenseCount  int
	MeanExpense   decimal.Decimal
	Last7Days     decimal.Decimal
	Last30Days    decimal.Decimal
}

// Aggregate rolls an unordered transaction collection up into sums.
// Only expense-kind transactions contribute; the 7- and 30-day windows
// are measured back from now, so the rollup is a live snapshot rather
// than a stored report. Empty input yields all-zero sums and a zero
// mean.
func Aggregate(transactions []core.Transaction, now time.Time) Rollup {
	r := Rollup{
		TotalExpenses: decimal.Zero,
		ByCategory:    make(map[core.Category]decimal.Decimal),
		ByWeek:        make(map[string]decimal.Decimal),
		MeanExpense:   decimal.Zero,
		Last7Days:     decimal.Zero,
		Last30Days:    decimal.Zero,
	}

	sevenDaysAgo := now.AddDate(0, 0, -7)
	thirtyDaysAgo := now.AddDate(0, 0, -30)

	for _, tx := range transactions {
		if tx.Kind != core.Expense {
			continue
		}
		r.TotalExpenses = r.TotalExpenses.Add(tx.Amount)
		r.ExpenseCount++

		category := tx.Category
		if category == "" {
			category = core.CategoryOther
		}
		r.ByCategory[category] = r.ByCategory[category].Add(tx.Amount)

		if !tx.Timestamp.Before(sevenDaysAgo) {
			r.Last7Days = r.Last7Days.Add(tx.Amount)
		}
		if !tx.Timestamp.Before(thirtyDaysAgo) {
			r.Last30Days = r.Last30Days.Add(tx.Amount)
		}

		_, week := tx.Timestamp.ISOWeek()
		key := fmt.Sprintf("Week %d", week)
		r.ByWeek[key] = r.ByWeek[key].Add(tx.Amount)
	}

	// Zero guard: an empty history must never divide.
	if r.ExpenseCount > 0 {
		r.MeanExpense = r.TotalExpenses.Div(decimal.NewFromInt(int64(r.ExpenseCount)))
	}

	return r
}
