package insight

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"smartfinance/internal/core"
)

const (
	// DefaultAnomalyWindow bounds the scan to the most recent
	// transactions by timestamp. The value is inherited behavior;
	// it is deliberately overridable rather than hard-coded.
	DefaultAnomalyWindow = 10

	// anomalySampleFloor is the minimum number of expenses required
	// before detection runs at all. Below it the detector returns an
	// empty result; insufficient sample is a policy, not an error.
	anomalySampleFloor = 5
)

// Detector flags expenses that exceed twice the mean of the full
// expense history, scanning only the most recent Window transactions.
type Detector struct {
	Window   int
	Currency string
}

// NewDetector returns a detector with the default window and currency.
func NewDetector() *Detector {
	return &Detector{Window: DefaultAnomalyWindow, Currency: defaultCurrency}
}

// Detect returns the flagged anomalies, most recent first. The mean is
// computed over all expense amounts, but only the most recent Window
// transactions are eligible for flagging: an over-threshold expense
// outside the window is never reported.
func (d *Detector) Detect(transactions []core.Transaction) []Anomaly {
	var expenses []core.Transaction
	for _, tx := range transactions {
		if tx.Kind == core.Expense {
			expenses = append(expenses, tx)
		}
	}
	if len(expenses) < anomalySampleFloor {
		return nil
	}

	sum := decimal.Zero
	for _, tx := range expenses {
		sum = sum.Add(tx.Amount)
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(expenses))))
	threshold := mean.Mul(decimal.NewFromInt(2))

	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Timestamp.After(expenses[j].Timestamp)
	})

	window := d.Window
	if window <= 0 {
		window = DefaultAnomalyWindow
	}
	if window > len(expenses) {
		window = len(expenses)
	}

	currency := d.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	var anomalies []Anomaly
	for _, tx := range expenses[:window] {
		if !tx.Amount.GreaterThan(threshold) {
			continue
		}
		description := tx.Description
		if description == "" {
			description = "Expense"
		}
		category := tx.Category
		if category == "" {
			category = core.CategoryOther
		}
		anomalies = append(anomalies, Anomaly{
			Amount:      tx.Amount,
			Description: description,
			Date:        tx.Timestamp.Format("02 Jan 2006"),
			Category:    category,
			Threshold:   threshold,
			Message: fmt.Sprintf("Unusually high expense: %s%s (Avg: %s%s)",
				currency, tx.Amount.String(), currency, mean.StringFixed(2)),
		})
	}
	return anomalies
}
