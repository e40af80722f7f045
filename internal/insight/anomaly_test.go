package insight

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"smartfinance/internal/core"
)

func TestDetector_FlagsOutlier(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	var transactions []core.Transaction
	for i, amount := range []int64{10, 10, 10, 10, 100} {
		transactions = append(transactions, core.Transaction{
			AccountID:   "acc-1",
			Kind:        core.Expense,
			Category:    core.CategoryShopping,
			Amount:      decimal.NewFromInt(amount),
			Timestamp:   base.AddDate(0, 0, i),
			Description: "purchase",
		})
	}

	// mean = 28, threshold = 56, only the 100 crosses it
	anomalies := NewDetector().Detect(transactions)

	if len(anomalies) != 1 {
		t.Fatalf("Detect() returned %d anomalies, want 1", len(anomalies))
	}
	a := anomalies[0]
	if a.Amount.String() != "100" {
		t.Errorf("Amount = %s, want 100", a.Amount)
	}
	if a.Threshold.String() != "56" {
		t.Errorf("Threshold = %s, want 56", a.Threshold)
	}
	if a.Category != core.CategoryShopping {
		t.Errorf("Category = %s, want %s", a.Category, core.CategoryShopping)
	}
	if a.Date != "05 Jun 2025" {
		t.Errorf("Date = %s, want 05 Jun 2025", a.Date)
	}
	expectedMsg := "Unusually high expense: ₹100 (Avg: ₹28.00)"
	if a.Message != expectedMsg {
		t.Errorf("Message = %q, want %q", a.Message, expectedMsg)
	}
}

func TestDetector_SampleFloor(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	var transactions []core.Transaction
	for i, amount := range []int64{10, 10, 10, 500} {
		transactions = append(transactions, core.Transaction{
			AccountID: "acc-1",
			Kind:      core.Expense,
			Amount:    decimal.NewFromInt(amount),
			Timestamp: base.AddDate(0, 0, i),
		})
	}

	if anomalies := NewDetector().Detect(transactions); len(anomalies) != 0 {
		t.Errorf("Detect() with %d expenses returned %d anomalies, want 0", len(transactions), len(anomalies))
	}
}

func TestDetector_WindowExcludesOldOutliers(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	// Oldest transaction is the outlier; the window only covers the two
	// most recent ones.
	amounts := []int64{100, 10, 10, 10, 10, 10}
	var transactions []core.Transaction
	for i, amount := range amounts {
		transactions = append(transactions, core.Transaction{
			AccountID: "acc-1",
			Kind:      core.Expense,
			Amount:    decimal.NewFromInt(amount),
			Timestamp: base.AddDate(0, 0, i),
		})
	}

	detector := NewDetector()
	detector.Window = 2

	if anomalies := detector.Detect(transactions); len(anomalies) != 0 {
		t.Errorf("Detect() returned %d anomalies, want 0 (outlier outside window)", len(anomalies))
	}
}

func TestDetector_IgnoresAdditions(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	transactions := []core.Transaction{
		{AccountID: "acc-1", Kind: core.Addition, Amount: decimal.NewFromInt(10000), Timestamp: base},
	}
	for i := 0; i < 4; i++ {
		transactions = append(transactions, core.Transaction{
			AccountID: "acc-1",
			Kind:      core.Expense,
			Amount:    decimal.NewFromInt(10),
			Timestamp: base.AddDate(0, 0, i+1),
		})
	}

	// Only 4 expenses, below the sample floor: the addition must not count.
	if anomalies := NewDetector().Detect(transactions); len(anomalies) != 0 {
		t.Errorf("Detect() returned %d anomalies, want 0", len(anomalies))
	}
}

func TestDetector_Defaults(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	var transactions []core.Transaction
	for i, amount := range []int64{10, 10, 10, 10, 100} {
		transactions = append(transactions, core.Transaction{
			AccountID: "acc-1",
			Kind:      core.Expense,
			Amount:    decimal.NewFromInt(amount),
			Timestamp: base.AddDate(0, 0, i),
		})
	}

	anomalies := NewDetector().Detect(transactions)
	if len(anomalies) != 1 {
		t.Fatalf("Detect() returned %d anomalies, want 1", len(anomalies))
	}
	if anomalies[0].Description != "Expense" {
		t.Errorf("Description = %q, want default %q", anomalies[0].Description, "Expense")
	}
	if anomalies[0].Category != core.CategoryOther {
		t.Errorf("Category = %s, want %s", anomalies[0].Category, core.CategoryOther)
	}
}
