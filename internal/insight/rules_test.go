package insight

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"smartfinance/internal/core"
)

func testAccount(total, balance, target int64) core.Account {
	return core.Account{
		ID:             "acc-1",
		TotalAmount:    decimal.NewFromInt(total),
		CurrentBalance: decimal.NewFromInt(balance),
		TargetAmount:   decimal.NewFromInt(target),
	}
}

func TestEvaluate_SpendRate(t *testing.T) {
	tests := []struct {
		name        string
		expenses    int64
		wantWarning string
		wantPraise  string
	}{
		{
			name:        "high",
			expenses:    750,
			wantWarning: "🚨 You've spent 75.0% of your total funds!",
		},
		{
			name:        "medium",
			expenses:    550,
			wantWarning: "⚠️ Your spending is at 55.0% - watch your expenses",
		},
		{
			name:       "controlled",
			expenses:   200,
			wantPraise: "✅ Good job! You're spending 20.0% - keep it controlled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rollup := Rollup{
				TotalExpenses: decimal.NewFromInt(tt.expenses),
				ByCategory:    map[core.Category]decimal.Decimal{},
				ByWeek:        map[string]decimal.Decimal{},
				ExpenseCount:  1,
				MeanExpense:   decimal.NewFromInt(tt.expenses),
			}
			bundle := NewEvaluator().Evaluate(rollup, testAccount(1000, 1000-tt.expenses, 0), nil)

			if tt.wantWarning != "" {
				if len(bundle.Warnings) == 0 || bundle.Warnings[0] != tt.wantWarning {
					t.Errorf("Warnings = %v, want first %q", bundle.Warnings, tt.wantWarning)
				}
			}
			if tt.wantPraise != "" {
				if len(bundle.Praise) == 0 || bundle.Praise[0] != tt.wantPraise {
					t.Errorf("Praise = %v, want first %q", bundle.Praise, tt.wantPraise)
				}
			}
		})
	}
}

func TestEvaluate_CategoryShare(t *testing.T) {
	rollup := Rollup{
		TotalExpenses: decimal.NewFromInt(1000),
		ByCategory: map[core.Category]decimal.Decimal{
			core.CategoryFood:      decimal.NewFromInt(400),
			core.CategoryTransport: decimal.NewFromInt(300),
			core.CategoryHealth:    decimal.NewFromInt(300),
		},
		ByWeek:       map[string]decimal.Decimal{},
		ExpenseCount: 5,
		MeanExpense:  decimal.NewFromInt(200),
	}

	bundle := NewEvaluator().Evaluate(rollup, testAccount(10000, 9000, 0), nil)

	if len(bundle.Overspending) != 1 || bundle.Overspending[0] != core.CategoryFood {
		t.Errorf("Overspending = %v, want [Food] (30%% shares must not trigger)", bundle.Overspending)
	}
	if got := bundle.BudgetSuggestions["Food"]; got != "280" {
		t.Errorf("BudgetSuggestions[Food] = %q, want %q", got, "280")
	}
	wantWarning := "Food is 40% of your total spending"
	found := false
	for _, w := range bundle.Warnings {
		if w == wantWarning {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings = %v, want to contain %q", bundle.Warnings, wantWarning)
	}
}

func TestEvaluate_UnknownCategoryAdvice(t *testing.T) {
	rollup := Rollup{
		TotalExpenses: decimal.NewFromInt(1000),
		ByCategory: map[core.Category]decimal.Decimal{
			core.CategoryFood:    decimal.NewFromInt(500),
			core.Category("Gadgets"): decimal.NewFromInt(500),
		},
		ByWeek:       map[string]decimal.Decimal{},
		ExpenseCount: 4,
		MeanExpense:  decimal.NewFromInt(250),
	}

	bundle := NewEvaluator().Evaluate(rollup, testAccount(10000, 9000, 0), nil)

	// Fixed tags come before unknown ones, so the order is stable.
	if len(bundle.Overspending) != 2 ||
		bundle.Overspending[0] != core.CategoryFood ||
		bundle.Overspending[1] != core.Category("Gadgets") {
		t.Fatalf("Overspending = %v, want [Food Gadgets]", bundle.Overspending)
	}
	if got := bundle.BudgetSuggestions["Gadgets"]; got != "400" {
		t.Errorf("BudgetSuggestions[Gadgets] = %q, want %q (default 0.8 multiplier)", got, "400")
	}
	wantTip := "Review your Gadgets expenses and identify savings opportunities"
	found := false
	for _, tip := range bundle.Tips {
		if tip == wantTip {
			found = true
		}
	}
	if !found {
		t.Errorf("Tips = %v, want to contain %q", bundle.Tips, wantTip)
	}
}

func TestEvaluate_FrequentSmallExpenses(t *testing.T) {
	rollup := Rollup{
		TotalExpenses: decimal.NewFromInt(1650),
		ByCategory:    map[core.Category]decimal.Decimal{},
		ByWeek:        map[string]decimal.Decimal{},
		ExpenseCount:  11,
		MeanExpense:   decimal.NewFromInt(150),
	}

	bundle := NewEvaluator().Evaluate(rollup, testAccount(100000, 98350, 0), nil)

	wantTip := "☕ Small expenses add up! Track daily coffee/snacks - can save ₹2000+/month"
	if len(bundle.Tips) == 0 || bundle.Tips[0] != wantTip {
		t.Errorf("Tips = %v, want first %q", bundle.Tips, wantTip)
	}
}

func TestEvaluate_WeeklyProjection(t *testing.T) {
	rollup := Rollup{
		TotalExpenses: decimal.NewFromInt(2000),
		ByCategory:    map[core.Category]decimal.Decimal{},
		ByWeek:        map[string]decimal.Decimal{},
		ExpenseCount:  8,
		MeanExpense:   decimal.NewFromInt(250),
		Last7Days:     decimal.NewFromInt(700),
	}

	bundle := NewEvaluator().Evaluate(rollup, testAccount(100000, 98000, 0), nil)

	wantWarning := "📈 At current rate, you'll spend ₹3000 this month"
	found := false
	for _, w := range bundle.Warnings {
		if w == wantWarning {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings = %v, want to contain %q", bundle.Warnings, wantWarning)
	}
}

func TestEvaluate_Anomalies(t *testing.T) {
	anomalies := []Anomaly{
		{Amount: decimal.NewFromInt(900), Message: "big one"},
		{Amount: decimal.NewFromInt(700), Message: "another"},
	}
	rollup := Rollup{
		TotalExpenses: decimal.NewFromInt(2000),
		ByCategory:    map[core.Category]decimal.Decimal{},
		ByWeek:        map[string]decimal.Decimal{},
		ExpenseCount:  6,
		MeanExpense:   decimal.NewFromFloat(333.33),
	}

	bundle := NewEvaluator().Evaluate(rollup, testAccount(100000, 98000, 0), anomalies)

	wantWarning := "⚡ Found 2 unusually high expenses - review them!"
	found := false
	for _, w := range bundle.Warnings {
		if w == wantWarning {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings = %v, want to contain %q", bundle.Warnings, wantWarning)
	}
	if len(bundle.Anomalies) != 2 {
		t.Errorf("Anomalies = %d entries, want 2 passed through", len(bundle.Anomalies))
	}
}

func TestEvaluate_SavingsTarget(t *testing.T) {
	tests := []struct {
		name       string
		balance    int64
		wantPraise string
		wantTip    string
	}{
		{
			name:       "achieved",
			balance:    5000,
			wantPraise: "🎉 Congratulations! You've achieved your savings goal of ₹5000!",
		},
		{
			name:       "three quarters",
			balance:    4000,
			wantPraise: "🏃 You're 80% to your goal! Just ₹1000 more!",
		},
		{
			name:       "halfway",
			balance:    2500,
			wantPraise: "💪 Halfway to your ₹5000 goal - keep going!",
		},
		{
			name:    "early days",
			balance: 1000,
			wantTip: "🎯 Save ₹4000 more to reach your target",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rollup := Rollup{
				TotalExpenses: decimal.Zero,
				ByCategory:    map[core.Category]decimal.Decimal{},
				ByWeek:        map[string]decimal.Decimal{},
			}
			account := core.Account{
				ID:             "acc-1",
				TotalAmount:    decimal.NewFromInt(10000),
				CurrentBalance: decimal.NewFromInt(tt.balance),
				TargetAmount:   decimal.NewFromInt(5000),
			}
			bundle := NewEvaluator().Evaluate(rollup, account, nil)

			if tt.wantPraise != "" {
				found := false
				for _, p := range bundle.Praise {
					if p == tt.wantPraise {
						found = true
					}
				}
				if !found {
					t.Errorf("Praise = %v, want to contain %q", bundle.Praise, tt.wantPraise)
				}
			}
			if tt.wantTip != "" {
				found := false
				for _, tip := range bundle.Tips {
					if tip == tt.wantTip {
						found = true
					}
				}
				if !found {
					t.Errorf("Tips = %v, want to contain %q", bundle.Tips, tt.wantTip)
				}
			}
		})
	}
}

func TestEvaluate_BackfillsGenericTips(t *testing.T) {
	rollup := Rollup{
		TotalExpenses: decimal.Zero,
		ByCategory:    map[core.Category]decimal.Decimal{},
		ByWeek:        map[string]decimal.Decimal{},
	}

	bundle := NewEvaluator().Evaluate(rollup, core.Account{ID: "acc-1"}, nil)

	if len(bundle.Tips) != minTips {
		t.Fatalf("Tips = %d entries, want %d generic backfills", len(bundle.Tips), minTips)
	}
	for i, tip := range bundle.Tips {
		if tip != genericTips[i] {
			t.Errorf("Tips[%d] = %q, want %q", i, tip, genericTips[i])
		}
	}
	if len(bundle.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", bundle.Warnings)
	}
	if len(bundle.Praise) != 0 {
		t.Errorf("Praise = %v, want none on zero spending", bundle.Praise)
	}
	wantSummary := "Total spending: ₹0 across 0 transactions. Keep up the good spending habits!"
	if bundle.Summary != wantSummary {
		t.Errorf("Summary = %q, want %q", bundle.Summary, wantSummary)
	}
}

func TestEvaluate_Truncation(t *testing.T) {
	// Every warning-producing rule fires: spend rate, three category
	// shares, the weekly projection, and the anomaly count. That is six
	// warnings; only five may survive, in rule order.
	rollup := Rollup{
		TotalExpenses: decimal.NewFromInt(900),
		ByCategory: map[core.Category]decimal.Decimal{
			core.CategoryFood:          decimal.NewFromInt(310),
			core.CategoryShopping:      decimal.NewFromInt(310),
			core.CategoryEntertainment: decimal.NewFromInt(280),
		},
		ByWeek:       map[string]decimal.Decimal{},
		ExpenseCount: 12,
		MeanExpense:  decimal.NewFromInt(75),
		Last7Days:    decimal.NewFromInt(210),
	}
	anomalies := []Anomaly{{Amount: decimal.NewFromInt(500)}}

	bundle := NewEvaluator().Evaluate(rollup, testAccount(1000, 100, 0), anomalies)

	if len(bundle.Warnings) != maxWarnings {
		t.Errorf("Warnings = %d entries, want %d", len(bundle.Warnings), maxWarnings)
	}
	if bundle.Warnings[0] != "🚨 You've spent 90.0% of your total funds!" {
		t.Errorf("Warnings[0] = %q, rule order not preserved", bundle.Warnings[0])
	}
	if len(bundle.Tips) != maxTips {
		t.Errorf("Tips = %d entries, want %d", len(bundle.Tips), maxTips)
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	rollup := Rollup{
		TotalExpenses: decimal.NewFromInt(1000),
		ByCategory: map[core.Category]decimal.Decimal{
			core.CategoryFood:     decimal.NewFromInt(400),
			core.CategoryShopping: decimal.NewFromInt(350),
			core.CategoryBills:    decimal.NewFromInt(250),
		},
		ByWeek:       map[string]decimal.Decimal{"Week 26": decimal.NewFromInt(1000)},
		ExpenseCount: 12,
		MeanExpense:  decimal.NewFromFloat(83.33),
		Last7Days:    decimal.NewFromInt(400),
		Last30Days:   decimal.NewFromInt(1000),
	}
	account := testAccount(1500, 500, 2000)
	anomalies := []Anomaly{{Amount: decimal.NewFromInt(300), Message: "spike"}}

	first, err := json.Marshal(NewEvaluator().Evaluate(rollup, account, anomalies))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	second, err := json.Marshal(NewEvaluator().Evaluate(rollup, account, anomalies))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("Evaluate() output differs between identical runs")
	}
}

func TestEvaluate_CurrencyOverride(t *testing.T) {
	rollup := Rollup{
		TotalExpenses: decimal.NewFromInt(100),
		ByCategory:    map[core.Category]decimal.Decimal{},
		ByWeek:        map[string]decimal.Decimal{},
		ExpenseCount:  1,
		MeanExpense:   decimal.NewFromInt(100),
	}
	evaluator := &Evaluator{Currency: "$"}

	bundle := evaluator.Evaluate(rollup, testAccount(1000, 900, 0), nil)

	wantPrefix := "Total spending: $100 across 1 transactions."
	if len(bundle.Summary) < len(wantPrefix) || bundle.Summary[:len(wantPrefix)] != wantPrefix {
		t.Errorf("Summary = %q, want prefix %q", bundle.Summary, wantPrefix)
	}
}
