package insight

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"smartfinance/internal/core"
)

const defaultCurrency = "₹"

const (
	maxTips     = 5
	maxWarnings = 5
	maxPraise   = 3
	minTips     = 4 // backfill target before truncation
)

// categoryAdvice pairs the tip shown for an overspent category with the
// multiplier applied to its current spend to suggest a budget cap.
type categoryAdvice struct {
	tip        string
	multiplier decimal.Decimal
}

// adviceTable maps the fixed category tags to their advice. Categories
// missing from the table (including unknown tags) use defaultAdvice.
// Kept as an explicit mapping so the rule table stays auditable.
var adviceTable = map[core.Category]categoryAdvice{
	core.CategoryFood: {
		tip:        "🍔 Try meal planning and cooking at home to save 20-30% on food",
		multiplier: decimal.NewFromFloat(0.7),
	},
	core.CategoryShopping: {
		tip:        "🛍️ Use the 30-day rule: wait 30 days before buying non-essentials",
		multiplier: decimal.NewFromFloat(0.6),
	},
	core.CategoryEntertainment: {
		tip:        "🎬 Look for free events or share subscription costs with family",
		multiplier: decimal.NewFromFloat(0.7),
	},
	core.CategoryTransport: {
		tip:        "🚗 Consider carpooling or public transport for daily commute",
		multiplier: decimal.NewFromFloat(0.8),
	},
}

var defaultAdviceMultiplier = decimal.NewFromFloat(0.8)

// genericTips backfills the tip list when the specific rules produced
// fewer than minTips entries. Order matters.
var genericTips = []string{
	"💡 Follow the 50/30/20 rule: 50% needs, 30% wants, 20% savings",
	"📝 Review your subscriptions - cancel unused ones",
	"🏦 Set up automatic savings transfers on payday",
	"🛒 Make a shopping list and stick to it to avoid impulse buys",
	"💳 Use cash for daily expenses to better control spending",
}

// Evaluator turns a rollup, the account figures, and the anomaly list
// into an insight bundle. Rules run in a fixed order and never read
// each other's output.
type Evaluator struct {
	Currency string
}

// NewEvaluator returns an evaluator with the default currency symbol.
func NewEvaluator() *Evaluator {
	return &Evaluator{Currency: defaultCurrency}
}

// Evaluate applies the rule sequence and builds the summary.
func (e *Evaluator) Evaluate(rollup Rollup, account core.Account, anomalies []Anomaly) Bundle {
	currency := e.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	tips := []string{}
	warnings := []string{}
	praise := []string{}
	overspending := []core.Category{}
	budgetSuggestions := map[string]string{}

	// Rule 1: overall spend rate.
	var expensePct float64
	if account.TotalAmount.IsPositive() {
		expensePct = rollup.TotalExpenses.InexactFloat64() / account.TotalAmount.InexactFloat64() * 100
	}
	switch {
	case expensePct > 70:
		warnings = append(warnings, fmt.Sprintf("🚨 You've spent %.1f%% of your total funds!", expensePct))
		tips = append(tips, "Try to reduce daily expenses by 15-20% to stay within budget")
	case expensePct > 50:
		warnings = append(warnings, fmt.Sprintf("⚠️ Your spending is at %.1f%% - watch your expenses", expensePct))
		tips = append(tips, "Consider cutting non-essential expenses by 10%")
	case expensePct > 0:
		praise = append(praise, fmt.Sprintf("✅ Good job! You're spending %.1f%% - keep it controlled", expensePct))
	}

	// Rule 2: per-category share.
	if rollup.TotalExpenses.IsPositive() {
		for _, category := range orderedCategories(rollup.ByCategory) {
			amount := rollup.ByCategory[category]
			share := amount.InexactFloat64() / rollup.TotalExpenses.InexactFloat64() * 100
			if share <= 30 {
				continue
			}
			overspending = append(overspending, category)
			warnings = append(warnings, fmt.Sprintf("%s is %.0f%% of your total spending", category, share))

			advice, ok := adviceTable[category]
			if !ok {
				advice = categoryAdvice{
					tip:        fmt.Sprintf("Review your %s expenses and identify savings opportunities", category),
					multiplier: defaultAdviceMultiplier,
				}
			}
			tips = append(tips, advice.tip)
			budgetSuggestions[string(category)] = amount.Mul(advice.multiplier).Round(0).String()
		}
	}

	// Rule 3: frequent small expenses.
	if rollup.ExpenseCount > 10 && rollup.MeanExpense.LessThan(decimal.NewFromInt(200)) {
		tips = append(tips, fmt.Sprintf("☕ Small expenses add up! Track daily coffee/snacks - can save %s2000+/month", currency))
	}

	// Rule 4: weekly trend projection.
	if rollup.Last7Days.IsPositive() && rollup.ExpenseCount > 7 {
		monthly := rollup.Last7Days.Div(decimal.NewFromInt(7)).Mul(decimal.NewFromInt(30))
		warnings = append(warnings, fmt.Sprintf("📈 At current rate, you'll spend %s%.0f this month", currency, monthly.InexactFloat64()))
	}

	// Rule 5: anomalies.
	if len(anomalies) > 0 {
		warnings = append(warnings, fmt.Sprintf("⚡ Found %d unusually high expenses - review them!", len(anomalies)))
		tips = append(tips, "Check your high-value transactions to identify one-time vs recurring expenses")
	}

	// Rule 6: savings target progress.
	if account.TargetAmount.IsPositive() {
		progress := account.CurrentBalance.InexactFloat64() / account.TargetAmount.InexactFloat64() * 100
		remaining := account.TargetAmount.Sub(account.CurrentBalance)
		switch {
		case progress >= 100:
			praise = append(praise, fmt.Sprintf("🎉 Congratulations! You've achieved your savings goal of %s%s!", currency, account.TargetAmount.String()))
		case progress >= 75:
			praise = append(praise, fmt.Sprintf("🏃 You're %.0f%% to your goal! Just %s%.0f more!", progress, currency, remaining.InexactFloat64()))
		case progress >= 50:
			praise = append(praise, fmt.Sprintf("💪 Halfway to your %s%s goal - keep going!", currency, account.TargetAmount.String()))
		default:
			tips = append(tips, fmt.Sprintf("🎯 Save %s%.0f more to reach your target", currency, remaining.InexactFloat64()))
		}
	}

	// Rule 7: backfill generic tips.
	for _, tip := range genericTips {
		if len(tips) >= minTips {
			break
		}
		tips = append(tips, tip)
	}

	var summary strings.Builder
	fmt.Fprintf(&summary, "Total spending: %s%s across %d transactions. ", currency, rollup.TotalExpenses.String(), rollup.ExpenseCount)
	if rollup.ExpenseCount > 0 {
		fmt.Fprintf(&summary, "Average: %s%.0f. ", currency, rollup.MeanExpense.InexactFloat64())
	}
	if len(anomalies) > 0 {
		fmt.Fprintf(&summary, "⚠️ %d high-value expenses detected. ", len(anomalies))
	}
	if expensePct > 60 {
		summary.WriteString("Consider reducing expenses!")
	} else {
		summary.WriteString("Keep up the good spending habits!")
	}

	breakdown := make(map[string]decimal.Decimal, len(rollup.ByCategory))
	for category, amount := range rollup.ByCategory {
		breakdown[string(category)] = amount
	}

	if anomalies == nil {
		anomalies = []Anomaly{}
	}

	return Bundle{
		Summary:           summary.String(),
		Tips:              truncate(tips, maxTips),
		Warnings:          truncate(warnings, maxWarnings),
		Praise:            truncate(praise, maxPraise),
		Overspending:      overspending,
		BudgetSuggestions: budgetSuggestions,
		Anomalies:         anomalies,
		CategoryBreakdown: breakdown,
	}
}

// orderedCategories returns the rollup's category keys in canonical tag
// order, then unknown tags sorted, so evaluation output is reproducible.
func orderedCategories(byCategory map[core.Category]decimal.Decimal) []core.Category {
	ordered := make([]core.Category, 0, len(byCategory))
	for _, category := range core.Categories() {
		if _, ok := byCategory[category]; ok {
			ordered = append(ordered, category)
		}
	}
	var unknown []core.Category
	for category := range byCategory {
		if !category.Known() {
			unknown = append(unknown, category)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	return append(ordered, unknown...)
}

// truncate cuts a list to its first n entries without reordering.
func truncate(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
