// Package insight implements the rule-based expense analysis engine:
// aggregation of a transaction history into rollups, anomaly detection
// over a recent window, and a fixed-order rule evaluation that produces
// a bundle of tips, warnings, and praise.
//
// The engine is a pure function of its inputs and an injectable clock.
// It never mutates account figures and keeps no state between calls.
package insight

import (
	"github.com/shopspring/decimal"

	"smartfinance/internal/core"
)

// Anomaly flags a transaction whose amount exceeds the detection
// threshold derived from the recent sample mean.
type Anomaly struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Category    core.Category   `json:"category"`
	Threshold   decimal.Decimal `json:"threshold"`
	Message     string          `json:"message"`
}

// Bundle is the structured output of the rule evaluator, ready for
// direct serialization to a page-rendering or JSON layer.
type Bundle struct {
	Summary           string                     `json:"summary"`
	Tips              []string                   `json:"tips"`
	Warnings          []string                   `json:"warnings"`
	Praise            []string                   `json:"praise"`
	Overspending      []core.Category            `json:"overspending"`
	BudgetSuggestions map[string]string          `json:"budget_suggestions"`
	Anomalies         []Anomaly                  `json:"anomalies"`
	CategoryBreakdown map[string]decimal.Decimal `json:"category_breakdown"`
}

// FallbackBundle is the degraded default a caller substitutes when
// Analyze fails on malformed input, instead of failing the request.
func FallbackBundle() Bundle {
	return Bundle{
		Summary:           "Spending analysis is temporarily unavailable.",
		Tips:              []string{},
		Warnings:          []string{},
		Praise:            []string{},
		Overspending:      []core.Category{},
		BudgetSuggestions: map[string]string{},
		Anomalies:         []Anomaly{},
		CategoryBreakdown: map[string]decimal.Decimal{},
	}
}
