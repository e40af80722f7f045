package insight

import (
	"fmt"
	"time"

	"smartfinance/internal/core"
)

// ComputationError reports malformed engine input. Callers are expected
// to substitute FallbackBundle rather than propagate it to the user.
type ComputationError struct {
	Op  string
	Err error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("insight: %s: %v", e.Op, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }

// Engine is the single entry point of the analysis: aggregation,
// anomaly detection, and rule evaluation over one account's history.
// It is safe for concurrent use; every call is independent.
type Engine struct {
	detector  *Detector
	evaluator *Evaluator
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock, making the 7/30-day windows and
// anomaly dates reproducible in tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithAnomalyWindow overrides the most-recent-transactions window
// scanned by the anomaly detector.
func WithAnomalyWindow(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.detector.Window = n
		}
	}
}

// WithCurrency sets the currency symbol embedded in messages.
func WithCurrency(symbol string) Option {
	return func(e *Engine) {
		if symbol != "" {
			e.detector.Currency = symbol
			e.evaluator.Currency = symbol
		}
	}
}

// NewEngine builds an engine with default window, currency, and clock.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		detector:  NewDetector(),
		evaluator: NewEvaluator(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze runs the full pipeline and returns the insight bundle.
// Malformed input (negative account figures, non-positive amounts,
// unknown transaction kinds) yields a *ComputationError; the engine
// never panics and never divides by zero on empty histories.
func (e *Engine) Analyze(account core.Account, transactions []core.Transaction) (Bundle, error) {
	if err := account.Validate(); err != nil {
		return Bundle{}, &ComputationError{Op: "validate account", Err: err}
	}
	for i, tx := range transactions {
		if !tx.Kind.Valid() {
			return Bundle{}, &ComputationError{Op: fmt.Sprintf("validate transaction %d", i), Err: core.ErrInvalidKind}
		}
		if !tx.Amount.IsPositive() {
			return Bundle{}, &ComputationError{Op: fmt.Sprintf("validate transaction %d", i), Err: core.ErrInvalidAmount}
		}
	}

	rollup := Aggregate(transactions, e.now())
	anomalies := e.detector.Detect(transactions)
	return e.evaluator.Evaluate(rollup, account, anomalies), nil
}
