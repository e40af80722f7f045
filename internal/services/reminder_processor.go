package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"smartfinance/internal/amqp"
	"smartfinance/internal/core"
	"smartfinance/internal/store"
)

// ReminderProcessor walks the active recurring bills, auto-deducts the
// ones due today, and publishes reminders for the ones due soon.
type ReminderProcessor struct {
	bills          store.BillStore
	accountService *AccountService
	amqpClient     *amqp.Client
}

// ReminderStats summarizes one processing run.
type ReminderStats struct {
	Checked   int
	Deducted  int
	Reminders int
}

func NewReminderProcessor(bills store.BillStore, accountService *AccountService, amqpClient *amqp.Client) *ReminderProcessor {
	return &ReminderProcessor{
		bills:          bills,
		accountService: accountService,
		amqpClient:     amqpClient,
	}
}

// ProcessBills runs one pass over the active bills. Failures on a
// single bill are logged and skipped so one broken bill never stalls
// the rest.
func (p *ReminderProcessor) ProcessBills(ctx context.Context, now time.Time) (ReminderStats, error) {
	if p.bills == nil || p.accountService == nil {
		return ReminderStats{}, fmt.Errorf("processor not properly initialized")
	}

	bills, err := p.bills.ListActiveBills(ctx)
	if err != nil {
		return ReminderStats{}, fmt.Errorf("list active bills: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring bills",
		"total_active", len(bills),
		"processing_date", now.Format("2006-01-02"))

	stats := ReminderStats{Checked: len(bills)}

	for _, bill := range bills {
		days := DaysUntilNextPayment(bill, now)
		if days < 0 {
			// Past its end date.
			continue
		}

		if bill.AutoDeduct && days == 0 && !executedThisMonth(bill, now) {
			if p.deduct(ctx, bill, now) {
				stats.Deducted++
			}
			continue
		}

		if days <= bill.ReminderDays {
			if p.remind(ctx, bill, now, days) {
				stats.Reminders++
			}
		}
	}

	slog.InfoContext(ctx, "Recurring bill processing complete",
		"checked", stats.Checked,
		"deducted", stats.Deducted,
		"reminders", stats.Reminders)

	return stats, nil
}

// executedThisMonth guards auto-deduction against double charging when
// the processor runs more than once on the billing day.
func executedThisMonth(bill core.RecurringBill, now time.Time) bool {
	last := bill.LastExecuted
	return !last.IsZero() && last.Year() == now.Year() && last.Month() == now.Month()
}

func (p *ReminderProcessor) deduct(ctx context.Context, bill core.RecurringBill, now time.Time) bool {
	_, err := p.accountService.RecordExpense(ctx, bill.AccountID, bill.Amount.StringFixed(2), core.CategoryBills, bill.Name)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to auto-deduct bill",
			"bill_id", bill.ID,
			"name", bill.Name,
			"error", err)
		return false
	}

	if err := p.bills.MarkBillExecuted(ctx, bill.ID, now); err != nil {
		slog.ErrorContext(ctx, "Failed to mark bill executed",
			"bill_id", bill.ID,
			"error", err)
		// Continue anyway, the expense was recorded.
	}

	slog.InfoContext(ctx, "Auto-deducted recurring bill",
		"bill_id", bill.ID,
		"name", bill.Name,
		"amount", bill.Amount.StringFixed(2))
	return true
}

func (p *ReminderProcessor) remind(ctx context.Context, bill core.RecurringBill, now time.Time, daysLeft int) bool {
	if p.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping bill reminder",
			"bill_id", bill.ID)
		return false
	}

	dueDate := NextPaymentDate(bill, now)
	msg := amqp.NewBillReminderMessage(bill.ID, bill.AccountID, bill.Name, bill.Amount.StringFixed(2), dueDate, daysLeft)
	if err := p.amqpClient.PublishBillReminder(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish bill reminder",
			"bill_id", bill.ID,
			"error", err)
		return false
	}
	return true
}
