// Package services provides business logic and orchestration services.
//
// This file implements the billing calendar for recurring bills. A bill
// fires on its billing day each month, clamped to the last day of short
// months, between its start and optional end date.

package services

import (
	"time"

	"smartfinance/internal/core"
)

// billingDate returns the bill's clamped billing date within the given
// month, e.g. day 31 becomes Feb 28 in a non-leap February.
func billingDate(year int, month time.Month, billingDay int) time.Time {
	lastDayOfMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	day := billingDay
	if day > lastDayOfMonth {
		day = lastDayOfMonth
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextPaymentDate returns the next date the bill falls due on or after
// now. The zero time means the bill has expired past its end date.
func NextPaymentDate(bill core.RecurringBill, now time.Time) time.Time {
	from := dateOnly(now)
	if !bill.StartDate.IsZero() && from.Before(dateOnly(bill.StartDate)) {
		from = dateOnly(bill.StartDate)
	}

	next := billingDate(from.Year(), from.Month(), bill.BillingDay)
	if next.Before(from) {
		next = billingDate(from.Year(), from.Month()+1, bill.BillingDay)
	}

	if !bill.EndDate.IsZero() && next.After(dateOnly(bill.EndDate)) {
		return time.Time{}
	}
	return next
}

// DaysUntilNextPayment returns whole days from now to the next billing
// date, 0 when due today, -1 when the bill has expired.
func DaysUntilNextPayment(bill core.RecurringBill, now time.Time) int {
	next := NextPaymentDate(bill, now)
	if next.IsZero() {
		return -1
	}
	return int(next.Sub(dateOnly(now)).Hours() / 24)
}

// IsDueToday reports whether the bill falls due on now's date.
func IsDueToday(bill core.RecurringBill, now time.Time) bool {
	return DaysUntilNextPayment(bill, now) == 0
}

// IsDueSoon reports whether the bill falls due within its reminder
// window, today included.
func IsDueSoon(bill core.RecurringBill, now time.Time) bool {
	days := DaysUntilNextPayment(bill, now)
	return days >= 0 && days <= bill.ReminderDays
}
