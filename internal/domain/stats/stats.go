// Package stats computes derived aggregates over a transaction collection.
// A Stats value is a pure function of (records, now): it is recomputed on
// demand, never stored, and safe to share once built.
package stats

import "time"

// CategoryTotal is an accumulated expense total for one category label.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// LargestExpense identifies the single biggest expense inside the trailing
// 30-day window.
type LargestExpense struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Note     string  `json:"note,omitempty"`
}

// Stats is the read-only aggregate snapshot consumed by the insight engine.
type Stats struct {
	// Calendar months, keyed by the YYYY-MM date prefix.
	IncomeMonth      float64 `json:"incomeMonth"`
	ExpenseMonth     float64 `json:"expenseMonth"`
	NetMonth         float64 `json:"netMonth"`
	IncomePrevMonth  float64 `json:"incomePrevMonth"`
	ExpensePrevMonth float64 `json:"expensePrevMonth"`
	NetPrevMonth     float64 `json:"netPrevMonth"`

	// Trailing windows measured in elapsed time from "now".
	IncomeWeek     float64 `json:"incomeWeek"`
	ExpenseWeek    float64 `json:"expenseWeek"`
	Expense30Days  float64 `json:"expense30Days"`
	Expense30Count int     `json:"expense30Count"`

	// Expenses-only category rankings, descending by total, ties broken
	// lexically by category name.
	TopExpensesMonth  []CategoryTotal `json:"topExpensesMonth"`
	TopExpenses30Days []CategoryTotal `json:"topExpenses30Days"`

	// Largest30Days is nil when no expense falls inside the window.
	Largest30Days *LargestExpense `json:"largest30Days,omitempty"`

	// AvgDaily30Days divides the 30-day expense sum by a fixed 30, whether
	// or not every day had data.
	AvgDaily30Days float64 `json:"avgDaily30Days"`

	// WeekdayPeak is the weekday with the highest cumulative 30-day expense.
	// HasWeekdayPeak is false when the window holds no expenses.
	WeekdayPeak    time.Weekday `json:"weekdayPeak"`
	HasWeekdayPeak bool         `json:"hasWeekdayPeak"`

	// Forecast inputs.
	DayOfMonth  int `json:"dayOfMonth"`
	DaysInMonth int `json:"daysInMonth"`
}
