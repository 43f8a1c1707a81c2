package insights

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Karineprates/FinanceAI/internal/domain/stats"
)

// fullStats satisfies every rule in the engine at once.
func fullStats() stats.Stats {
	return stats.Stats{
		IncomeMonth:      2000,
		ExpenseMonth:     1000,
		NetMonth:         1000,
		IncomePrevMonth:  1800,
		ExpensePrevMonth: 900,
		NetPrevMonth:     900,
		IncomeWeek:       100,
		ExpenseWeek:      600,
		Expense30Days:    1200,
		Expense30Count:   20,
		TopExpensesMonth: []stats.CategoryTotal{
			{Category: "Rent", Total: 500},
			{Category: "Food", Total: 300},
			{Category: "Fun", Total: 200},
		},
		TopExpenses30Days: []stats.CategoryTotal{
			{Category: "Rent", Total: 400},
			{Category: "Food", Total: 350},
		},
		Largest30Days:  &stats.LargestExpense{ID: "x", Date: "2024-06-02", Category: "Rent", Amount: 400},
		AvgDaily30Days: 40,
		WeekdayPeak:    time.Friday,
		HasWeekdayPeak: true,
		DayOfMonth:     15,
		DaysInMonth:    30,
	}
}

func TestGenerate_AllRulesCappedAtTwelve(t *testing.T) {
	items := Generate(fullStats())
	assert.LessOrEqual(t, len(items), MaxInsights)
	assert.Len(t, items, MaxInsights)
}

func TestGenerate_EmptyStatsEmitsOnlyForecastGuardedItems(t *testing.T) {
	items := Generate(stats.Stats{DayOfMonth: 15, DaysInMonth: 30})
	// With all-zero money fields, only the forecast rule fires (net 0 is a
	// valid projection).
	require.Len(t, items, 1)
	assert.Contains(t, items[0], "projected end-of-month balance")
}

func TestGenerate_ForecastSkippedOnDayZero(t *testing.T) {
	items := Generate(stats.Stats{DayOfMonth: 0, DaysInMonth: 30})
	assert.Empty(t, items)
}

func TestGenerate_ForecastProjection(t *testing.T) {
	s := stats.Stats{NetMonth: 300, DayOfMonth: 10, DaysInMonth: 30}
	items := Generate(s)
	require.NotEmpty(t, items)
	// pace = 300/10 = 30; projected = round(300 + 30*20) = 900
	assert.Contains(t, items[len(items)-1], "€900.00")
}

func TestGenerate_MonthExpensePercentChange(t *testing.T) {
	s := stats.Stats{ExpenseMonth: 1100, ExpensePrevMonth: 1000, DayOfMonth: 0}
	items := Generate(s)
	require.NotEmpty(t, items)
	assert.Contains(t, items[0], "+10.0%")

	s = stats.Stats{ExpenseMonth: 900, ExpensePrevMonth: 1000, DayOfMonth: 0}
	items = Generate(s)
	require.NotEmpty(t, items)
	assert.Contains(t, items[0], "-10.0%")
}

func TestGenerate_MonthExpenseWithoutBaseline(t *testing.T) {
	s := stats.Stats{ExpenseMonth: 250, DayOfMonth: 0}
	items := Generate(s)
	require.NotEmpty(t, items)
	assert.Contains(t, items[0], "€250.00")
	assert.NotContains(t, items[0], "%")
}

func TestGenerate_OverspendAlertExactDeficit(t *testing.T) {
	s := stats.Stats{ExpenseWeek: 1500, IncomeWeek: 1000, DayOfMonth: 0}
	items := Generate(s)
	require.Len(t, items, 1)
	assert.Contains(t, items[0], "€500.00")
	assert.Contains(t, items[0], "more than you earned")
}

func TestGenerate_NoOverspendAlertWhenBalanced(t *testing.T) {
	s := stats.Stats{ExpenseWeek: 1000, IncomeWeek: 1000, DayOfMonth: 0}
	assert.Empty(t, Generate(s))
}

func TestGenerate_RisingCategoryAlert(t *testing.T) {
	s := stats.Stats{
		ExpenseMonth:     600,
		ExpensePrevMonth: 500,
		TopExpensesMonth: []stats.CategoryTotal{{Category: "Food", Total: 600}},
		TopExpenses30Days: []stats.CategoryTotal{
			{Category: "Food", Total: 500},
		},
		DayOfMonth: 0,
	}
	items := Generate(s)

	var found bool
	for _, it := range items {
		if containsAll(it, "Food", "rising") {
			found = true
		}
	}
	assert.True(t, found, "expected a rising-category alert, got %v", items)
}

func TestGenerate_RisingCategoryNotTriggeredUnderThreshold(t *testing.T) {
	s := stats.Stats{
		ExpenseMonth:      550,
		ExpensePrevMonth:  500,
		TopExpensesMonth:  []stats.CategoryTotal{{Category: "Food", Total: 550}},
		TopExpenses30Days: []stats.CategoryTotal{{Category: "Food", Total: 520}},
		DayOfMonth:        0,
	}
	for _, it := range Generate(s) {
		assert.NotContains(t, it, "rising")
	}
}

func TestGenerate_OutlierAlertThreshold(t *testing.T) {
	// largest == 3x average: no alert, must be strictly above
	s := stats.Stats{
		Largest30Days:  &stats.LargestExpense{Category: "Travel", Amount: 30},
		AvgDaily30Days: 10,
		DayOfMonth:     0,
	}
	for _, it := range Generate(s) {
		assert.NotContains(t, it, "stands far above")
	}

	s.Largest30Days.Amount = 31
	items := Generate(s)
	var found bool
	for _, it := range items {
		if containsAll(it, "Travel", "stands far above") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestGenerate_ConcentrationAlert(t *testing.T) {
	s := stats.Stats{
		ExpenseMonth: 1000,
		TopExpensesMonth: []stats.CategoryTotal{
			{Category: "Rent", Total: 500},
			{Category: "Food", Total: 300},
		},
		DayOfMonth: 0,
	}
	items := Generate(s)
	var found bool
	for _, it := range items {
		if containsAll(it, "80%", "Rent", "Food") {
			found = true
		}
	}
	assert.True(t, found, "expected a concentration alert, got %v", items)
}

func TestBands_Partition(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	overview, alerts, suggestions := Bands(items)
	assert.Equal(t, []string{"a", "b", "c", "d"}, overview)
	assert.Equal(t, []string{"e", "f", "g", "h"}, alerts)
	assert.Equal(t, []string{"i", "j"}, suggestions)
}

func TestBands_ShortSequence(t *testing.T) {
	overview, alerts, suggestions := Bands([]string{"a", "b"})
	assert.Equal(t, []string{"a", "b"}, overview)
	assert.Empty(t, alerts)
	assert.Empty(t, suggestions)
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
