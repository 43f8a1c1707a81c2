// Package insights turns a stats snapshot into short natural-language
// observations, alerts, and suggestions, and orchestrates the optional remote
// text source with a local rule-engine fallback.
package insights

import (
	"fmt"
	"math"

	"github.com/Karineprates/FinanceAI/internal/domain/stats"
	"github.com/Karineprates/FinanceAI/pkg/money"
)

const (
	// MaxInsights caps the emitted sequence. The fixed rule set can never
	// exceed it, but the cap is enforced anyway.
	MaxInsights = 12

	// Band sizes: callers slice the sequence positionally into overview,
	// alerts, and suggestions/forecast.
	OverviewBand = 4
	AlertBand    = 4

	// Rule thresholds. Kept as fixed constants on purpose; no configuration
	// surface is exposed for them.
	risingCategoryThresholdPct = 10.0
	outlierMultiplier          = 3.0
	concentrationThresholdPct  = 70.0
)

// EmptyCollectionMessage is the single insight returned when there are no
// transactions to analyze.
const EmptyCollectionMessage = "Add some transactions to get personalized insights about your spending."

// Generate evaluates the fixed rule sequence against a stats snapshot and
// returns at most MaxInsights strings. Every rule is evaluated on every call;
// each appends zero or one item, so the emission order is the contract.
func Generate(s stats.Stats) []string {
	out := make([]string, 0, MaxInsights)

	// 1. Month expense, with percent change vs previous month when known.
	if s.ExpenseMonth > 0 {
		if s.ExpensePrevMonth > 0 {
			change := (s.ExpenseMonth - s.ExpensePrevMonth) / s.ExpensePrevMonth * 100
			out = append(out, fmt.Sprintf("You spent %s this month, %s vs last month.",
				money.Format(s.ExpenseMonth), signedPercent(change)))
		} else {
			out = append(out, fmt.Sprintf("You spent %s this month.", money.Format(s.ExpenseMonth)))
		}
	}

	// 2. Top three categories of the current month.
	if len(s.TopExpensesMonth) > 0 {
		out = append(out, "Top categories this month: "+topCategoriesLine(s.TopExpensesMonth, 3)+".")
	}

	// 3. Weekday peak.
	if s.HasWeekdayPeak {
		out = append(out, fmt.Sprintf("%s is your most expensive day of the week over the last 30 days.",
			s.WeekdayPeak.String()))
	}

	// 4. Largest expense in the 30-day window.
	if s.Largest30Days != nil {
		out = append(out, fmt.Sprintf("Your largest recent expense was %s on %s.",
			money.Format(s.Largest30Days.Amount), s.Largest30Days.Category))
	}

	// 5. Average daily spend over the window.
	if s.AvgDaily30Days > 0 {
		out = append(out, fmt.Sprintf("You spend %s per day on average over the last 30 days.",
			money.Format(s.AvgDaily30Days)))
	}

	// 6. Consumption rate of the month's income.
	if s.IncomeMonth > 0 {
		rate := s.ExpenseMonth / s.IncomeMonth * 100
		out = append(out, fmt.Sprintf("You consumed %.1f%% of this month's income.", rate))
	}

	// 7. Alert: top category rising faster than its 30-day baseline.
	if len(s.TopExpensesMonth) > 0 && s.TopExpensesMonth[0].Total > 0 && s.ExpensePrevMonth > 0 {
		top := s.TopExpensesMonth[0]
		baseline := categoryTotal(s.TopExpenses30Days, top.Category)
		if baseline > 0 {
			increase := (top.Total - baseline) / baseline * 100
			if increase > risingCategoryThresholdPct {
				out = append(out, fmt.Sprintf("Heads up: %s spending is rising, up %.1f%% against its 30-day level.",
					top.Category, increase))
			}
		}
	}

	// 8. Alert: weekly overspend.
	if deficit := s.ExpenseWeek - s.IncomeWeek; s.ExpenseWeek > s.IncomeWeek && deficit > 0 {
		out = append(out, fmt.Sprintf("This week you spent %s more than you earned.", money.Format(deficit)))
	}

	// 9. Alert: outlier expense versus the daily average.
	if s.Largest30Days != nil && s.AvgDaily30Days > 0 &&
		s.Largest30Days.Amount > outlierMultiplier*s.AvgDaily30Days {
		out = append(out, fmt.Sprintf("One %s expense of %s stands far above your daily average of %s.",
			s.Largest30Days.Category, money.Format(s.Largest30Days.Amount), money.Format(s.AvgDaily30Days)))
	}

	// 10. Alert: spending concentrated in the top two categories.
	if len(s.TopExpensesMonth) >= 2 && s.ExpenseMonth > 0 {
		topTwo := s.TopExpensesMonth[0].Total + s.TopExpensesMonth[1].Total
		share := topTwo / s.ExpenseMonth * 100
		if share > concentrationThresholdPct {
			out = append(out, fmt.Sprintf("%.0f%% of this month's spending sits in just %s and %s.",
				math.Round(share), s.TopExpensesMonth[0].Category, s.TopExpensesMonth[1].Category))
		}
	}

	// 11. Suggestion: trim the top category by 20%.
	if len(s.TopExpensesMonth) > 0 {
		saving := s.TopExpensesMonth[0].Total * 0.20
		out = append(out, fmt.Sprintf("Cutting %s by 20%% would save you about %s this month.",
			s.TopExpensesMonth[0].Category, money.Format(saving)))
	}

	// 12. Suggestion: set aside a quarter of the month's net per week.
	if s.NetMonth > 0 {
		out = append(out, fmt.Sprintf("You could save %s per week from this month's surplus.",
			money.Format(s.NetMonth/4)))
	}

	// 13. Forecast: linear end-of-month projection. Guard dayOfMonth == 0.
	if s.DayOfMonth > 0 {
		pace := s.NetMonth / float64(s.DayOfMonth)
		projected := math.Round(s.NetMonth + pace*float64(s.DaysInMonth-s.DayOfMonth))
		out = append(out, fmt.Sprintf("At the current pace your projected end-of-month balance is %s.",
			money.Format(projected)))
	}

	if len(out) > MaxInsights {
		out = out[:MaxInsights]
	}
	return out
}

// Bands slices an insight sequence into its positional bands: overview,
// alerts, suggestions/forecast.
func Bands(items []string) (overview, alerts, suggestions []string) {
	if len(items) <= OverviewBand {
		return items, nil, nil
	}
	overview = items[:OverviewBand]
	rest := items[OverviewBand:]
	if len(rest) <= AlertBand {
		return overview, rest, nil
	}
	return overview, rest[:AlertBand], rest[AlertBand:]
}

func signedPercent(change float64) string {
	if change >= 0 {
		return fmt.Sprintf("+%.1f%%", change)
	}
	return fmt.Sprintf("%.1f%%", change)
}

func topCategoriesLine(totals []stats.CategoryTotal, limit int) string {
	if len(totals) < limit {
		limit = len(totals)
	}
	line := ""
	for i := 0; i < limit; i++ {
		if i > 0 {
			line += ", "
		}
		line += fmt.Sprintf("%s (%s)", totals[i].Category, money.Format(totals[i].Total))
	}
	return line
}

func categoryTotal(totals []stats.CategoryTotal, category string) float64 {
	for _, ct := range totals {
		if ct.Category == category {
			return ct.Total
		}
	}
	return 0
}
