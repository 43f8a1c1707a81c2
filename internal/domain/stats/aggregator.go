package stats

import (
	"sort"
	"time"

	"github.com/Karineprates/FinanceAI/internal/domain/transaction"
)

const windowDays30 = 30

// Compute builds a Stats snapshot from a transaction set and a reference
// instant. It is a single pass with no side effects; input order does not
// matter.
func Compute(txs []transaction.Transaction, now time.Time) Stats {
	currentKey := now.Format("2006-01")
	prevKey := previousMonthKey(now)

	// Window cutoffs are elapsed time, not calendar-day truncation. A record
	// belongs to a window when its parsed midnight timestamp is >= cutoff.
	weekCutoff := now.Add(-7 * 24 * time.Hour)
	cutoff30 := now.Add(-windowDays30 * 24 * time.Hour)

	s := Stats{
		DayOfMonth:  now.Day(),
		DaysInMonth: daysInMonth(now),
	}

	monthCategories := make(map[string]float64)
	categories30 := make(map[string]float64)
	var weekdayTotals [7]float64
	var weekdaySeen bool

	for _, tx := range txs {
		isExpense := tx.Type == transaction.TypeExpense

		switch tx.MonthKey() {
		case currentKey:
			if isExpense {
				s.ExpenseMonth += tx.Amount
				monthCategories[tx.Category] += tx.Amount
			} else {
				s.IncomeMonth += tx.Amount
			}
		case prevKey:
			if isExpense {
				s.ExpensePrevMonth += tx.Amount
			} else {
				s.IncomePrevMonth += tx.Amount
			}
		}

		date, err := tx.ParsedDate()
		if err != nil {
			continue // windows need a parseable date; month keys already done
		}

		if !date.Before(weekCutoff) {
			if isExpense {
				s.ExpenseWeek += tx.Amount
			} else {
				s.IncomeWeek += tx.Amount
			}
		}

		if !date.Before(cutoff30) && isExpense {
			s.Expense30Days += tx.Amount
			s.Expense30Count++
			categories30[tx.Category] += tx.Amount
			weekdayTotals[date.Weekday()] += tx.Amount
			weekdaySeen = true

			// Strictly greater keeps the first occurrence on exact ties.
			if s.Largest30Days == nil || tx.Amount > s.Largest30Days.Amount {
				s.Largest30Days = &LargestExpense{
					ID:       tx.ID,
					Date:     tx.Date,
					Category: tx.Category,
					Amount:   tx.Amount,
					Note:     tx.Note,
				}
			}
		}
	}

	s.NetMonth = s.IncomeMonth - s.ExpenseMonth
	s.NetPrevMonth = s.IncomePrevMonth - s.ExpensePrevMonth
	s.TopExpensesMonth = rankCategories(monthCategories)
	s.TopExpenses30Days = rankCategories(categories30)

	if s.Expense30Days > 0 {
		s.AvgDaily30Days = s.Expense30Days / windowDays30
	}

	if weekdaySeen {
		peak := time.Sunday
		for wd := time.Monday; wd <= time.Saturday; wd++ {
			if weekdayTotals[wd] > weekdayTotals[peak] {
				peak = wd
			}
		}
		s.WeekdayPeak = peak
		s.HasWeekdayPeak = true
	}

	return s
}

// rankCategories sorts accumulated totals descending; equal totals fall back
// to lexical category order so the ranking is deterministic.
func rankCategories(totals map[string]float64) []CategoryTotal {
	if len(totals) == 0 {
		return nil
	}
	out := make([]CategoryTotal, 0, len(totals))
	for cat, total := range totals {
		out = append(out, CategoryTotal{Category: cat, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// previousMonthKey derives the YYYY-MM key of the prior calendar month.
// Going through the first of the month sidesteps time.AddDate day
// normalization (March 31 minus one month must be February, not March 2),
// and January rolls back to December of the previous year.
func previousMonthKey(now time.Time) string {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return firstOfMonth.AddDate(0, -1, 0).Format("2006-01")
}

func daysInMonth(now time.Time) int {
	firstOfNext := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1).Day()
}
