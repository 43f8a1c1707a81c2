package insights

import (
	"fmt"
	"strings"

	"github.com/Karineprates/FinanceAI/internal/domain/stats"
	"github.com/Karineprates/FinanceAI/pkg/money"
)

// maxRemoteLines caps how many lines of a remote response become insights.
const maxRemoteLines = 10

// buildPrompt renders the stats snapshot into the structured prompt sent to
// the remote model. The model fills the same slots the rule engine would.
func buildPrompt(s stats.Stats) string {
	var b strings.Builder
	b.WriteString("You are a personal finance assistant. Based on the numbers below, ")
	b.WriteString("write short, concrete insights about this user's spending.\n\n")

	fmt.Fprintf(&b, "Net balance this month: %s\n", money.FormatFixed(s.NetMonth))
	fmt.Fprintf(&b, "Income this month: %s\n", money.FormatFixed(s.IncomeMonth))
	fmt.Fprintf(&b, "Expenses this month: %s\n", money.FormatFixed(s.ExpenseMonth))
	fmt.Fprintf(&b, "Expenses last month: %s\n", money.FormatFixed(s.ExpensePrevMonth))

	if len(s.TopExpensesMonth) > 0 {
		b.WriteString("Top categories this month:\n")
		for i, ct := range s.TopExpensesMonth {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "  - %s: %s\n", ct.Category, money.FormatFixed(ct.Total))
		}
	}
	if s.Largest30Days != nil {
		fmt.Fprintf(&b, "Largest expense in the last 30 days: %s on %s\n",
			money.FormatFixed(s.Largest30Days.Amount), s.Largest30Days.Category)
	}
	fmt.Fprintf(&b, "Average daily expense over 30 days: %s\n", money.FormatFixed(s.AvgDaily30Days))
	fmt.Fprintf(&b, "Income last 7 days: %s\n", money.FormatFixed(s.IncomeWeek))
	fmt.Fprintf(&b, "Expenses last 7 days: %s\n", money.FormatFixed(s.ExpenseWeek))
	if s.HasWeekdayPeak {
		fmt.Fprintf(&b, "Most expensive weekday over 30 days: %s\n", s.WeekdayPeak)
	}

	b.WriteString("\nRules:\n")
	fmt.Fprintf(&b, "- Return at most %d lines, one insight per line.\n", maxRemoteLines)
	b.WriteString("- Plain text only. No Markdown, no headings, no numbering.\n")
	b.WriteString("- Start with general observations, then warnings, then suggestions.\n")

	return b.String()
}

// splitRemoteLines turns a raw remote response into the insight sequence: at
// most maxRemoteLines non-empty lines, each with a leading bullet marker
// stripped.
func splitRemoteLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = stripBullet(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == maxRemoteLines {
			break
		}
	}
	return out
}

func stripBullet(line string) string {
	line = strings.TrimSpace(line)
	for _, marker := range []string{"- ", "* ", "• ", "– "} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(strings.TrimPrefix(line, marker))
		}
	}
	return line
}
