// Command cli inspects a transactions file from the terminal: it parses the
// file, prints the windowed stats and optionally the generated insights or a
// full-text search.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Karineprates/FinanceAI/internal/domain/import/parser"
	"github.com/Karineprates/FinanceAI/internal/domain/import/sniffer"
	"github.com/Karineprates/FinanceAI/internal/domain/insights"
	"github.com/Karineprates/FinanceAI/internal/domain/search"
	"github.com/Karineprates/FinanceAI/internal/domain/stats"
	"github.com/Karineprates/FinanceAI/internal/domain/transaction"
	"github.com/Karineprates/FinanceAI/pkg/money"
)

type Params struct {
	File     string `descr:"Path to a transactions file (csv, tsv, json, backup or xlsx)" positional:"true"`
	Insights bool   `descr:"Print generated insights"`
	Search   string `descr:"Full-text search query over notes and categories"`
}

func main() {
	boa.NewCmdT[Params]("financeai").
		WithShort("Inspect a transactions file").
		WithLong("Parses a transactions file, prints windowed spending stats, and optionally rule-based insights or a full-text search over notes and categories.").
		WithRunFunc(func(params *Params) {
			if err := run(params); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}).
		Run()
}

func run(params *Params) error {
	data, err := os.ReadFile(params.File)
	if err != nil {
		return err
	}

	txs, parseErrors, err := parse(data, params.File)
	if err != nil {
		return err
	}
	for _, msg := range parseErrors {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
	}
	fmt.Printf("Loaded %d transactions\n\n", len(txs))

	now := time.Now()
	printStats(stats.Compute(txs, now))

	if params.Search != "" {
		if err := printSearch(txs, params.Search); err != nil {
			return err
		}
	}

	if params.Insights {
		printInsights(txs, now)
	}
	return nil
}

func parse(data []byte, filename string) ([]transaction.Transaction, []string, error) {
	format, err := sniffer.DetectFormat(data, filename)
	if err != nil {
		return nil, nil, err
	}

	var res *parser.Result
	switch format {
	case sniffer.FormatJSON:
		trimmed := bytes.TrimLeft(data, " \t\r\n")
		if len(trimmed) > 0 && trimmed[0] == '{' {
			res = parser.ParseBackup(data)
		} else {
			res = parser.ParseJSON(data)
		}
	case sniffer.FormatXLSX:
		res = parser.ParseXLSX(data)
	default:
		res = parser.ParseDelimited(data)
	}

	if len(res.Transactions) == 0 && len(res.Errors) > 0 {
		return nil, nil, fmt.Errorf("%s", res.Errors[0])
	}
	return res.Transactions, res.Errors, nil
}

func printStats(s stats.Stats) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Window", "Income", "Expenses", "Net"})
	t.AppendRow(table.Row{
		"This month",
		money.Format(s.IncomeMonth),
		money.Format(s.ExpenseMonth),
		money.Format(s.NetMonth),
	})
	t.AppendRow(table.Row{
		"Last month",
		money.Format(s.IncomePrevMonth),
		money.Format(s.ExpensePrevMonth),
		money.Format(s.NetPrevMonth),
	})
	t.AppendRow(table.Row{
		"Last 7 days",
		money.Format(s.IncomeWeek),
		money.Format(s.ExpenseWeek),
		money.Format(s.IncomeWeek - s.ExpenseWeek),
	})
	t.Render()

	if len(s.TopExpensesMonth) > 0 {
		fmt.Println()
		ct := table.NewWriter()
		ct.SetOutputMirror(os.Stdout)
		ct.AppendHeader(table.Row{"Category (this month)", "Total"})
		for _, c := range s.TopExpensesMonth {
			ct.AppendRow(table.Row{c.Category, money.Format(c.Total)})
		}
		ct.Render()
	}

	if s.Largest30Days != nil {
		fmt.Printf("\nLargest expense (30 days): %s %s on %s\n",
			money.Format(s.Largest30Days.Amount),
			s.Largest30Days.Category,
			s.Largest30Days.Date,
		)
	}
	fmt.Println()
}

func printSearch(txs []transaction.Transaction, query string) error {
	idx, err := search.NewIndex()
	if err != nil {
		return err
	}
	defer idx.Close()

	if err := idx.Reindex(txs); err != nil {
		return err
	}
	hits, err := idx.Search(query, 20)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Printf("No matches for %q\n\n", query)
		return nil
	}

	byID := make(map[string]transaction.Transaction, len(txs))
	for _, tx := range txs {
		byID[tx.ID] = tx
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Date", "Type", "Category", "Amount", "Note"})
	for _, hit := range hits {
		tx, ok := byID[hit.ID]
		if !ok {
			continue
		}
		t.AppendRow(table.Row{tx.Date, string(tx.Type), tx.Category, money.Format(tx.Amount), tx.Note})
	}
	t.Render()
	fmt.Println()
	return nil
}

func printInsights(txs []transaction.Transaction, now time.Time) {
	orchestrator := insights.NewOrchestrator(nil, nil)
	result := orchestrator.GetInsights(context.Background(), txs, now)

	fmt.Println(text.Bold.Sprint("Insights"))
	for _, item := range result.Items {
		fmt.Printf("  - %s\n", item)
	}
	fmt.Println()
}
