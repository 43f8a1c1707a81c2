package insights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Karineprates/FinanceAI/internal/domain/transaction"
)

type fakeRemote struct {
	text string
	err  error
}

func (f *fakeRemote) GenerateText(ctx context.Context, prompt string) (string, error) {
	return f.text, f.err
}

var orchestratorNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func sampleTxs() []transaction.Transaction {
	return []transaction.Transaction{
		{ID: "1", Date: "2024-06-01", Type: transaction.TypeIncome, Category: "Salary", Amount: 2000},
		{ID: "2", Date: "2024-06-05", Type: transaction.TypeExpense, Category: "Rent", Amount: 800},
		{ID: "3", Date: "2024-06-10", Type: transaction.TypeExpense, Category: "Food", Amount: 120},
	}
}

func TestGetInsights_EmptyCollectionShortCircuits(t *testing.T) {
	o := NewOrchestrator(&fakeRemote{text: "should not be called"}, nil)
	res := o.GetInsights(context.Background(), nil, orchestratorNow)

	require.Len(t, res.Items, 1)
	assert.Equal(t, EmptyCollectionMessage, res.Items[0])
	assert.Equal(t, SourceRules, res.Source)
}

func TestGetInsights_RulesOnlyWithoutRemote(t *testing.T) {
	o := NewOrchestrator(nil, nil)
	res := o.GetInsights(context.Background(), sampleTxs(), orchestratorNow)

	assert.Equal(t, SourceRules, res.Source)
	assert.NotEmpty(t, res.Items)
	assert.Empty(t, res.FallbackReason)
}

func TestGetInsights_RemoteSuccessStripsBullets(t *testing.T) {
	remote := &fakeRemote{text: "- First insight\n\n* Second insight\n• Third insight\nFourth insight"}
	o := NewOrchestrator(remote, nil)

	res := o.GetInsights(context.Background(), sampleTxs(), orchestratorNow)
	assert.Equal(t, SourceRemote, res.Source)
	assert.Equal(t, []string{"First insight", "Second insight", "Third insight", "Fourth insight"}, res.Items)
}

func TestGetInsights_RemoteCappedAtTenLines(t *testing.T) {
	text := ""
	for i := 0; i < 15; i++ {
		text += "- line\n"
	}
	o := NewOrchestrator(&fakeRemote{text: text}, nil)

	res := o.GetInsights(context.Background(), sampleTxs(), orchestratorNow)
	assert.Len(t, res.Items, 10)
}

func TestGetInsights_RemoteFailureFallsBack(t *testing.T) {
	o := NewOrchestrator(&fakeRemote{err: errors.New("upstream 503")}, nil)

	res := o.GetInsights(context.Background(), sampleTxs(), orchestratorNow)
	assert.Equal(t, SourceRulesFallback, res.Source)
	assert.Contains(t, res.FallbackReason, "upstream 503")
	assert.NotEmpty(t, res.Items, "fallback must carry the rule-engine output")
}

func TestGetInsights_BlankRemoteResponseFallsBack(t *testing.T) {
	o := NewOrchestrator(&fakeRemote{text: "\n\n   \n"}, nil)

	res := o.GetInsights(context.Background(), sampleTxs(), orchestratorNow)
	assert.Equal(t, SourceRulesFallback, res.Source)
	assert.NotEmpty(t, res.FallbackReason)
	assert.NotEmpty(t, res.Items)
}

func TestResult_BandAccessors(t *testing.T) {
	res := &Result{Items: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}}
	assert.Equal(t, []string{"a", "b", "c", "d"}, res.Overview())
	assert.Equal(t, []string{"e", "f", "g", "h"}, res.Alerts())
	assert.Equal(t, []string{"i"}, res.Suggestions())
}

func TestBuildPrompt_CarriesSnapshotFields(t *testing.T) {
	s := fullStats()
	prompt := buildPrompt(s)

	assert.Contains(t, prompt, "Net balance this month: 1000.00")
	assert.Contains(t, prompt, "Rent: 500.00")
	assert.Contains(t, prompt, "Most expensive weekday over 30 days: Friday")
	assert.Contains(t, prompt, "at most 10 lines")
}
