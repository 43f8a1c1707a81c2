package insights

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/Karineprates/FinanceAI/internal/domain/stats"
	"github.com/Karineprates/FinanceAI/internal/domain/transaction"
)

// Source identifies which generator produced an insight sequence.
type Source string

const (
	SourceRules         Source = "rules"
	SourceRemote        Source = "remote"
	SourceRulesFallback Source = "rules-fallback"
)

// Result is the orchestrator's normalized output: the same shape regardless
// of which source filled it.
type Result struct {
	Items          []string      `json:"items"`
	Source         Source        `json:"source"`
	Elapsed        time.Duration `json:"elapsed"`
	FallbackReason string        `json:"fallbackReason,omitempty"`
}

// Overview returns the first positional band.
func (r *Result) Overview() []string {
	overview, _, _ := Bands(r.Items)
	return overview
}

// Alerts returns the second positional band.
func (r *Result) Alerts() []string {
	_, alerts, _ := Bands(r.Items)
	return alerts
}

// Suggestions returns the trailing band.
func (r *Result) Suggestions() []string {
	_, _, suggestions := Bands(r.Items)
	return suggestions
}

// Orchestrator decides between the remote text source and the local rule
// engine. A nil remote source means rules-only operation.
type Orchestrator struct {
	remote RemoteSource
	logger *slog.Logger
}

// NewOrchestrator builds an orchestrator. Pass a nil remote to disable the
// external call entirely.
func NewOrchestrator(remote RemoteSource, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{remote: remote, logger: logger}
}

// GetInsights produces the insight sequence for a transaction set. An empty
// set short-circuits before any aggregation with the fixed prompt to add
// transactions. Otherwise stats are computed once and handed to the remote
// source when configured; any remote failure falls back to the local rule
// engine, tagged with the underlying error.
func (o *Orchestrator) GetInsights(ctx context.Context, txs []transaction.Transaction, now time.Time) *Result {
	ctx, span := otel.Tracer("insights").Start(ctx, "Orchestrator.GetInsights")
	defer span.End()

	start := time.Now()

	if len(txs) == 0 {
		return &Result{
			Items:   []string{EmptyCollectionMessage},
			Source:  SourceRules,
			Elapsed: time.Since(start),
		}
	}

	snapshot := stats.Compute(txs, now)

	if o.remote == nil {
		return &Result{
			Items:   Generate(snapshot),
			Source:  SourceRules,
			Elapsed: time.Since(start),
		}
	}

	raw, err := o.remote.GenerateText(ctx, buildPrompt(snapshot))
	if err == nil {
		if items := splitRemoteLines(raw); len(items) > 0 {
			return &Result{
				Items:   items,
				Source:  SourceRemote,
				Elapsed: time.Since(start),
			}
		}
		o.logger.Warn("remote insight response had no usable lines")
		return &Result{
			Items:          Generate(snapshot),
			Source:         SourceRulesFallback,
			Elapsed:        time.Since(start),
			FallbackReason: "remote response contained no usable lines",
		}
	}

	o.logger.Warn("remote insight source failed, using rule engine", "error", err)
	return &Result{
		Items:          Generate(snapshot),
		Source:         SourceRulesFallback,
		Elapsed:        time.Since(start),
		FallbackReason: err.Error(),
	}
}
