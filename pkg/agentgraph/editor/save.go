package editor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/document"
	agerr "github.com/randalmurphal/agentgraph/pkg/agentgraph/errors"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/observability"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/persist"
)

// Save snapshots the graph and writes it to the persistence store, retrying
// transient failures under Settings.SaveRetry.
//
// The graph is never modified by Save. On failure the returned error is a
// *agentgraph.SaveError; when its Retryable reports true the caller may
// simply try again. A graph holding values JSON cannot encode fails at once
// without touching the store.
func (e *Editor) Save(ctx context.Context) error {
	if e.persist == nil {
		return ErrNoPersistence
	}

	ctx, span := e.spans.StartSaveSpan(ctx, e.graphID)
	start := time.Now()
	elapsed := observability.TimedOperation()

	data, err := document.Marshal(document.Serialize(e.store))
	if err != nil {
		saveErr := &agentgraph.SaveError{GraphID: e.graphID, Err: fmt.Errorf("%w: %w", agentgraph.ErrUnencodable, err)}
		e.metrics.RecordSave(ctx, false, time.Since(start), 0)
		e.spans.EndSpanWithError(span, saveErr)
		observability.LogSaveError(e.logger, e.graphID, saveErr, 0)
		return saveErr
	}

	retry := e.settings.SaveRetry
	onRetry := retry.OnRetry
	retry.OnRetry = func(attempt int, err error, wait time.Duration) {
		if onRetry != nil {
			onRetry(attempt, err, wait)
		}
		e.spans.AddSpanEvent(ctx, "retry",
			attribute.Int("attempt", attempt),
			attribute.String("error", err.Error()),
		)
		if e.logger != nil {
			e.logger.Warn("graph save failed, retrying",
				slog.String(observability.KeyGraphID, e.graphID),
				slog.Int("attempt", attempt),
				slog.Duration("wait", wait),
				slog.String("error", err.Error()),
			)
		}
	}

	result := agerr.WithRetryContext(ctx, retry, func(ctx context.Context) (persist.Info, error) {
		return e.persist.Save(ctx, e.graphID, data)
	})
	e.metrics.RecordSave(ctx, result.Err == nil, time.Since(start), int64(len(data)))

	if result.Err != nil {
		saveErr := &agentgraph.SaveError{GraphID: e.graphID, Attempts: result.Attempts, Err: result.Err}
		e.spans.EndSpanWithError(span, saveErr)
		observability.LogSaveError(e.logger, e.graphID, result.Err, result.Attempts)
		return saveErr
	}

	e.revision.Store(result.Value.Revision)
	e.spans.EndSpanWithError(span, nil)
	observability.LogSaveComplete(e.logger, e.graphID, elapsed(), len(data))
	return nil
}

// Load replaces the graph with the saved copy. Nodes of kinds the catalog
// does not know are kept and listed in the report. On error the current
// graph is left as it was.
func (e *Editor) Load(ctx context.Context) (document.Report, error) {
	if e.persist == nil {
		return document.Report{}, ErrNoPersistence
	}

	ctx, span := e.spans.StartLoadSpan(ctx, e.graphID)
	start := time.Now()
	elapsed := observability.TimedOperation()

	report, err := e.load(ctx)
	e.metrics.RecordLoad(ctx, err == nil, time.Since(start), len(report.Quarantined))
	e.spans.EndSpanWithError(span, err)
	if err != nil {
		return report, fmt.Errorf("load graph %s: %w", e.graphID, err)
	}

	observability.LogLoadComplete(e.logger, e.graphID, elapsed(), e.store.Len(), e.store.EdgeCount(), len(report.Quarantined))
	return report, nil
}

func (e *Editor) load(ctx context.Context) (document.Report, error) {
	result := agerr.WithRetryContext(ctx, e.settings.SaveRetry, func(ctx context.Context) ([]byte, error) {
		return e.persist.Load(ctx, e.graphID)
	})
	if result.Err != nil {
		return document.Report{}, result.Err
	}

	doc, err := document.Unmarshal(result.Value)
	if err != nil {
		return document.Report{}, err
	}
	return document.Load(e.store, doc)
}
