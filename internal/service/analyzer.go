package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/artifactlab/artifact-service/internal/ai"
	"github.com/artifactlab/artifact-service/internal/catalog"
	"github.com/artifactlab/artifact-service/internal/model"
	"github.com/artifactlab/artifact-service/internal/prompt"
	"github.com/artifactlab/artifact-service/internal/storage"
)

// GenerationError is returned when every model in the chain failed. It wraps
// the last recorded failure and names the model that produced it; earlier
// failures are not retained.
type GenerationError struct {
	Model string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("all models failed, last attempt %s: %v", e.Model, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Analyzer runs the model fallback chain: each resolved model is attempted
// exactly once, in order, and the first success wins. There is no backoff and
// no repeated retry of the same model — quota enforcement is entirely the
// remote provider's job.
type Analyzer struct {
	client  ai.Client
	catalog *catalog.Catalog
	calls   storage.AnalysisCallRepository // nil disables the audit log
	logger  *zap.Logger
}

// NewAnalyzer wires the invoker. calls may be nil — the CLI runs without a
// database and the analyzer works the same, just without audit records.
func NewAnalyzer(client ai.Client, cat *catalog.Catalog, calls storage.AnalysisCallRepository, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		client:  client,
		catalog: cat,
		calls:   calls,
		logger:  logger,
	}
}

// Catalog returns the resolved model catalog the analyzer iterates.
func (a *Analyzer) Catalog() *catalog.Catalog {
	return a.catalog
}

// Analyze builds the payload and tries each model in preference order,
// returning the first successful report. On total failure the returned error
// is a *GenerationError wrapping the last model's failure.
func (a *Analyzer) Analyze(ctx context.Context, notes string, img *NormalizedImage) (*model.Report, error) {
	parts := prompt.Build(notes, img.MIME, img.Data)

	var lastErr error
	var lastModel string

	for _, name := range a.catalog.Models {
		start := time.Now()
		text, err := a.client.GenerateContent(ctx, name, parts)
		a.record(ctx, name, err, time.Since(start))

		if err == nil {
			a.logger.Info("analysis complete",
				zap.String("model", name),
				zap.Int("report_bytes", len(text)),
			)
			return &model.Report{
				Model:       name,
				Markdown:    text,
				Image:       img.Info,
				GeneratedAt: time.Now().UTC(),
			}, nil
		}

		lastErr = err
		lastModel = name
		a.logger.Warn("model attempt failed, trying next",
			zap.String("model", name),
			zap.Error(err),
		)
	}

	return nil, &GenerationError{Model: lastModel, Err: lastErr}
}

func (a *Analyzer) record(ctx context.Context, modelName string, callErr error, elapsed time.Duration) {
	if a.calls == nil {
		return
	}

	call := &model.AnalysisCall{
		Model:      modelName,
		Success:    callErr == nil,
		DurationMs: elapsed.Milliseconds(),
	}
	if callErr != nil {
		msg := callErr.Error()
		call.ErrorMessage = &msg
	}

	if err := a.calls.Create(ctx, call); err != nil {
		a.logger.Error("recording analysis call", zap.Error(err))
	}
}
