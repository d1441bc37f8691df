package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/artifactlab/artifact-service/internal/model"
)

// AnalysisCallRepository defines the interface for the call audit log.
// Only the interface is exported; handlers and the analyzer depend on it,
// never on the SQLite implementation.
type AnalysisCallRepository interface {
	Create(ctx context.Context, call *model.AnalysisCall) error
	Stats(ctx context.Context) (*model.CallStats, error)
	Recent(ctx context.Context, limit int) ([]model.AnalysisCall, error)
}

type sqliteCallRepository struct {
	db *sqlx.DB
}

// NewAnalysisCallRepository creates a SQLite-backed AnalysisCallRepository.
func NewAnalysisCallRepository(db *sqlx.DB) AnalysisCallRepository {
	return &sqliteCallRepository{db: db}
}

func (r *sqliteCallRepository) Create(ctx context.Context, call *model.AnalysisCall) error {
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO analysis_calls (model, success, duration_ms, error_message)
		VALUES (:model, :success, :duration_ms, :error_message)
	`, call)
	if err != nil {
		return fmt.Errorf("creating analysis call: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	call.ID = id
	return nil
}

func (r *sqliteCallRepository) Stats(ctx context.Context) (*model.CallStats, error) {
	var stats model.CallStats
	err := r.db.GetContext(ctx, &stats.Total, "SELECT COUNT(*) FROM analysis_calls")
	if err != nil {
		return nil, fmt.Errorf("counting analysis calls: %w", err)
	}

	err = r.db.GetContext(ctx, &stats.Succeeded, "SELECT COUNT(*) FROM analysis_calls WHERE success = 1")
	if err != nil {
		return nil, fmt.Errorf("counting successful calls: %w", err)
	}

	stats.Failed = stats.Total - stats.Succeeded
	return &stats, nil
}

func (r *sqliteCallRepository) Recent(ctx context.Context, limit int) ([]model.AnalysisCall, error) {
	if limit <= 0 {
		limit = 20
	}

	var calls []model.AnalysisCall
	err := r.db.SelectContext(ctx, &calls,
		"SELECT * FROM analysis_calls ORDER BY created_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent calls: %w", err)
	}
	return calls, nil
}
