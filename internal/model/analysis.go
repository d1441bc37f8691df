// Package model defines the core data types for the artifact analysis service.
package model

import "time"

// ModelDescriptor is one entry in the provider's model catalog.
// Immutable once fetched — the catalog is resolved at startup and never refreshed.
type ModelDescriptor struct {
	// Name is the bare model identifier, e.g. "gemini-2.5-flash"
	// (the provider's "models/" prefix is stripped during resolution).
	Name string `json:"name"`

	// SupportsGeneration reports whether the model advertises the
	// generate-content capability. Models without it are filtered out.
	SupportsGeneration bool `json:"supports_generation"`
}

// ImageInfo describes an uploaded artifact image after decoding.
type ImageInfo struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"` // "jpeg" or "png"
}

// Report is the result of a successful analysis: the markdown text plus
// which model in the fallback chain produced it. Reports are returned to
// the caller and never persisted.
type Report struct {
	Model       string    `json:"model"`
	Markdown    string    `json:"report"`
	Image       ImageInfo `json:"image"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ReportFilename is the fixed name used when a report is downloaded.
const ReportFilename = "artifact_report.md"

// AnalysisCall records a single generation attempt against one model.
// Each field has two tags:
//   - `db:"column_name"` — used by sqlx to scan database rows
//   - `json:"field_name"` — used for JSON serialization (API responses)
//
// Only call telemetry is stored; uploaded images and generated reports are not.
type AnalysisCall struct {
	ID           int64     `db:"id" json:"id"`
	Model        string    `db:"model" json:"model"`
	Success      bool      `db:"success" json:"success"`
	DurationMs   int64     `db:"duration_ms" json:"duration_ms"`
	ErrorMessage *string   `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// CallStats summarizes the audit log for the admin stats endpoint.
type CallStats struct {
	Total     int64 `json:"total"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
}
