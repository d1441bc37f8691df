package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artifactlab/artifact-service/internal/diagnose"
	"github.com/artifactlab/artifact-service/internal/model"
	"github.com/artifactlab/artifact-service/internal/service"
)

// configRemediation is shown when the analyze action is disabled because no
// credential was configured. The request never reaches the invoker.
const configRemediation = "Set gemini.api_key (or the ARTIFACT_GEMINI_API_KEY environment variable) " +
	"and restart the service. Free keys: https://aistudio.google.com/app/apikey"

// ReportHandler handles artifact analysis requests. It runs the full
// pipeline: decode and normalize the upload, build the payload, walk the
// model fallback chain, and render the result as JSON or a markdown download.
type ReportHandler struct {
	analyzer  *service.Analyzer // nil when gemini.api_key is not configured
	maxUpload int64
	logger    *zap.Logger
}

// NewReportHandler creates a ReportHandler. analyzer may be nil — analysis
// endpoints then answer with a configuration error instead of crashing.
func NewReportHandler(analyzer *service.Analyzer, maxUpload int64, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		analyzer:  analyzer,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

// Analyze generates an archaeological report for an uploaded artifact image.
// Route: POST /api/v1/reports (multipart: image, notes) [?download=true]
//
// The response is JSON by default; with download=true the raw markdown is
// returned as an attachment named artifact_report.md.
func (h *ReportHandler) Analyze(c *gin.Context) {
	if h.analyzer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":       "analysis disabled: gemini.api_key is not configured",
			"remediation": configRemediation,
		})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "missing image upload (multipart field \"image\")",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reading upload: " + err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reading upload: " + err.Error()})
		return
	}

	img, err := service.NormalizeImage(data)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrUnsupportedFormat) {
			status = http.StatusUnsupportedMediaType
		}
		c.JSON(status, gin.H{"error": "could not load image: " + err.Error()})
		return
	}

	report, err := h.analyzer.Analyze(c.Request.Context(), c.PostForm("notes"), img)
	if err != nil {
		advice := diagnose.Classify(err)
		h.logger.Warn("analysis failed",
			zap.String("kind", string(advice.Kind)),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":           err.Error(),
			"kind":            advice.Kind,
			"summary":         advice.Summary,
			"troubleshooting": advice.Remediation,
		})
		return
	}

	if c.Query("download") == "true" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", model.ReportFilename))
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report.Markdown))
		return
	}

	c.JSON(http.StatusOK, report)
}

// Models reports the resolved model catalog and the selected model,
// mirroring what the analyze action will actually attempt.
// Route: GET /api/v1/models
func (h *ReportHandler) Models(c *gin.Context) {
	if h.analyzer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":       "analysis disabled: gemini.api_key is not configured",
			"remediation": configRemediation,
		})
		return
	}

	cat := h.analyzer.Catalog()
	c.JSON(http.StatusOK, gin.H{
		"selected":      cat.Selected(),
		"models":        cat.Models,
		"from_fallback": cat.FromFallback,
	})
}
