package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artifactlab/artifact-service/internal/ai"
	"github.com/artifactlab/artifact-service/internal/catalog"
	"github.com/artifactlab/artifact-service/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const maxTestUpload = 10 << 20

func newTestRouter(analyzer *service.Analyzer) *gin.Engine {
	router := gin.New()
	h := NewReportHandler(analyzer, maxTestUpload, zap.NewNop())
	router.POST("/reports", h.Analyze)
	router.GET("/models", h.Models)
	return router
}

func newTestAnalyzer(client ai.Client, models ...string) *service.Analyzer {
	return service.NewAnalyzer(client, &catalog.Catalog{Models: models}, nil, zap.NewNop())
}

// testJPEG renders a small in-memory JPEG upload fixture.
func testJPEG(t *testing.T) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 48, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 48; x++ {
			img.Set(x, y, color.RGBA{R: 140, G: 90, B: 40, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

func postImage(t *testing.T, router *gin.Engine, path string, imageData []byte, notes string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if imageData != nil {
		fw, err := w.CreateFormFile("image", "artifact.jpg")
		if err != nil {
			t.Fatalf("creating form file: %v", err)
		}
		if _, err := fw.Write(imageData); err != nil {
			t.Fatalf("writing form file: %v", err)
		}
	}
	if notes != "" {
		if err := w.WriteField("notes", notes); err != nil {
			t.Fatalf("writing notes field: %v", err)
		}
	}
	w.Close()

	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAnalyze_EndToEnd(t *testing.T) {
	const markdown = "# Artifact Report\n\nBronze Age amphora, likely Minoan."

	client := ai.NewMockClient()
	client.SetResponse("gemini-2.5-flash", markdown)

	router := newTestRouter(newTestAnalyzer(client, "gemini-2.5-flash", "gemini-2.0-flash"))
	rec := postImage(t, router, "/reports", testJPEG(t), "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Model  string `json:"model"`
		Report string `json:"report"`
		Image  struct {
			Width  int    `json:"width"`
			Height int    `json:"height"`
			Format string `json:"format"`
		} `json:"image"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if resp.Report != markdown {
		t.Errorf("report text mismatch: %q", resp.Report)
	}
	if resp.Model != "gemini-2.5-flash" {
		t.Errorf("expected gemini-2.5-flash, got %s", resp.Model)
	}
	if resp.Image.Width != 48 || resp.Image.Height != 48 || resp.Image.Format != "jpeg" {
		t.Errorf("unexpected image metadata: %+v", resp.Image)
	}

	// Only the first model was invoked.
	if calls := client.Calls(); len(calls) != 1 {
		t.Errorf("expected 1 provider call, got %d", len(calls))
	}
}

func TestAnalyze_Download(t *testing.T) {
	const markdown = "# Artifact Report\n\nFixed content."

	client := ai.NewMockClient()
	client.SetResponse("gemini-2.5-flash", markdown)

	router := newTestRouter(newTestAnalyzer(client, "gemini-2.5-flash"))
	rec := postImage(t, router, "/reports?download=true", testJPEG(t), "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("expected text/markdown content type, got %s", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "artifact_report.md") {
		t.Errorf("expected artifact_report.md attachment, got %s", cd)
	}
	if rec.Body.String() != markdown {
		t.Errorf("download body mismatch: %q", rec.Body.String())
	}
}

func TestAnalyze_UnauthorizedMapsToAuthBranch(t *testing.T) {
	client := ai.NewMockClient()
	client.SetError("gemini-2.5-flash", errors.New("401 unauthorized"))
	client.SetError("gemini-2.0-flash", errors.New("401 unauthorized"))

	router := newTestRouter(newTestAnalyzer(client, "gemini-2.5-flash", "gemini-2.0-flash"))
	rec := postImage(t, router, "/reports", testJPEG(t), "")

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}

	var resp struct {
		Kind            string `json:"kind"`
		Troubleshooting string `json:"troubleshooting"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Kind != "authentication" {
		t.Errorf("expected authentication branch, got %s", resp.Kind)
	}
	if resp.Troubleshooting == "" {
		t.Error("expected remediation text")
	}
}

func TestAnalyze_MissingImage(t *testing.T) {
	router := newTestRouter(newTestAnalyzer(ai.NewMockClient(), "gemini-2.5-flash"))
	rec := postImage(t, router, "/reports", nil, "some notes")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestAnalyze_UnsupportedFormat(t *testing.T) {
	router := newTestRouter(newTestAnalyzer(ai.NewMockClient(), "gemini-2.5-flash"))
	rec := postImage(t, router, "/reports", []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"), "")

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("expected 415, got %d", rec.Code)
	}
}

func TestAnalyze_NotConfigured(t *testing.T) {
	router := newTestRouter(nil)
	rec := postImage(t, router, "/reports", testJPEG(t), "")

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "remediation") {
		t.Error("configuration error must include remediation text")
	}
}

func TestModels(t *testing.T) {
	router := newTestRouter(newTestAnalyzer(ai.NewMockClient(), "gemini-2.5-flash", "gemini-2.5-pro"))

	req := httptest.NewRequest("GET", "/models", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Selected string   `json:"selected"`
		Models   []string `json:"models"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Selected != "gemini-2.5-flash" {
		t.Errorf("expected gemini-2.5-flash selected, got %s", resp.Selected)
	}
	if len(resp.Models) != 2 {
		t.Errorf("expected 2 models, got %v", resp.Models)
	}
}
