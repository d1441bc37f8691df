// Package ai is the provider boundary for generative-AI calls. It is the only
// package that crosses the process boundary to the remote provider, exposing
// two operations: listing the model catalog and generating content from an
// ordered payload of text and image parts.
package ai

import (
	"context"

	"github.com/artifactlab/artifact-service/internal/model"
)

// Part is one element of a generation payload: either text or an inline image.
// Exactly one of Text or Data is set.
type Part struct {
	Text     string
	MIMEType string // e.g. "image/jpeg"; set together with Data
	Data     []byte
}

// TextPart builds a text payload part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// ImagePart builds an inline image payload part.
func ImagePart(mimeType string, data []byte) Part {
	return Part{MIMEType: mimeType, Data: data}
}

// IsImage reports whether the part carries image bytes.
func (p Part) IsImage() bool {
	return len(p.Data) > 0
}

// Client is the interface the catalog resolver and the analysis invoker depend
// on. Keeping it this small makes the Gemini implementation swappable for a
// mock in tests.
type Client interface {
	// ListModels returns the catalog of models visible to the credential,
	// with their generate-content capability flag.
	ListModels(ctx context.Context) ([]model.ModelDescriptor, error)

	// GenerateContent sends the ordered parts to the named model and returns
	// the generated text.
	GenerateContent(ctx context.Context, modelName string, parts []Part) (string, error)
}
