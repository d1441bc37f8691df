package ai

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"google.golang.org/genai"

	"github.com/artifactlab/artifact-service/internal/model"
)

// generateContentAction is the capability string the Gemini catalog advertises
// for models that accept generate-content requests.
const generateContentAction = "generateContent"

// GeminiClient implements Client against the Gemini API using the official
// google.golang.org/genai SDK.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates an authenticated Gemini client.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// ListModels queries the catalog and reports each model with its
// generate-content capability. Identifiers are returned without the
// provider's "models/" prefix.
func (g *GeminiClient) ListModels(ctx context.Context) ([]model.ModelDescriptor, error) {
	var descriptors []model.ModelDescriptor

	for m, err := range g.client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("listing models: %w", err)
		}
		descriptors = append(descriptors, model.ModelDescriptor{
			Name:               strings.TrimPrefix(m.Name, "models/"),
			SupportsGeneration: slices.Contains(m.SupportedActions, generateContentAction),
		})
	}

	return descriptors, nil
}

// GenerateContent sends the payload to one model and returns its text output.
// A response without any text part is treated as a failure so the caller's
// fallback chain can move on to the next model.
func (g *GeminiClient) GenerateContent(ctx context.Context, modelName string, parts []Part) (string, error) {
	genaiParts := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.IsImage() {
			genaiParts = append(genaiParts, &genai.Part{
				InlineData: &genai.Blob{MIMEType: p.MIMEType, Data: p.Data},
			})
			continue
		}
		genaiParts = append(genaiParts, genai.NewPartFromText(p.Text))
	}

	contents := []*genai.Content{genai.NewContentFromParts(genaiParts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, modelName, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content with %s: %w", modelName, err)
	}

	var out strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, p := range resp.Candidates[0].Content.Parts {
			if p.Text != "" {
				out.WriteString(p.Text)
			}
		}
	}
	if s := out.String(); s != "" {
		return s, nil
	}

	return "", errors.New("no text returned by model")
}
