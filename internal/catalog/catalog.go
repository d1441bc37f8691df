// Package catalog resolves the ordered list of candidate models used by the
// analysis fallback chain. Resolution happens once at process start; the
// result is immutable and passed explicitly to whoever needs it.
package catalog

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/artifactlab/artifact-service/internal/ai"
)

// FallbackModels is the static list substituted when the catalog query fails
// or yields no generation-capable models. Resolution never hard-fails.
var FallbackModels = []string{
	"gemini-2.5-flash",
	"gemini-2.0-flash",
	"gemini-2.5-pro",
}

// DefaultModel is the final hardcoded default, used when everything else
// comes up empty.
const DefaultModel = "gemini-2.5-flash"

// DefaultPreferred is the default preference order: cheaper flash tiers
// before the pro tier. Overridable via config (catalog.preferred).
var DefaultPreferred = []string{
	"gemini-2.5-flash",
	"gemini-2.0-flash",
	"gemini-2.5-pro",
}

// Catalog is the resolved attempt list, most-preferred first.
// Invariant: Models is never empty.
type Catalog struct {
	Models       []string
	FromFallback bool // static fallback was substituted for a live catalog
}

// Selected returns the most-preferred model.
func (c *Catalog) Selected() string {
	return c.Models[0]
}

// Resolve queries the provider for generation-capable models and orders them
// by preference. Query failures are swallowed: the static fallback list takes
// the catalog's place so the caller always gets a usable, non-empty chain.
func Resolve(ctx context.Context, client ai.Client, preferred []string, logger *zap.Logger) *Catalog {
	if len(preferred) == 0 {
		preferred = DefaultPreferred
	}

	candidates, err := listGenerationModels(ctx, client)
	fromFallback := false
	if err != nil {
		logger.Warn("model catalog query failed, using fallback list", zap.Error(err))
		candidates = slices.Clone(FallbackModels)
		fromFallback = true
	} else if len(candidates) == 0 {
		logger.Warn("no generation-capable models in catalog, using fallback list")
		candidates = slices.Clone(FallbackModels)
		fromFallback = true
	}

	ordered := orderByPreference(candidates, preferred)
	if len(ordered) == 0 {
		ordered = []string{DefaultModel}
	}

	logger.Info("model catalog resolved",
		zap.String("selected", ordered[0]),
		zap.Int("candidates", len(ordered)),
		zap.Bool("from_fallback", fromFallback),
	)

	return &Catalog{Models: ordered, FromFallback: fromFallback}
}

func listGenerationModels(ctx context.Context, client ai.Client) ([]string, error) {
	descriptors, err := client.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, d := range descriptors {
		if d.SupportsGeneration {
			names = append(names, d.Name)
		}
	}
	return names, nil
}

// orderByPreference places preferred models first (in preference order),
// then the remaining candidates in catalog order.
func orderByPreference(candidates, preferred []string) []string {
	ordered := make([]string, 0, len(candidates))
	for _, p := range preferred {
		if slices.Contains(candidates, p) {
			ordered = append(ordered, p)
		}
	}
	for _, c := range candidates {
		if !slices.Contains(ordered, c) {
			ordered = append(ordered, c)
		}
	}
	return ordered
}
