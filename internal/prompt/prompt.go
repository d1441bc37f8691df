// Package prompt assembles the generation payload: the fixed analysis
// instruction, an optional user-context segment, and the artifact image.
package prompt

import (
	"fmt"
	"strings"

	"github.com/artifactlab/artifact-service/internal/ai"
)

// AnalysisInstruction is the fixed instruction template sent with every
// request. It always comes first in the payload.
const AnalysisInstruction = `
You are an expert archaeologist and historian specializing in artifact analysis.

Analyze the provided image of a historical artifact and generate a comprehensive professional report.

Please include:
1. **Artifact Type & Classification** - What category does this artifact belong to?
2. **Estimated Period/Era** - When was this likely created? (with confidence level)
3. **Materials & Composition** - What materials are visible and their significance?
4. **Dimensions & Scale** - Approximate size and proportions
5. **Craftsmanship & Technique** - How was this made? What skills were required?
6. **Condition Assessment** - Current state of preservation, visible wear, damage
7. **Cultural & Historical Significance** - Why is this important?
8. **Possible Origin & Geographic Location** - Where might this have come from?
9. **Similar Artifacts** - Known comparative examples
10. **Recommendations for Further Study** - What tests or analysis would help?

Format in clear, structured markdown. Add brief disclaimers about visual-only analysis limitations.
`

// Build produces the ordered payload: instruction, then the user's notes (if
// any non-whitespace content), then the image. Notes are passed through
// verbatim — no validation, no escaping.
func Build(notes string, imageMIME string, imageData []byte) []ai.Part {
	parts := []ai.Part{ai.TextPart(AnalysisInstruction)}

	if strings.TrimSpace(notes) != "" {
		parts = append(parts, ai.TextPart(fmt.Sprintf("\nAdditional Context from User: %s\n", notes)))
	}

	parts = append(parts, ai.ImagePart(imageMIME, imageData))
	return parts
}
