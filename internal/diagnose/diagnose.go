// Package diagnose maps terminal generation errors to human-readable
// troubleshooting guidance. Classification is best-effort substring matching
// over the provider's error text — a presentation nicety, not a contract —
// so it lives here, isolated from the invoker, where it can be tested
// without real provider errors.
package diagnose

import "strings"

// Kind identifies a troubleshooting branch.
type Kind string

const (
	KindModelNotFound Kind = "model_not_found"
	KindAuth          Kind = "authentication"
	KindRateLimit     Kind = "rate_limit"
	KindGeneric       Kind = "generic"
)

// Advice is the remediation text shown alongside a failure.
type Advice struct {
	Kind        Kind   `json:"kind"`
	Summary     string `json:"summary"`
	Remediation string `json:"remediation"`
}

// matcher pairs a kind with the substrings that select it. The table is
// ordered: the first match wins.
type matcher struct {
	kind       Kind
	substrings []string
}

var matchers = []matcher{
	{KindModelNotFound, []string{"not found", "not supported"}},
	{KindAuth, []string{"401", "permission", "unauthorized", "invalid"}},
	{KindRateLimit, []string{"rate limit"}},
}

var advice = map[Kind]Advice{
	KindModelNotFound: {
		Kind:    KindModelNotFound,
		Summary: "No compatible models available",
		Remediation: "Your API key does not have access to a compatible Gemini model. " +
			"Generate a free key at https://aistudio.google.com/app/apikey, update the " +
			"configured api_key, and restart the service.",
	},
	KindAuth: {
		Kind:    KindAuth,
		Summary: "Authentication error",
		Remediation: "The API key is invalid, expired, or not authorized. Generate a new key " +
			"at https://aistudio.google.com/app/apikey, update the configured api_key " +
			"(watch for stray whitespace), and restart the service.",
	},
	KindRateLimit: {
		Kind:    KindRateLimit,
		Summary: "Rate limit exceeded",
		Remediation: "The provider's API rate limit was hit. Wait a few minutes before the next " +
			"analysis, or upgrade the API plan for higher limits.",
	},
	KindGeneric: {
		Kind:    KindGeneric,
		Summary: "Analysis failed",
		Remediation: "Verify the configured api_key, check the network connection, and try a " +
			"different image that clearly shows the artifact. If the problem persists, " +
			"generate a fresh key at https://aistudio.google.com and restart the service.",
	},
}

// Classify picks the troubleshooting branch for a terminal generation error.
// nil errors classify as generic.
func Classify(err error) Advice {
	if err == nil {
		return advice[KindGeneric]
	}

	msg := strings.ToLower(err.Error())
	for _, m := range matchers {
		for _, s := range m.substrings {
			if strings.Contains(msg, s) {
				return advice[m.kind]
			}
		}
	}
	return advice[KindGeneric]
}
