package config

import "os"

// providerEnvVars maps an --ai-provider name to the provider-specific
// environment variable checked before the generic fallback, mirroring the
// teacher's KEYSTORM_OPENAI_KEY/KEYSTORM_ANTHROPIC_KEY mapping in
// internal/config/loader/env.go, generalized to the three providers wired
// in internal/ai.
var providerEnvVars = map[string]string{
	"anthropic": "ANTHROPIC_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"gemini":    "GEMINI_API_KEY",
}

// genericAPIKeyVar is consulted when no provider-specific variable is set,
// or when provider is empty.
const genericAPIKeyVar = "MLE_AI_API_KEY"

// ResolveAPIKey returns the AI provider credential to use for provider,
// preferring the provider-specific environment variable and falling back
// to MLE_AI_API_KEY.
func ResolveAPIKey(provider string) string {
	if v, ok := providerEnvVars[provider]; ok {
		if key := os.Getenv(v); key != "" {
			return key
		}
	}
	return os.Getenv(genericAPIKeyVar)
}

// GetEnvOrDefault returns the environment variable's value, or def if it
// is unset or empty.
func GetEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
