package ai

import (
	"net/http"
	"strings"

	"github.com/doeshing/shell-ai/internal/domain"
)

// structuredOutputSince is the first Azure OpenAI API version accepting
// response_format json_schema.
const structuredOutputSince = "2024-08-01-preview"

func azureAdapter() providerAdapter {
	return providerAdapter{
		setHeaders:       setAzureHeaders,
		structuredOutput: azureSupportsStructuredOutput,
	}
}

func setAzureHeaders(req *http.Request, profile domain.ProviderProfile) {
	if profile.APIKey != "" {
		req.Header.Set("api-key", profile.APIKey)
	}
}

func azureSupportsStructuredOutput(profile domain.ProviderProfile) bool {
	return compareAPIVersions(profile.APIVersion, structuredOutputSince) >= 0
}

// compareAPIVersions orders Azure versions of the form YYYY-MM-DD with an
// optional -preview suffix. A GA release sorts after its own preview.
func compareAPIVersions(a, b string) int {
	dateA, previewA := splitAPIVersion(a)
	dateB, previewB := splitAPIVersion(b)
	if c := strings.Compare(dateA, dateB); c != 0 {
		return c
	}
	switch {
	case previewA == previewB:
		return 0
	case previewA:
		return -1
	default:
		return 1
	}
}

func splitAPIVersion(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if len(v) > 10 {
		return v[:10], true
	}
	return v, false
}
