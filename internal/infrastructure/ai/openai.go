package ai

import (
	"net/http"

	"github.com/doeshing/shell-ai/internal/domain"
)

func openaiAdapter() providerAdapter {
	return providerAdapter{setHeaders: setOpenAIHeaders}
}

func setOpenAIHeaders(req *http.Request, profile domain.ProviderProfile) {
	setBearer(req, profile.APIKey)
	if profile.Organization != "" {
		req.Header.Set("OpenAI-Organization", profile.Organization)
	}
}

func setBearer(req *http.Request, key string) {
	if key != "" {
		req.Header.Set("authorization", "Bearer "+key)
	}
}
