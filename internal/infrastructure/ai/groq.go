package ai

import (
	"net/http"

	"github.com/doeshing/shell-ai/internal/domain"
)

// Groq and Mistral speak the OpenAI dialect with bearer auth.
func groqAdapter() providerAdapter {
	return providerAdapter{setHeaders: setBearerHeaders}
}

func mistralAdapter() providerAdapter {
	return providerAdapter{setHeaders: setBearerHeaders}
}

func setBearerHeaders(req *http.Request, profile domain.ProviderProfile) {
	setBearer(req, profile.APIKey)
}
