package ai

import (
	"net/http"

	"github.com/doeshing/shell-ai/internal/domain"
)

// Local Ollama needs no key; hosted or proxied instances may expect one.
func ollamaAdapter() providerAdapter {
	return providerAdapter{setHeaders: setOllamaHeaders}
}

func setOllamaHeaders(req *http.Request, profile domain.ProviderProfile) {
	setBearer(req, profile.APIKey)
}
