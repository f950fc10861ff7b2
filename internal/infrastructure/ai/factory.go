package ai

import (
	"fmt"
	"net/http"

	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/pkg/logger"
	"github.com/doeshing/shell-ai/internal/ports"
)

// Factory builds provider adapters. Per-attempt deadlines come from the
// retry policy, so the shared client carries no global timeout.
type Factory struct {
	httpClient *http.Client
	logger     ports.Logger
}

func NewFactory(log ports.Logger) *Factory {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = http.ProxyFromEnvironment
	return NewFactoryWithClient(&http.Client{Transport: transport}, log)
}

// NewFactoryWithClient is used by tests to point adapters at a fake server.
func NewFactoryWithClient(client *http.Client, log ports.Logger) *Factory {
	if log == nil {
		log = logger.NewNop()
	}
	return &Factory{httpClient: client, logger: log}
}

func (f *Factory) ForProfile(profile domain.ProviderProfile) (ports.Provider, error) {
	var adapter providerAdapter
	switch profile.ID {
	case domain.ProviderOpenAI:
		adapter = openaiAdapter()
	case domain.ProviderAzure:
		adapter = azureAdapter()
	case domain.ProviderGroq:
		adapter = groqAdapter()
	case domain.ProviderOllama:
		adapter = ollamaAdapter()
	case domain.ProviderMistral:
		adapter = mistralAdapter()
	default:
		return nil, fmt.Errorf("unsupported provider: %q", profile.ID)
	}
	return newHTTPProvider(profile, f.httpClient, adapter, f.logger), nil
}

var _ ports.ProviderFactory = (*Factory)(nil)
