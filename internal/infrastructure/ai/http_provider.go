package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/ports"
)

const maxResponseBytes = 8 << 20

// httpProvider is the shared chat-completions client. Backends differ only
// in the adapter: endpoint, headers and structured output support.
type httpProvider struct {
	profile    domain.ProviderProfile
	httpClient *http.Client
	adapter    providerAdapter
	logger     ports.Logger
}

type providerAdapter struct {
	setHeaders       func(*http.Request, domain.ProviderProfile)
	structuredOutput func(domain.ProviderProfile) bool
}

func newHTTPProvider(profile domain.ProviderProfile, client *http.Client, adapter providerAdapter, logger ports.Logger) ports.Provider {
	return &httpProvider{
		profile:    profile,
		httpClient: client,
		adapter:    adapter,
		logger:     logger,
	}
}

func (p *httpProvider) Name() domain.ProviderID {
	return p.profile.ID
}

func (p *httpProvider) Profile() domain.ProviderProfile {
	return p.profile
}

func (p *httpProvider) SupportsStructuredOutput() bool {
	if p.adapter.structuredOutput == nil {
		return true
	}
	return p.adapter.structuredOutput(p.profile)
}

func (p *httpProvider) Complete(ctx context.Context, req domain.CompletionRequest) (domain.RawCompletion, error) {
	payload := buildChatCompletion(p.profile, req, p.SupportsStructuredOutput())
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.RawCompletion{}, err
	}

	endpoint := p.profile.Endpoint()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.RawCompletion{}, &domain.ProviderError{
			Kind:     domain.RequestRejected,
			Provider: p.profile.ID,
			Message:  fmt.Sprintf("invalid endpoint %q", endpoint),
			Err:      err,
		}
	}
	httpReq.Header.Set("content-type", "application/json")
	p.adapter.setHeaders(httpReq, p.profile)

	p.logger.Debug("provider request", map[string]interface{}{
		"provider": p.profile.ID,
		"endpoint": endpoint,
		"model":    p.profile.Model,
		"api_key":  domain.MaskSecret(p.profile.APIKey),
		"schema":   req.Schema.Name,
	})
	p.logger.Trace("provider request body", map[string]interface{}{"body": string(body)})

	start := time.Now()
	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return domain.RawCompletion{}, err
		}
		return domain.RawCompletion{}, &domain.ProviderError{
			Kind:     domain.NetworkError,
			Provider: p.profile.ID,
			Err:      err,
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.RawCompletion{}, &domain.ProviderError{
			Kind:       domain.NetworkError,
			Provider:   p.profile.ID,
			StatusCode: resp.StatusCode,
			Message:    "failed to read response body",
			Err:        err,
		}
	}

	p.logger.Debug("provider response", map[string]interface{}{
		"provider": p.profile.ID,
		"status":   resp.StatusCode,
		"elapsed":  time.Since(start).Round(time.Millisecond).String(),
	})
	p.logger.Trace("provider response body", map[string]interface{}{"body": string(raw)})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.RawCompletion{}, classifyStatus(p.profile.ID, resp, raw)
	}
	return parseChatCompletion(p.profile.ID, raw)
}

// classifyStatus maps a non-2xx response onto a ProviderError kind.
func classifyStatus(provider domain.ProviderID, resp *http.Response, body []byte) *domain.ProviderError {
	pe := &domain.ProviderError{
		Provider:   provider,
		StatusCode: resp.StatusCode,
		Message:    statusDescription(resp.StatusCode),
	}
	if detail := apiErrorMessage(body); detail != "" {
		pe.Message += ": " + detail
	}

	switch code := resp.StatusCode; {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		pe.Kind = domain.AuthError
		pe.Hint = "check the " + strings.ToUpper(string(provider)) + "_API_KEY setting"
	case code == http.StatusTooManyRequests:
		pe.Kind = domain.RateLimited
		pe.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
	case code >= 500:
		pe.Kind = domain.ServerError
	default:
		pe.Kind = domain.RequestRejected
	}
	return pe
}

func statusDescription(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return "Unauthorized - check your API key"
	case status == http.StatusForbidden:
		return "Forbidden - check your API key permissions"
	case status == http.StatusNotFound:
		return "Not found - check the API endpoint URL"
	case status == http.StatusRequestEntityTooLarge:
		return "Request too large"
	case status == http.StatusTooManyRequests:
		return "Rate limited - too many requests"
	case status >= 500 && status <= 599:
		return "Server error - the API is having issues"
	default:
		return "HTTP error"
	}
}

func apiErrorMessage(body []byte) string {
	var decoded struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil || len(decoded.Error) == 0 {
		return ""
	}
	var structured apiError
	if err := json.Unmarshal(decoded.Error, &structured); err == nil && structured.Message != "" {
		return structured.Message
	}
	var plain string
	if err := json.Unmarshal(decoded.Error, &plain); err == nil {
		return plain
	}
	return ""
}

// parseRetryAfter accepts both delta-seconds and HTTP-date forms.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
