package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doeshing/shell-ai/internal/domain"
	"github.com/doeshing/shell-ai/internal/infrastructure/cli/helpers"
)

func TestDescribeError(t *testing.T) {
	authErr := &domain.ProviderError{Kind: domain.AuthError, Provider: domain.ProviderOpenAI, StatusCode: 401}

	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"nil", nil, 0, ""},
		{"cancelled", domain.ErrCancelled, 130, ""},
		{"wrapped context cancel", fmt.Errorf("generate: %w", context.Canceled), 130, ""},
		{"child exit status", &helpers.ExitError{Code: 3}, 3, ""},
		{"all failed prints the cause", &domain.AllFailedError{Errors: []error{authErr}}, 1,
			"error: openai: authentication failed (HTTP 401)"},
		{"config error gets a hint", fmt.Errorf("load config: %w", &domain.MissingRequiredError{Key: "openai.api_key", Provider: domain.ProviderOpenAI}), 1,
			"error: load config: missing required setting openai.api_key for provider openai\nhint: " + configHint},
		{"plain", errors.New("boom"), 1, "error: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, code := describeError(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.message, msg)
		})
	}
}

func TestReportSkipsEmptyMessages(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, 130, Report(&buf, domain.ErrCancelled))
	assert.Empty(t, buf.String())

	assert.Equal(t, 1, Report(&buf, errors.New("boom")))
	assert.Equal(t, "error: boom\n", buf.String())
}
