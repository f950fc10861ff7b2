package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	suggestBody = `{"choices":[{"message":{"role":"assistant","content":"{\"command\":\"du -sh *\"}"},"finish_reason":"stop"}]}`
	explainBody = `{"choices":[{"message":{"role":"assistant","content":"{\"synopsis\":\"Show disk usage\",\"segments\":[{\"fragment\":\"du\",\"description\":\"estimate file space usage\",\"citation\":null}]}"},"finish_reason":"stop"}]}`
)

type harness struct {
	stdin   io.Reader
	stdout  bytes.Buffer
	stderr  bytes.Buffer
	environ []string
	dir     string
}

func newHarness(t *testing.T, apiBase string) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{
		stdin: strings.NewReader(""),
		dir:   dir,
		environ: []string{
			"SHAI_CONFIG=" + filepath.Join(dir, "config.toml"),
			"SHAI_API_PROVIDER=openai",
			"OPENAI_API_KEY=sk-test-1234567890",
			"OPENAI_API_BASE=" + apiBase,
		},
	}
}

func (h *harness) run(args ...string) int {
	return Execute(context.Background(), Options{
		Version: "test",
		Args:    args,
		Environ: h.environ,
		Stdin:   h.stdin,
		Stdout:  &h.stdout,
		Stderr:  &h.stderr,
	})
}

func newProviderServer(t *testing.T, body string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestSuggestNoninteractivePrintsTopCommand(t *testing.T) {
	srv, calls := newProviderServer(t, suggestBody)
	h := newHarness(t, srv.URL)

	code := h.run("show", "disk", "usage")

	assert.Equal(t, 0, code, h.stderr.String())
	assert.Equal(t, "du -sh *\n", h.stdout.String())
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestSuggestReadsPromptFromStdin(t *testing.T) {
	srv, _ := newProviderServer(t, suggestBody)
	h := newHarness(t, srv.URL)
	h.stdin = strings.NewReader("show disk\nusage\n")

	code := h.run("suggest", "--output-format", "json")

	require.Equal(t, 0, code, h.stderr.String())
	assert.JSONEq(t, `[{"command":"du -sh *"}]`, h.stdout.String())
}

func TestExplainJSON(t *testing.T) {
	srv, _ := newProviderServer(t, explainBody)
	h := newHarness(t, srv.URL)

	code := h.run("explain", "--output-format", "json", "du -sh *")

	require.Equal(t, 0, code, h.stderr.String())
	var result struct {
		Command  string `json:"command"`
		Synopsis string `json:"synopsis"`
		Segments []struct {
			Fragment string `json:"fragment"`
		} `json:"segments"`
	}
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &result))
	assert.Equal(t, "du -sh *", result.Command)
	assert.Equal(t, "Show disk usage", result.Synopsis)
	require.Len(t, result.Segments, 1)
	assert.Equal(t, "du", result.Segments[0].Fragment)
}

func TestConfigErrorFailsBeforeAnyRequest(t *testing.T) {
	srv, calls := newProviderServer(t, suggestBody)
	h := newHarness(t, srv.URL)

	code := h.run("--frontend", "dialog", "--output-format", "json", "list files")

	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "hint: "+configHint)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestMissingAPIKey(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1")
	h.environ = h.environ[:2]

	code := h.run("list files")

	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "missing required setting openai.api_key for provider openai")
}

func TestMissingProviderNamesTheSetting(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1")
	h.environ = h.environ[:1]

	code := h.run("list files")

	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "missing required setting provider")
	assert.NotContains(t, h.stderr.String(), "for provider")
}

func TestConfigShowReportsProvenance(t *testing.T) {
	h := newHarness(t, "http://localhost:9999")

	code := h.run("config", "--model", "gpt-test")

	require.Equal(t, 0, code, h.stderr.String())
	out := h.stdout.String()
	assert.Contains(t, out, "Config file: (none)")
	assert.Regexp(t, `openai\.api_key\s+\*\*\*\*567890\s+env\s+OPENAI_API_KEY`, out)
	assert.Regexp(t, `model\s+gpt-test\s+cli\s+--model`, out)
	assert.NotContains(t, out, "sk-test")
}

func TestConfigShowTOMLSource(t *testing.T) {
	h := newHarness(t, "http://localhost:9999")
	path := filepath.Join(h.dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[openai]\nmodel = \"gpt-from-file\"\n"), 0o600))

	code := h.run("config", "show", "--format", "json")

	require.Equal(t, 0, code, h.stderr.String())
	var view struct {
		File     string `json:"file"`
		Settings []struct {
			Key    string `json:"key"`
			Value  string `json:"value"`
			Source string `json:"source"`
		} `json:"settings"`
	}
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &view))
	assert.Equal(t, path, view.File)
	found := false
	for _, s := range view.Settings {
		if s.Key == "openai.model" {
			found = true
			assert.Equal(t, "gpt-from-file", s.Value)
			assert.Equal(t, "toml", s.Source)
		}
	}
	assert.True(t, found)
}

func TestConfigSchemaYAML(t *testing.T) {
	h := newHarness(t, "")

	code := h.run("config", "schema", "--format", "yaml")

	require.Equal(t, 0, code, h.stderr.String())
	assert.Contains(t, h.stdout.String(), "key: openai.api_key")
	assert.Contains(t, h.stdout.String(), "- OPENAI_API_KEY")
}

func TestConfigDiff(t *testing.T) {
	h := newHarness(t, "http://localhost:9999")

	require.Equal(t, 0, h.run("config", "diff"))
	out := h.stdout.String()
	assert.Contains(t, out, "openai.api_base")
	assert.Contains(t, out, "http://localhost:9999")
	assert.NotContains(t, out, "sk-test")
	assert.NotContains(t, out, "suggestion_count")
}

func TestConfigInit(t *testing.T) {
	h := newHarness(t, "")
	path := filepath.Join(h.dir, "config.toml")

	require.Equal(t, 0, h.run("config", "init"), h.stderr.String())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[openai]")

	h.stdout.Reset()
	assert.Equal(t, 1, h.run("config", "init"))
	assert.Contains(t, h.stderr.String(), "--force")

	assert.Equal(t, 0, h.run("config", "init", "--force"))
}

func TestConfigInitStdout(t *testing.T) {
	h := newHarness(t, "")

	require.Equal(t, 0, h.run("config", "init", "--stdout"))
	assert.Contains(t, h.stdout.String(), "[openai]")
	_, err := os.Stat(filepath.Join(h.dir, "config.toml"))
	assert.True(t, os.IsNotExist(err))
}

func TestDoctorJSON(t *testing.T) {
	h := newHarness(t, "http://localhost:9999")

	require.Equal(t, 0, h.run("doctor", "--format", "json"), h.stderr.String())
	var report struct {
		Checks []struct {
			Name    string `json:"name"`
			Status  string `json:"status"`
			Details string `json:"details"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &report))
	require.NotEmpty(t, report.Checks)
	assert.Equal(t, "Config file", report.Checks[0].Name)
	for _, c := range report.Checks {
		if c.Name == "Endpoint" {
			assert.Equal(t, "http://localhost:9999/v1/chat/completions", c.Details)
		}
	}
}

func TestDoctorFailsOnMissingKey(t *testing.T) {
	h := newHarness(t, "")
	h.environ = h.environ[:2]

	assert.Equal(t, 1, h.run("doctor"))
	assert.Contains(t, h.stdout.String(), "openai.api_key")
	assert.Contains(t, h.stderr.String(), "doctor found problems")
}
