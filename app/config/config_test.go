package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
backend:
  base_url: https://www.ebi.ac.uk/biosamples
`))
	require.NoError(t, err)

	assert.Equal(t, "https://www.ebi.ac.uk/biosamples/", cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 50, cfg.Backend.PageSize)
	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "https://www.ebi.ac.uk/biosamples/samples/", cfg.Server.SamplesURL)
}

func TestParseExplicit(t *testing.T) {
	cfg, err := Parse([]byte(`
backend:
  base_url: http://localhost:8081/biosamples/
  timeout: 5s
  page_size: 10
server:
  listen: 127.0.0.1:9000
  samples_url: https://example.org/s/
log:
  telegram:
    token: "123:abc"
    chat_id: "42"
`))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 10, cfg.Backend.PageSize)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Listen)
	assert.Equal(t, "https://example.org/s/", cfg.Server.SamplesURL)
	assert.Equal(t, "42", cfg.Log.Telegram.ChatID)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing base url", `server: {listen: ":1"}`},
		{"bad base url", `backend: {base_url: "not a url"}`},
		{"page size too large", `backend: {base_url: "http://x/", page_size: 5000}`},
		{"telegram token without chat", `{backend: {base_url: "http://x/"}, log: {telegram: {token: "t"}}}`},
		{"unknown log level", `{backend: {base_url: "http://x/"}, log: {level: "trace"}}`},
		{"broken yaml", "backend: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: {base_url: \"http://localhost/\"}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/", cfg.Backend.BaseURL)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
