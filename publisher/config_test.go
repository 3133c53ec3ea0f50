package publisher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seo_blog_writer/seo"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_ADDR", "SEOWRITER_DB", "WEBSITE_LINK", "MARKER_SYNTAX",
		"LLM_PROVIDER", "LLM_MODEL", "LLM_API_KEY", "LLM_BASE_URL",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultServerAddr, cfg.ServerAddr)
	assert.Equal(t, DefaultDatabasePath, cfg.DatabasePath)
	assert.Equal(t, seo.DefaultMarkerSyntax, cfg.MarkerSyntax)
	assert.Equal(t, seo.DefaultRules(), cfg.Scoring)
	require.NotNil(t, cfg.LLM)
}

func TestLoadConfig_JSONMergesScoring(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.json", `{
		"server_addr": ":9000",
		"llm": {"provider": "openai", "model": "gpt-4o-mini"},
		"scoring": {"max_title_length": 70}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.ServerAddr)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 70, cfg.Scoring.MaxTitleLength)
	assert.Equal(t, 900, cfg.Scoring.MinWords)
}

func TestLoadConfig_YAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", "server_addr: \":7000\"\nmarker_syntax: \"### %s:\"\nllm:\n  provider: mock\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.ServerAddr)
	assert.Equal(t, "### %s:", cfg.MarkerSyntax)
	assert.Equal(t, "mock", cfg.LLM.Provider)
}

func TestLoadConfig_TOML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.toml", `database_path = "/tmp/posts.db"

[llm]
provider = "gemini"
model = "gemini-2.0-flash"

[scoring]
max_density = 4.0
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/posts.db", cfg.DatabasePath)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 4.0, cfg.Scoring.MaxDensity)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_API_KEY", "secret")
	t.Setenv("LLM_PROVIDER", "deepseek")
	t.Setenv("SEOWRITER_DB", "/var/lib/seo.db")
	path := writeFile(t, "config.json", `{"llm": {"provider": "openai", "api_key": "from-file"}}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.LLM.APIKey)
	assert.Equal(t, "deepseek", cfg.LLM.Provider)
	assert.Equal(t, "/var/lib/seo.db", cfg.DatabasePath)
}

func TestLoadConfig_Errors(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, "bad.json", `{"server_addr":`))
	assert.ErrorContains(t, err, "parse config")

	_, err = LoadConfig(writeFile(t, "syntax.json", `{"marker_syntax": "Name:"}`))
	assert.ErrorContains(t, err, "marker_syntax")

	_, err = LoadConfig(writeFile(t, "density.json", `{"scoring": {"min_density": 5, "max_density": 1}}`))
	assert.ErrorContains(t, err, "min_density")
}

func TestConfig_ValidateForGeneration(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.ValidateForGeneration())

	cfg.LLM.Provider = "openai"
	assert.ErrorContains(t, cfg.ValidateForGeneration(), "api key")

	cfg.LLM.APIKey = "k"
	assert.NoError(t, cfg.ValidateForGeneration())

	mock := DefaultConfig()
	mock.LLM.Provider = "mock"
	assert.NoError(t, mock.ValidateForGeneration())
}
