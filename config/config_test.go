package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"OPENAI_API_KEY", "LLM_PROVIDER", "LLM_MODEL", "LLM_BASE_URL", "LLM_RATE_PER_MINUTE", "SERVER_ADDR", "AD_STORE", "AD_STORE_DIR"} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfig_JSON(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "llm": {"provider": "deepseek", "model": "deepseek-chat", "api_key": "sk-1", "base_url": "https://api.deepseek.com"},
  "server_addr": ":9000",
  "ad_gate": {"store": "memory"}
}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "deepseek", cfg.LLM.Provider)
	assert.Equal(t, "sk-1", cfg.LLM.APIKey)
	assert.Equal(t, ":9000", cfg.ServerAddr)
	assert.Equal(t, StoreMemory, cfg.AdGate.Store)
}

func TestLoadConfig_YAMLAndEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: openai
  model: gpt-4o
ad_gate:
  store: file
  dir: /tmp/ads
  link_a: https://a.example
`), 0o644))
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("SERVER_ADDR", "127.0.0.1:7000")
	t.Setenv("LLM_RATE_PER_MINUTE", "30")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, "sk-env", cfg.LLM.APIKey)
	assert.Equal(t, 30, cfg.LLM.RatePerMinute)
	assert.Equal(t, "127.0.0.1:7000", cfg.ServerAddr)
	assert.Equal(t, "/tmp/ads", cfg.AdGate.Dir)
	assert.Equal(t, "https://a.example", cfg.AdGate.LinkA)
}

func TestLoadConfig_Invalid(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o644))
	_, err := LoadConfig(bad)
	assert.Error(t, err)

	store := filepath.Join(dir, "store.json")
	require.NoError(t, os.WriteFile(store, []byte(`{"ad_gate":{"store":"redis"}}`), 0o644))
	_, err = LoadConfig(store)
	assert.ErrorContains(t, err, "not supported")

	t.Setenv("LLM_RATE_PER_MINUTE", "fast")
	_, err = LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_EnvAPIKeyOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"llm":{"provider":"openai","model":"gpt-4o","api_key":"sk-file"}}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-file", cfg.LLM.APIKey)

	t.Setenv("OPENAI_API_KEY", "sk-env")
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.LLM.APIKey)
}

func TestValidate_EmptyStoreNeedsDir(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ad_gate":{"store":"","dir":""}}`), 0o644))
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "ad_gate.dir")

	assert.NoError(t, Config{AdGate: AdGateConfig{Store: StoreMemory}}.Validate())
}
