package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, ":8080", cfg.HTTP.Address)
	require.Equal(t, "devotional-content", cfg.Storage.Bucket)
	require.Equal(t, "billy-graham/pages.json", cfg.Devotion.ObjectPath)
	require.Equal(t, 24*time.Hour, cfg.Devotion.CacheTTL)
	require.Contains(t, cfg.HTTP.Retry.Exclude, "/api/v1/versechat")
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty address", func(c *Config) { c.HTTP.Address = "" }},
		{"empty model", func(c *Config) { c.LLM.Model = " " }},
		{"empty embedding model", func(c *Config) { c.LLM.EmbeddingModel = "" }},
		{"empty bucket", func(c *Config) { c.Storage.Bucket = "" }},
		{"empty object path", func(c *Config) { c.Devotion.ObjectPath = "" }},
		{"negative devotion ttl", func(c *Config) { c.Devotion.CacheTTL = -time.Minute }},
		{"empty prompt", func(c *Config) { c.VerseChat.Prompt = "" }},
		{"negative threshold", func(c *Config) { c.VerseChat.SimilarityThreshold = -1 }},
		{"valkey enabled without addr", func(c *Config) { c.Valkey.Enabled = true; c.Valkey.Addr = "" }},
		{"rate limit without rpm", func(c *Config) { c.HTTP.RateLimit.RequestsPerMinute = 0 }},
		{"retry without backoff", func(c *Config) { c.HTTP.Retry.BaseBackoff = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestLoadAppliesFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.yaml"
	payload := []byte("http:\n  address: \":9090\"\nvalkey:\n  enabled: true\n  addr: \"localhost:6379\"\n")
	require.NoError(t, os.WriteFile(path, payload, 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("LLM_MODEL", "gpt-override")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DEVOTION_CACHE_TTL", "90m")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.True(t, cfg.Valkey.Enabled)
	require.Equal(t, "localhost:6379", cfg.Valkey.Addr)
	require.Equal(t, "gpt-override", cfg.LLM.Model)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	require.Equal(t, 90*time.Minute, cfg.Devotion.CacheTTL)
}

func TestSplitAndTrim(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, splitAndTrim(" a , b ,, "))
}
