package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	cfg := map[string]string{
		"PORT":    "9090",
		"BAD_INT": "nine",
		"DEBUG":   "true",
		"ORIGINS": " https://a.dev, ,https://b.dev ",
		"EMPTY":   "",
	}

	assert.Equal(t, 9090, GetInt(cfg, "PORT", 8080))
	assert.Equal(t, 8080, GetInt(cfg, "BAD_INT", 8080))
	assert.True(t, GetBool(cfg, "DEBUG", false))
	assert.False(t, GetBool(cfg, "MISSING", false))
	assert.Equal(t, []string{"https://a.dev", "https://b.dev"}, GetList(cfg, "ORIGINS"))
	assert.Equal(t, "fallback", GetString(cfg, "EMPTY", "fallback"))
	assert.Equal(t, "fallback", GetString(nil, "PORT", "fallback"))
}

func TestLoadSite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	content := `
name: Ana Dev
base_url: https://ana.dev
description: Desarrolladora backend
author:
  name: Ana
  job_title: Backend Engineer
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	site, err := LoadSite(path, map[string]string{"SITE_NAME": "Ana Portfolio"})
	require.NoError(t, err)

	assert.Equal(t, "Ana Portfolio", site.Name)
	assert.Equal(t, "https://ana.dev", site.BaseURL)
	assert.Equal(t, "Backend Engineer", site.Author.JobTitle)
	assert.Equal(t, "es_ES", site.Locale)
}

func TestLoadSiteMissingFileUsesDefaults(t *testing.T) {
	site, err := LoadSite(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, "Portfolio", site.Name)
}
