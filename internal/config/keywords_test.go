package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKeywords_EmptyPathReturnsDefaults(t *testing.T) {
	kw, err := LoadKeywords("")
	require.NoError(t, err)
	assert.Contains(t, kw.Recruiting, "talent acquisition")
	for _, name := range []string{"Tech", "Finance", "Consulting", "Healthcare"} {
		assert.NotEmpty(t, kw.Industries[name], name)
	}
}

func TestLoadKeywords_FileOverridesSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.yaml")
	content := "recruiting:\n  - \" Headhunter \"\n  - \"\"\nindustries:\n  Finance: [\"Bank\", \"Broker\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	kw, err := LoadKeywords(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"headhunter"}, kw.Recruiting)
	assert.Equal(t, []string{"bank", "broker"}, kw.Industries["Finance"])
	assert.Equal(t, DefaultKeywords().Industries["Tech"], kw.Industries["Tech"])
}

func TestLoadKeywords_Errors(t *testing.T) {
	_, err := LoadKeywords(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=config.LoadKeywords")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("recruiting: [unterminated"), 0o600))
	_, err = LoadKeywords(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}
