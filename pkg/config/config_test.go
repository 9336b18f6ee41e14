package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := &AgentConfig{
		OrgID:     "org-1",
		AgentID:   "agent-1",
		KID:       "agent-1-key-v1",
		BaseURL:   "https://api.elydora.com",
		AgentName: "ci-agent",
		Token:     "tok",
	}
	require.NoError(t, Save(dir, cfg))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(dir, ConfigFile))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestLoadMissingConfig(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestLoadSeedTrimsEOL(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, PrivateKeyFile), []byte("c2VlZA\r\n"), 0600))

	seed, err := LoadSeed(dir)
	require.NoError(t, err)
	assert.Equal(t, "c2VlZA", seed)
}

func TestProfilesLookup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProfilesFile)
	doc := `default: staging
profiles:
  - name: staging
    base_url: https://staging.elydora.internal
    token: stage-tok
  - name: prod
    base_url: https://api.elydora.com
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))

	profiles, err := LoadProfilesFrom(path)
	require.NoError(t, err)

	p, ok := profiles.Lookup("prod")
	require.True(t, ok)
	assert.Equal(t, "https://api.elydora.com", p.BaseURL)
	assert.Empty(t, p.Token)

	p, ok = profiles.Lookup("")
	require.True(t, ok, "empty name selects the default")
	assert.Equal(t, "staging", p.Name)
	assert.Equal(t, "stage-tok", p.Token)

	_, ok = profiles.Lookup("nope")
	assert.False(t, ok)
}

func TestProfilesMissingFile(t *testing.T) {
	profiles, err := LoadProfilesFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, profiles.Profiles)
	_, ok := profiles.Lookup("")
	assert.False(t, ok)
}

func TestProfilesMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProfilesFile)
	require.NoError(t, os.WriteFile(path, []byte("profiles: [broken"), 0600))

	_, err := LoadProfilesFrom(path)
	assert.Error(t, err)
}
