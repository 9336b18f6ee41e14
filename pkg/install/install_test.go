package install

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/canonicalize"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/config"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/crypto"
)

func testOptions(dir string) Options {
	seed := make([]byte, crypto.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	return Options{
		OrgID:       "org-1",
		AgentID:     "agent-1",
		AgentName:   "ci-agent",
		KID:         "agent-1-key-v1",
		PrivateSeed: canonicalize.B64uEncode(seed),
		Dir:         dir,
	}
}

func TestInstallWritesArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "agent-1")
	result, err := Install(testOptions(dir))
	require.NoError(t, err)

	assert.Equal(t, dir, result.Dir)
	require.Len(t, result.Files, 4)

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "org-1", cfg.OrgID)
	assert.Equal(t, "agent-1", cfg.AgentID)
	assert.Equal(t, "agent-1-key-v1", cfg.KID)
	assert.Equal(t, "https://api.elydora.com", cfg.BaseURL, "default base URL applies")

	seed, err := config.LoadSeed(dir)
	require.NoError(t, err)
	pub, err := crypto.DerivePublic(seed)
	require.NoError(t, err)
	assert.Equal(t, result.PublicKey, pub)
}

func TestInstallFileModes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX file modes")
	}
	dir := filepath.Join(t.TempDir(), "agent-1")
	_, err := Install(testOptions(dir))
	require.NoError(t, err)

	for file, want := range map[string]os.FileMode{
		config.ConfigFile:     0600,
		config.PrivateKeyFile: 0600,
		config.HookFile:       0755,
		config.GuardFile:      0755,
	} {
		info, err := os.Stat(filepath.Join(dir, file))
		require.NoError(t, err, file)
		assert.Equal(t, want, info.Mode().Perm(), file)
	}
}

func TestInstallScriptsReferenceAgentDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "agent-1")
	_, err := Install(testOptions(dir))
	require.NoError(t, err)

	for _, file := range []string{config.HookFile, config.GuardFile} {
		data, err := os.ReadFile(filepath.Join(dir, file))
		require.NoError(t, err)
		script := string(data)
		assert.True(t, strings.HasPrefix(script, "#!/usr/bin/env node"), file)
		assert.Contains(t, script, dir, "%s must point at the agent dir", file)
		assert.NotContains(t, script, "__AGENT_DIR__", file)
	}

	hook, err := os.ReadFile(filepath.Join(dir, config.HookFile))
	require.NoError(t, err)
	assert.Contains(t, string(hook), "'record'")
	guard, err := os.ReadFile(filepath.Join(dir, config.GuardFile))
	require.NoError(t, err)
	assert.Contains(t, string(guard), "'guard'")
}

func TestInstallRejectsBadSeed(t *testing.T) {
	opts := testOptions(filepath.Join(t.TempDir(), "agent-1"))
	opts.PrivateSeed = "dG9vLXNob3J0"

	_, err := Install(opts)
	require.Error(t, err)
	assert.True(t, contracts.IsCode(err, contracts.CodeValidationError))
}

func TestInstallRequiresIdentity(t *testing.T) {
	opts := testOptions(filepath.Join(t.TempDir(), "agent-1"))
	opts.AgentID = ""
	_, err := Install(opts)
	assert.True(t, contracts.IsCode(err, contracts.CodeValidationError))

	opts = testOptions(filepath.Join(t.TempDir(), "agent-1"))
	opts.OrgID = ""
	_, err = Install(opts)
	assert.True(t, contracts.IsCode(err, contracts.CodeValidationError))

	opts = testOptions(filepath.Join(t.TempDir(), "agent-1"))
	opts.KID = ""
	_, err = Install(opts)
	assert.True(t, contracts.IsCode(err, contracts.CodeValidationError))
}
