// Package install materializes the on-disk agent directory that host-tool
// installer plugins wire into third-party hook configurations: the agent
// config, the private key file, and the generated hook/guard scripts.
package install

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/config"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/crypto"
)

// Options describe one agent installation.
type Options struct {
	OrgID       string
	AgentID     string
	AgentName   string
	KID         string
	BaseURL     string
	Token       string
	PrivateSeed string // base64url 32-byte Ed25519 seed

	// Dir overrides the default ~/.elydora/<agent_id> location. Tests use
	// this; installers should leave it empty.
	Dir string
}

// Result reports where the artifacts landed.
type Result struct {
	Dir       string
	PublicKey string
	Files     []string
}

// Install validates the seed by deriving its public key, then writes the
// agent directory: config.json and private.key owner-only, hook.js and
// guard.js executable.
func Install(opts Options) (*Result, error) {
	if opts.AgentID == "" {
		return nil, contracts.Validationf("agent_id is required")
	}
	if opts.OrgID == "" {
		return nil, contracts.Validationf("org_id is required")
	}
	if opts.KID == "" {
		return nil, contracts.Validationf("kid is required")
	}
	pub, err := crypto.DerivePublic(opts.PrivateSeed)
	if err != nil {
		return nil, err
	}

	dir := opts.Dir
	if dir == "" {
		dir, err = config.AgentDir(opts.AgentID)
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create agent dir: %w", err)
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = "https://api.elydora.com"
	}
	cfg := &config.AgentConfig{
		OrgID:     opts.OrgID,
		AgentID:   opts.AgentID,
		KID:       opts.KID,
		BaseURL:   baseURL,
		AgentName: opts.AgentName,
		Token:     opts.Token,
	}
	if err := config.Save(dir, cfg); err != nil {
		return nil, err
	}

	keyPath := filepath.Join(dir, config.PrivateKeyFile)
	if err := os.WriteFile(keyPath, []byte(opts.PrivateSeed+"\n"), 0600); err != nil {
		return nil, fmt.Errorf("write private key: %w", err)
	}

	hookPath := filepath.Join(dir, config.HookFile)
	if err := os.WriteFile(hookPath, []byte(renderScript(hookScript, dir)), 0755); err != nil {
		return nil, fmt.Errorf("write hook script: %w", err)
	}
	guardPath := filepath.Join(dir, config.GuardFile)
	if err := os.WriteFile(guardPath, []byte(renderScript(guardScript, dir)), 0755); err != nil {
		return nil, fmt.Errorf("write guard script: %w", err)
	}

	return &Result{
		Dir:       dir,
		PublicKey: pub,
		Files: []string{
			filepath.Join(dir, config.ConfigFile),
			keyPath,
			hookPath,
			guardPath,
		},
	}, nil
}

func renderScript(tpl, agentDir string) string {
	return strings.ReplaceAll(tpl, "__AGENT_DIR__", agentDir)
}
