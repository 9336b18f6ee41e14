// Package config reads and writes the on-disk agent configuration under
// ~/.elydora/<agent_id>/ and the optional multi-environment CLI profiles.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DirName is the root directory under $HOME holding all agent state.
const DirName = ".elydora"

// File names inside an agent directory.
const (
	ConfigFile     = "config.json"
	PrivateKeyFile = "private.key"
	HookFile       = "hook.js"
	GuardFile      = "guard.js"
	JournalFile    = "journal.db"
)

// AgentConfig is the contents of config.json. The private seed lives in its
// own 0600 file, never here.
type AgentConfig struct {
	OrgID     string `json:"org_id"`
	AgentID   string `json:"agent_id"`
	KID       string `json:"kid"`
	BaseURL   string `json:"base_url"`
	AgentName string `json:"agent_name"`
	Token     string `json:"token,omitempty"`
}

// Root returns the ~/.elydora directory.
func Root() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// AgentDir returns the directory holding one agent's artifacts.
func AgentDir(agentID string) (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, agentID), nil
}

// Load reads config.json from an agent directory.
func Load(dir string) (*AgentConfig, error) {
	data, err := os.ReadFile(filepath.Join(dir, ConfigFile))
	if err != nil {
		return nil, fmt.Errorf("read agent config: %w", err)
	}
	var cfg AgentConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse agent config: %w", err)
	}
	return &cfg, nil
}

// Save writes config.json with owner-only permissions.
func Save(dir string, cfg *AgentConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize agent config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("write agent config: %w", err)
	}
	return nil
}

// LoadSeed reads the base64url private seed from an agent directory.
func LoadSeed(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, PrivateKeyFile))
	if err != nil {
		return "", fmt.Errorf("read private key: %w", err)
	}
	return trimEOL(string(data)), nil
}

func trimEOL(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
