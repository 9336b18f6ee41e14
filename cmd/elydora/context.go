package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/client"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/config"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/envelope"
)

// agentContext bundles everything a command needs once an agent directory is
// resolved.
type agentContext struct {
	dir     string
	cfg     *config.AgentConfig
	builder *envelope.Builder
	api     *client.Client
}

// loadAgentContext resolves the agent directory (explicit flag or
// ~/.elydora/<agent-id>), loads config and seed, and wires the builder and
// client.
func loadAgentContext(dir, agentID string) (*agentContext, error) {
	if dir == "" {
		if agentID == "" {
			return nil, fmt.Errorf("either --dir or --agent is required")
		}
		var err error
		dir, err = config.AgentDir(agentID)
		if err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	seed, err := config.LoadSeed(dir)
	if err != nil {
		return nil, err
	}
	builder, err := envelope.NewBuilder(envelope.Config{
		OrgID:       cfg.OrgID,
		AgentID:     cfg.AgentID,
		PrivateSeed: seed,
		KID:         cfg.KID,
	})
	if err != nil {
		return nil, err
	}
	return &agentContext{
		dir:     dir,
		cfg:     cfg,
		builder: builder,
		api:     newClient(cfg.BaseURL, cfg.Token),
	}, nil
}

// newClient builds a platform client with env-var overrides applied. The
// core requires no environment; these are CLI conveniences.
func newClient(baseURL, token string) *client.Client {
	if env := os.Getenv("ELYDORA_BASE_URL"); env != "" {
		baseURL = env
	}
	if env := os.Getenv("ELYDORA_TOKEN"); env != "" {
		token = env
	}
	return client.New(baseURL, client.WithToken(token))
}

// resolveProfile applies a named CLI profile on top of flag values.
func resolveProfile(name, baseURL, token string) (string, string, error) {
	if name == "" {
		return baseURL, token, nil
	}
	profiles, err := config.LoadProfiles()
	if err != nil {
		return "", "", err
	}
	p, ok := profiles.Lookup(name)
	if !ok {
		return "", "", fmt.Errorf("profile %q not found", name)
	}
	if baseURL == "" {
		baseURL = p.BaseURL
	}
	if token == "" {
		token = p.Token
	}
	return baseURL, token, nil
}

// readArgOrFile interprets @path as "read the file", "-" as "read stdin",
// and anything else as a literal.
func readArgOrFile(arg string) (string, error) {
	switch {
	case arg == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	case strings.HasPrefix(arg, "@"):
		data, err := os.ReadFile(arg[1:])
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	default:
		return arg, nil
	}
}
