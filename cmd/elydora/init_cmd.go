package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/install"
)

// runInitCmd implements `elydora init` — write the agent directory and,
// unless --offline is given, register the agent's public key with the
// platform.
//
// Exit codes:
//
//	0 = agent installed
//	1 = registration failed (directory was still written)
//	2 = usage or install error
func runInitCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("init", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		orgID   string
		agentID string
		name    string
		kid     string
		seedArg string
		baseURL string
		token   string
		profile string
		dir     string
		offline bool
	)
	cmd.StringVar(&orgID, "org", "", "Organization id (REQUIRED)")
	cmd.StringVar(&agentID, "agent", "", "Agent id (REQUIRED)")
	cmd.StringVar(&name, "name", "", "Human-readable agent name")
	cmd.StringVar(&kid, "kid", "", "Signing key id (REQUIRED)")
	cmd.StringVar(&seedArg, "seed", "", "base64url 32-byte Ed25519 seed, @file, or - for stdin (REQUIRED)")
	cmd.StringVar(&baseURL, "base-url", "", "Platform base URL (default production)")
	cmd.StringVar(&token, "token", "", "Bearer token to store in config.json")
	cmd.StringVar(&profile, "profile", "", "Named CLI profile supplying base URL and token")
	cmd.StringVar(&dir, "dir", "", "Override target directory (default ~/.elydora/<agent>)")
	cmd.BoolVar(&offline, "offline", false, "Skip remote agent registration")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if orgID == "" || agentID == "" || kid == "" || seedArg == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --org, --agent, --kid, and --seed are required")
		return 2
	}
	seed, err := readArgOrFile(seedArg)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	baseURL, token, err = resolveProfile(profile, baseURL, token)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	result, err := install.Install(install.Options{
		OrgID:       orgID,
		AgentID:     agentID,
		AgentName:   name,
		KID:         kid,
		BaseURL:     baseURL,
		Token:       token,
		PrivateSeed: seed,
		Dir:         dir,
	})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: install failed: %v\n", err)
		return 2
	}
	_, _ = fmt.Fprintf(stdout, "Agent directory: %s\n", result.Dir)
	_, _ = fmt.Fprintf(stdout, "Public key:      %s\n", result.PublicKey)
	for _, f := range result.Files {
		_, _ = fmt.Fprintf(stdout, "  wrote %s\n", f)
	}

	if offline {
		return 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	api := newClient(baseURL, token)
	agent, err := api.RegisterAgent(ctx, &contracts.RegisterAgentRequest{
		AgentID:   agentID,
		Name:      name,
		KID:       kid,
		PublicKey: result.PublicKey,
		Algorithm: "Ed25519",
	})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: agent registration failed: %v\n", err)
		_, _ = fmt.Fprintln(stderr, "The agent directory was written; re-run with --offline to skip registration.")
		return 1
	}
	_, _ = fmt.Fprintf(stdout, "Registered agent %s (status %s)\n", agent.Agent.AgentID, agent.Agent.Status)
	return 0
}
