package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
)

// runAgentCmd dispatches `elydora agent <register|get|freeze|revoke>`.
func runAgentCmd(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		_, _ = fmt.Fprintln(stderr, "Usage: elydora agent <register|get|freeze|revoke> ...")
		return 2
	}
	switch args[0] {
	case "register":
		return runAgentRegister(args[1:], stdout, stderr)
	case "get":
		return runAgentGet(args[1:], stdout, stderr)
	case "freeze":
		return runAgentFreeze(args[1:], stdout, stderr)
	case "revoke":
		return runAgentRevoke(args[1:], stdout, stderr)
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown agent subcommand: %s\n", args[0])
		return 2
	}
}

func runAgentRegister(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("agent register", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	var (
		agentID   string
		name      string
		kid       string
		publicKey string
		baseURL   string
		token     string
		profile   string
	)
	cmd.StringVar(&agentID, "agent", "", "Agent id (REQUIRED)")
	cmd.StringVar(&name, "name", "", "Agent name")
	cmd.StringVar(&kid, "kid", "", "Key id (REQUIRED)")
	cmd.StringVar(&publicKey, "public-key", "", "base64url Ed25519 public key (REQUIRED)")
	cmd.StringVar(&baseURL, "base-url", "", "Platform base URL")
	cmd.StringVar(&token, "token", "", "Bearer token")
	cmd.StringVar(&profile, "profile", "", "Named CLI profile")
	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if agentID == "" || kid == "" || publicKey == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --agent, --kid, and --public-key are required")
		return 2
	}
	baseURL, token, err := resolveProfile(profile, baseURL, token)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	out, err := newClient(baseURL, token).RegisterAgent(ctx, &contracts.RegisterAgentRequest{
		AgentID:   agentID,
		Name:      name,
		KID:       kid,
		PublicKey: publicKey,
		Algorithm: "Ed25519",
	})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return printJSON(stdout, out)
}

func runAgentGet(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("agent get", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	var dir, agentID string
	cmd.StringVar(&dir, "dir", "", "Agent directory")
	cmd.StringVar(&agentID, "agent", "", "Agent id")
	if err := cmd.Parse(args); err != nil {
		return 2
	}
	actx, err := loadAgentContext(dir, agentID)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	out, err := actx.api.GetAgent(ctx, actx.cfg.AgentID)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return printJSON(stdout, out)
}

func runAgentFreeze(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("agent freeze", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	var dir, agentID, reason string
	cmd.StringVar(&dir, "dir", "", "Agent directory")
	cmd.StringVar(&agentID, "agent", "", "Agent id")
	cmd.StringVar(&reason, "reason", "", "Freeze reason (REQUIRED)")
	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if reason == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --reason is required")
		return 2
	}
	actx, err := loadAgentContext(dir, agentID)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := actx.api.FreezeAgent(ctx, actx.cfg.AgentID, reason); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(stdout, "Agent %s frozen\n", actx.cfg.AgentID)
	return 0
}

func runAgentRevoke(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("agent revoke", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	var dir, agentID, kid, reason string
	cmd.StringVar(&dir, "dir", "", "Agent directory")
	cmd.StringVar(&agentID, "agent", "", "Agent id")
	cmd.StringVar(&kid, "kid", "", "Key id to revoke (defaults to the configured key)")
	cmd.StringVar(&reason, "reason", "", "Revocation reason (REQUIRED)")
	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if reason == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --reason is required")
		return 2
	}
	actx, err := loadAgentContext(dir, agentID)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if kid == "" {
		kid = actx.cfg.KID
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := actx.api.RevokeAgentKey(ctx, actx.cfg.AgentID, kid, reason); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(stdout, "Key %s revoked for agent %s\n", kid, actx.cfg.AgentID)
	return 0
}

func printJSON(w io.Writer, v any) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return 1
	}
	return 0
}
