package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/client"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/config"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
)

// runAuthCmd dispatches `elydora auth <register|login>`.
func runAuthCmd(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		_, _ = fmt.Fprintln(stderr, "Usage: elydora auth <register|login> ...")
		return 2
	}
	switch args[0] {
	case "register":
		return runAuthRegister(args[1:], stdout, stderr)
	case "login":
		return runAuthLogin(args[1:], stdout, stderr)
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown auth subcommand: %s\n", args[0])
		return 2
	}
}

func runAuthRegister(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("auth register", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	var email, password, displayName, orgName, baseURL string
	cmd.StringVar(&email, "email", "", "Account email (REQUIRED)")
	cmd.StringVar(&password, "password", "", "Account password, @file, or - (REQUIRED)")
	cmd.StringVar(&displayName, "display-name", "", "Display name")
	cmd.StringVar(&orgName, "org-name", "", "Organization name to create")
	cmd.StringVar(&baseURL, "base-url", "", "Platform base URL")
	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if email == "" || password == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --email and --password are required")
		return 2
	}
	pw, err := readArgOrFile(password)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	out, err := newClient(baseURL, "").RegisterUser(ctx, &contracts.RegisterUserRequest{
		Email:       email,
		Password:    pw,
		DisplayName: displayName,
		OrgName:     orgName,
	})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(stdout, "Registered %s in organization %s (%s)\n",
		out.User.Email, out.Organization.Name, out.Organization.OrgID)
	_, _ = fmt.Fprintf(stdout, "Token: %s\n", out.Token)
	return 0
}

func runAuthLogin(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("auth login", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	var email, password, baseURL, dir string
	cmd.StringVar(&email, "email", "", "Account email (REQUIRED)")
	cmd.StringVar(&password, "password", "", "Account password, @file, or - (REQUIRED)")
	cmd.StringVar(&baseURL, "base-url", "", "Platform base URL")
	cmd.StringVar(&dir, "dir", "", "Agent directory to store the token in")
	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if email == "" || password == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --email and --password are required")
		return 2
	}
	pw, err := readArgOrFile(password)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	out, err := newClient(baseURL, "").Login(ctx, &contracts.LoginRequest{Email: email, Password: pw})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if dir != "" {
		cfg, err := config.Load(dir)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		cfg.Token = out.Token
		if err := config.Save(dir, cfg); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		_, _ = fmt.Fprintf(stdout, "Logged in as %s; token stored in %s\n", out.User.Email, dir)
		return 0
	}
	_, _ = fmt.Fprintf(stdout, "Token: %s\n", out.Token)
	return 0
}

// runWhoamiCmd shows the identity claims of the stored bearer token without
// verifying it.
func runWhoamiCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("whoami", flag.ContinueOnError)
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
	token := actx.api.Token()
	if token == "" {
		_, _ = fmt.Fprintln(stderr, "No token configured; run `elydora auth login`")
		return 1
	}
	info, err := client.InspectToken(token)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(stdout, "Subject:    %s\n", info.Subject)
	_, _ = fmt.Fprintf(stdout, "Org:        %s\n", info.OrgID)
	_, _ = fmt.Fprintf(stdout, "Email:      %s\n", info.Email)
	_, _ = fmt.Fprintf(stdout, "Agent:      %s\n", actx.cfg.AgentID)
	_, _ = fmt.Fprintf(stdout, "Public key: %s\n", actx.builder.PublicKey())
	if !info.ExpiresAt.IsZero() {
		_, _ = fmt.Fprintf(stdout, "Expires:    %s\n", info.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return 0
}

// runJWKSCmd fetches the platform verification key set.
func runJWKSCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("jwks", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	var baseURL string
	cmd.StringVar(&baseURL, "base-url", "", "Platform base URL")
	if err := cmd.Parse(args); err != nil {
		return 2
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	keys, err := newClient(baseURL, "").JWKS(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return printJSON(stdout, keys)
}
