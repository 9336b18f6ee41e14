package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
)

// runGuardCmd implements `elydora guard` — the pre-action freeze/revocation
// check invoked by the generated guard.js.
//
// Exit codes:
//
//	0 = agent active, signing key valid
//	1 = agent frozen or key revoked: the host tool must not proceed
//	2 = usage error or the platform could not be reached
func runGuardCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("guard", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		dir     string
		agentID string
	)
	cmd.StringVar(&dir, "dir", "", "Agent directory")
	cmd.StringVar(&agentID, "agent", "", "Agent id (used when --dir is not given)")

	if err := cmd.Parse(args); err != nil {
		return 2
	}

	actx, err := loadAgentContext(dir, agentID)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	agent, err := actx.api.GetAgent(ctx, actx.cfg.AgentID)
	if err != nil {
		if contracts.IsCode(err, contracts.CodeAgentFrozen) || contracts.IsCode(err, contracts.CodeKeyRevoked) {
			_, _ = fmt.Fprintf(stderr, "BLOCKED: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintf(stderr, "Error: agent lookup failed: %v\n", err)
		return 2
	}

	if agent.Agent.Status != contracts.AgentActive {
		_, _ = fmt.Fprintf(stderr, "BLOCKED: agent %s is %s\n", agent.Agent.AgentID, agent.Agent.Status)
		return 1
	}
	for _, key := range agent.Keys {
		if key.KID == actx.cfg.KID {
			if key.Status == "revoked" {
				_, _ = fmt.Fprintf(stderr, "BLOCKED: signing key %s is revoked\n", key.KID)
				return 1
			}
			_, _ = fmt.Fprintf(stdout, "OK: agent %s active, key %s %s\n",
				agent.Agent.AgentID, key.KID, key.Status)
			return 0
		}
	}
	_, _ = fmt.Fprintf(stderr, "BLOCKED: signing key %s is not registered\n", actx.cfg.KID)
	return 1
}
