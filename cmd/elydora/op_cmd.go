package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
)

// runOpCmd dispatches `elydora op <get|verify|query>`.
func runOpCmd(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		_, _ = fmt.Fprintln(stderr, "Usage: elydora op <get|verify|query> ...")
		return 2
	}
	switch args[0] {
	case "get":
		return runOpGet(args[1:], stdout, stderr)
	case "verify":
		return runOpVerify(args[1:], stdout, stderr)
	case "query":
		return runOpQuery(args[1:], stdout, stderr)
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown op subcommand: %s\n", args[0])
		return 2
	}
}

func runOpGet(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("op get", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	var dir, agentID, opID string
	cmd.StringVar(&dir, "dir", "", "Agent directory")
	cmd.StringVar(&agentID, "agent", "", "Agent id")
	cmd.StringVar(&opID, "id", "", "Operation id (REQUIRED)")
	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if opID == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --id is required")
		return 2
	}
	actx, err := loadAgentContext(dir, agentID)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	out, err := actx.api.GetOperation(ctx, opID)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return printJSON(stdout, out)
}

func runOpVerify(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("op verify", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	var dir, agentID, opID string
	cmd.StringVar(&dir, "dir", "", "Agent directory")
	cmd.StringVar(&agentID, "agent", "", "Agent id")
	cmd.StringVar(&opID, "id", "", "Operation id (REQUIRED)")
	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if opID == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --id is required")
		return 2
	}
	actx, err := loadAgentContext(dir, agentID)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	out, err := actx.api.VerifyOperation(ctx, opID)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if printJSON(stdout, out) != 0 {
		return 1
	}
	if !out.SignatureValid || !out.PayloadValid || !out.ChainValid {
		return 1
	}
	return 0
}

func runOpQuery(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("op query", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	var (
		dir, agentID, opType, cursor string
		after, before                int64
		limit                        int
	)
	cmd.StringVar(&dir, "dir", "", "Agent directory")
	cmd.StringVar(&agentID, "agent", "", "Agent id")
	cmd.StringVar(&opType, "type", "", "Filter by operation type")
	cmd.Int64Var(&after, "after", 0, "Only operations issued after this Unix ms")
	cmd.Int64Var(&before, "before", 0, "Only operations issued before this Unix ms")
	cmd.IntVar(&limit, "limit", 50, "Page size")
	cmd.StringVar(&cursor, "cursor", "", "Continuation cursor from a previous page")
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
	out, err := actx.api.QueryAudit(ctx, &contracts.AuditFilter{
		AgentID:       actx.cfg.AgentID,
		OperationType: opType,
		IssuedAfter:   after,
		IssuedBefore:  before,
		Limit:         limit,
		Cursor:        cursor,
	})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return printJSON(stdout, out)
}
