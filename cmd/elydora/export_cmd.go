package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
)

// runExportCmd dispatches `elydora export <create|list|get>`.
func runExportCmd(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		_, _ = fmt.Fprintln(stderr, "Usage: elydora export <create|list|get> ...")
		return 2
	}
	sub := args[0]
	cmd := flag.NewFlagSet("export "+sub, flag.ContinueOnError)
	cmd.SetOutput(stderr)
	var (
		dir, agentID, exportID, opType string
		after, before                  int64
	)
	cmd.StringVar(&dir, "dir", "", "Agent directory")
	cmd.StringVar(&agentID, "agent", "", "Agent id")
	switch sub {
	case "get":
		cmd.StringVar(&exportID, "id", "", "Export id (REQUIRED)")
	case "create":
		cmd.StringVar(&opType, "type", "", "Filter by operation type")
		cmd.Int64Var(&after, "after", 0, "Only operations issued after this Unix ms")
		cmd.Int64Var(&before, "before", 0, "Only operations issued before this Unix ms")
	}
	if err := cmd.Parse(args[1:]); err != nil {
		return 2
	}
	actx, err := loadAgentContext(dir, agentID)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	switch sub {
	case "create":
		export, err := actx.api.CreateExport(ctx, &contracts.AuditFilter{
			AgentID:       actx.cfg.AgentID,
			OperationType: opType,
			IssuedAfter:   after,
			IssuedBefore:  before,
		})
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return printJSON(stdout, export)
	case "list":
		exports, err := actx.api.ListExports(ctx)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return printJSON(stdout, exports)
	case "get":
		if exportID == "" {
			_, _ = fmt.Fprintln(stderr, "Error: --id is required")
			return 2
		}
		status, err := actx.api.GetExport(ctx, exportID)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return printJSON(stdout, status)
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown export subcommand: %s\n", sub)
		return 2
	}
}
