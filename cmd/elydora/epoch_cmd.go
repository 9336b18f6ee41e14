package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"
)

// runEpochCmd dispatches `elydora epoch <list|get>`.
func runEpochCmd(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		_, _ = fmt.Fprintln(stderr, "Usage: elydora epoch <list|get> ...")
		return 2
	}
	sub := args[0]
	cmd := flag.NewFlagSet("epoch "+sub, flag.ContinueOnError)
	cmd.SetOutput(stderr)
	var dir, agentID, epochID string
	cmd.StringVar(&dir, "dir", "", "Agent directory")
	cmd.StringVar(&agentID, "agent", "", "Agent id")
	if sub == "get" {
		cmd.StringVar(&epochID, "id", "", "Epoch id (REQUIRED)")
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
	case "list":
		epochs, err := actx.api.ListEpochs(ctx)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return printJSON(stdout, epochs)
	case "get":
		if epochID == "" {
			_, _ = fmt.Fprintln(stderr, "Error: --id is required")
			return 2
		}
		epoch, err := actx.api.GetEpoch(ctx, epochID)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return printJSON(stdout, epoch)
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown epoch subcommand: %s\n", sub)
		return 2
	}
}
