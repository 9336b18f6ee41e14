package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/config"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/store"
)

// runHistoryCmd implements `elydora history` — list the local journal of
// submitted operations, newest first.
func runHistoryCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("history", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	var (
		dir     string
		agentID string
		limit   int
	)
	cmd.StringVar(&dir, "dir", "", "Agent directory")
	cmd.StringVar(&agentID, "agent", "", "Agent id")
	cmd.IntVar(&limit, "limit", 20, "Maximum entries to show")
	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if dir == "" {
		if agentID == "" {
			_, _ = fmt.Fprintln(stderr, "Error: either --dir or --agent is required")
			return 2
		}
		var err error
		dir, err = config.AgentDir(agentID)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	journal, err := store.Open(ctx, filepath.Join(dir, config.JournalFile))
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	defer func() { _ = journal.Close() }()

	entries, err := journal.List(ctx, limit)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	total, err := journal.Count(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	for _, e := range entries {
		issued := time.UnixMilli(e.IssuedAt).UTC().Format(time.RFC3339)
		_, _ = fmt.Fprintf(stdout, "%s  seq=%-6d %-24s %s\n", issued, e.SeqNo, e.OperationType, e.OperationID)
	}
	_, _ = fmt.Fprintf(stdout, "%d of %d journaled operations\n", len(entries), total)
	return 0
}
