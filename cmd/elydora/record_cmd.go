package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/canonicalize"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/config"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/envelope"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/store"
)

// runRecordCmd implements `elydora record` — build, sign, submit, and
// journal one operation record.
//
// Exit codes:
//
//	0 = receipt received
//	1 = submission rejected or failed (the chain still advanced locally)
//	2 = usage or build error
func runRecordCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("record", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		dir        string
		agentID    string
		opType     string
		subjectArg string
		actionArg  string
		payloadArg string
		dryRun     bool
		noJournal  bool
		jsonOut    bool
	)
	cmd.StringVar(&dir, "dir", "", "Agent directory")
	cmd.StringVar(&agentID, "agent", "", "Agent id (used when --dir is not given)")
	cmd.StringVar(&opType, "type", "", "Operation type (REQUIRED)")
	cmd.StringVar(&subjectArg, "subject", "{}", "Subject mapping as JSON, @file, or -")
	cmd.StringVar(&actionArg, "action", "{}", "Action mapping as JSON, @file, or -")
	cmd.StringVar(&payloadArg, "payload", "", "Payload as JSON, @file, or -; empty records null")
	cmd.BoolVar(&dryRun, "dry-run", false, "Build and sign without submitting")
	cmd.BoolVar(&noJournal, "no-journal", false, "Skip the local journal write")
	cmd.BoolVar(&jsonOut, "json", false, "Print the receipt as JSON")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if opType == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --type is required")
		return 2
	}

	actx, err := loadAgentContext(dir, agentID)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	subject, err := parseValueArg(subjectArg, "subject")
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	action, err := parseValueArg(actionArg, "action")
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	payload := canonicalize.Null()
	if payloadArg != "" {
		payload, err = parseValueArg(payloadArg, "payload")
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
	}

	signed, err := actx.builder.Build(envelope.BuildParams{
		OperationType: opType,
		Subject:       subject,
		Action:        action,
		Payload:       payload,
	})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: build failed: %v\n", err)
		return 2
	}

	if dryRun {
		_, _ = fmt.Fprintf(stdout, "%s\n", signed.Canonical)
		return 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	receipt, err := actx.api.SubmitOperation(ctx, signed.Canonical)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: submission failed: %v\n", err)
		return 1
	}

	if !noJournal {
		journalPath := filepath.Join(actx.dir, config.JournalFile)
		if err := journalRecord(ctx, journalPath, signed, receipt); err != nil {
			slog.Warn("journal write failed", "path", journalPath, "error", err)
		}
	}

	if jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(receipt)
		return 0
	}
	_, _ = fmt.Fprintf(stdout, "Operation %s accepted: seq_no=%d receipt=%s\n",
		receipt.OperationID, receipt.SeqNo, receipt.ReceiptID)
	return 0
}

func parseValueArg(arg, field string) (canonicalize.Value, error) {
	text, err := readArgOrFile(arg)
	if err != nil {
		return canonicalize.Value{}, err
	}
	v, err := canonicalize.FromJSON([]byte(text))
	if err != nil {
		return canonicalize.Value{}, fmt.Errorf("invalid %s: %w", field, err)
	}
	return v, nil
}

func journalRecord(ctx context.Context, path string, signed *envelope.SignedOperation, receipt *contracts.Receipt) error {
	journal, err := store.Open(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = journal.Close() }()
	return journal.Record(ctx, &signed.Record, signed.ChainHash, signed.Canonical, receipt)
}
