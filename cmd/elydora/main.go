// Command elydora is the companion CLI for the Elydora audit platform. It
// installs agent directories, builds and submits signed operation records,
// and queries the platform's read-only surfaces.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

const version = "1.0.0"

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run is the entrypoint for testing.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		printUsage(stderr)
		return 2
	}

	configureLogging(stderr)

	switch args[1] {
	case "init":
		return runInitCmd(args[2:], stdout, stderr)
	case "record":
		return runRecordCmd(args[2:], stdout, stderr)
	case "guard":
		return runGuardCmd(args[2:], stdout, stderr)
	case "agent":
		return runAgentCmd(args[2:], stdout, stderr)
	case "op", "operation":
		return runOpCmd(args[2:], stdout, stderr)
	case "epoch", "epochs":
		return runEpochCmd(args[2:], stdout, stderr)
	case "export", "exports":
		return runExportCmd(args[2:], stdout, stderr)
	case "auth":
		return runAuthCmd(args[2:], stdout, stderr)
	case "whoami":
		return runWhoamiCmd(args[2:], stdout, stderr)
	case "jwks":
		return runJWKSCmd(args[2:], stdout, stderr)
	case "history":
		return runHistoryCmd(args[2:], stdout, stderr)
	case "doctor":
		return runDoctorCmd(args[2:], stdout, stderr)
	case "version", "--version", "-v":
		_, _ = fmt.Fprintf(stdout, "elydora %s\n", version)
		return 0
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n", args[1])
		printUsage(stderr)
		return 2
	}
}

func configureLogging(stderr io.Writer) {
	level := slog.LevelInfo
	if os.Getenv("ELYDORA_DEBUG") == "1" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprint(w, `elydora — tamper-evident audit recording for AI coding agents

Usage:
  elydora init      --org <id> --agent <id> --kid <kid> --seed <b64u|@file>
  elydora record    --dir <agent-dir> --type <op-type> [--payload <json|->]
  elydora guard     --dir <agent-dir>
  elydora agent     <register|get|freeze|revoke> ...
  elydora op        <get|verify|query> ...
  elydora epoch     <list|get> ...
  elydora export    <create|list|get> ...
  elydora auth      <register|login> ...
  elydora whoami    --dir <agent-dir>
  elydora jwks      [--base-url <url>]
  elydora history   --dir <agent-dir> [--limit n]
  elydora doctor    --dir <agent-dir>
  elydora version

Set ELYDORA_DEBUG=1 for retry/backoff diagnostics.
`)
}
