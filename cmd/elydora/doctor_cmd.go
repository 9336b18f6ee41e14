package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/canonicalize"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/config"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/crypto"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/envelope"
)

// runDoctorCmd implements `elydora doctor` — agent directory health check.
//
// Exit codes:
//
//	0 = all checks pass
//	1 = one or more checks failed
func runDoctorCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("doctor", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	var (
		dir     string
		agentID string
		jsonOut bool
		offline bool
	)
	cmd.StringVar(&dir, "dir", "", "Agent directory")
	cmd.StringVar(&agentID, "agent", "", "Agent id")
	cmd.BoolVar(&jsonOut, "json", false, "Output results as JSON")
	cmd.BoolVar(&offline, "offline", false, "Skip the platform reachability check")
	if err := cmd.Parse(args); err != nil {
		return 2
	}

	var results []checkResult
	allOK := true
	fail := func(name, detail string) {
		results = append(results, checkResult{Name: name, Status: "fail", Detail: detail})
		allOK = false
	}
	ok := func(name, detail string) {
		results = append(results, checkResult{Name: name, Status: "ok", Detail: detail})
	}
	warn := func(name, detail string) {
		results = append(results, checkResult{Name: name, Status: "warn", Detail: detail})
	}

	ok("go_runtime", fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH))

	if dir == "" && agentID != "" {
		var err error
		dir, err = config.AgentDir(agentID)
		if err != nil {
			fail("agent_dir", err.Error())
		}
	}
	if dir == "" {
		fail("agent_dir", "either --dir or --agent is required")
		return reportDoctor(stdout, jsonOut, results, allOK)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		fail("config", err.Error())
		return reportDoctor(stdout, jsonOut, results, allOK)
	}
	ok("config", fmt.Sprintf("org=%s agent=%s kid=%s", cfg.OrgID, cfg.AgentID, cfg.KID))

	checkMode(dir, config.ConfigFile, ok, warn)
	checkMode(dir, config.PrivateKeyFile, ok, warn)

	seed, err := config.LoadSeed(dir)
	if err != nil {
		fail("private_key", err.Error())
		return reportDoctor(stdout, jsonOut, results, allOK)
	}
	pub, err := crypto.DerivePublic(seed)
	if err != nil {
		fail("private_key", err.Error())
		return reportDoctor(stdout, jsonOut, results, allOK)
	}
	ok("private_key", "derives public key "+pub)

	for _, script := range []string{config.HookFile, config.GuardFile} {
		info, err := os.Stat(filepath.Join(dir, script))
		switch {
		case err != nil:
			fail(script, err.Error())
		case runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0:
			fail(script, "not executable")
		default:
			ok(script, "present")
		}
	}

	// Dry-run a record against the envelope schema without touching the
	// chain the caller cares about: throwaway builder, same key.
	builder, err := envelope.NewBuilder(envelope.Config{
		OrgID:       cfg.OrgID,
		AgentID:     cfg.AgentID,
		PrivateSeed: seed,
		KID:         cfg.KID,
	})
	if err != nil {
		fail("builder", err.Error())
		return reportDoctor(stdout, jsonOut, results, allOK)
	}
	signed, err := builder.Build(envelope.BuildParams{
		OperationType: "doctor.selftest",
		Subject:       canonicalize.Object(map[string]canonicalize.Value{"check": canonicalize.String("doctor")}),
		Action:        canonicalize.Object(map[string]canonicalize.Value{"kind": canonicalize.String("selftest")}),
	})
	if err != nil {
		fail("selftest_build", err.Error())
	} else if err := envelope.ValidateWire(signed.Canonical); err != nil {
		fail("selftest_schema", err.Error())
	} else {
		ok("selftest_build", "signed record passes envelope schema")
	}

	if offline {
		warn("platform", "skipped (--offline)")
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		keys, err := newClient(cfg.BaseURL, cfg.Token).JWKS(ctx)
		if err != nil {
			fail("platform", err.Error())
		} else {
			ok("platform", fmt.Sprintf("reachable, %d verification keys", len(keys.Keys)))
		}
	}

	return reportDoctor(stdout, jsonOut, results, allOK)
}

func checkMode(dir, name string, ok, warn func(string, string)) {
	if runtime.GOOS == "windows" {
		ok(name+"_mode", "skipped on windows")
		return
	}
	info, err := os.Stat(filepath.Join(dir, name))
	if err != nil {
		warn(name+"_mode", err.Error())
		return
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		warn(name+"_mode", fmt.Sprintf("mode %o is broader than 0600", perm))
		return
	}
	ok(name+"_mode", "0600")
}

// checkResult is one doctor probe outcome.
type checkResult struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "ok", "warn", "fail"
	Detail string `json:"detail,omitempty"`
}

func reportDoctor(stdout io.Writer, jsonOut bool, results []checkResult, allOK bool) int {
	if jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(results)
	} else {
		for _, r := range results {
			_, _ = fmt.Fprintf(stdout, "[%-4s] %-20s %s\n", r.Status, r.Name, r.Detail)
		}
	}
	if allOK {
		return 0
	}
	return 1
}
