// Package cargo implements the ports.BuildRunner interface by invoking the
// external cargo build tool with JSON message output and extracting compiler
// diagnostics from it.
package cargo

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"

	"github.com/doublegate/rustopt/internal/ports"
)

// Runner runs `cargo build` in a target directory.
type Runner struct{}

// NewRunner creates a cargo build runner.
func NewRunner() *Runner { return &Runner{} }

// Build runs `cargo build --message-format=json` in dir. A failing build is
// reported through the result, not the error; the error is reserved for not
// being able to run cargo at all (missing binary, unusable directory).
func (r *Runner) Build(ctx context.Context, dir string) (ports.BuildResult, error) {
	if _, err := exec.LookPath("cargo"); err != nil {
		return ports.BuildResult{}, fmt.Errorf("cargo not found in PATH: %w", err)
	}

	cmd := exec.CommandContext(ctx, "cargo", "build", "--message-format=json")
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if runErr == nil {
		return ports.BuildResult{Success: true}, nil
	}
	if _, ok := runErr.(*exec.ExitError); !ok {
		return ports.BuildResult{}, fmt.Errorf("run cargo build: %w", runErr)
	}

	diags := parseDiagnostics(&stdout)
	if len(diags) == 0 {
		// cargo itself failed before emitting compiler messages
		// (e.g. missing Cargo.toml); surface its stderr instead.
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			diags = append(diags, string(msg))
		}
	}
	return ports.BuildResult{Success: false, Diagnostics: diags}, nil
}

// cargoMessage is the subset of cargo's JSON message stream we care about.
type cargoMessage struct {
	Reason  string `json:"reason"`
	Message struct {
		Message string `json:"message"`
		Level   string `json:"level"`
	} `json:"message"`
}

// parseDiagnostics extracts compiler error messages from cargo's
// line-oriented JSON output. Unparseable lines are skipped.
func parseDiagnostics(r io.Reader) []string {
	var diags []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var msg cargoMessage
		if err := json.Unmarshal(sc.Bytes(), &msg); err != nil {
			continue
		}
		if msg.Reason != "compiler-message" {
			continue
		}
		if msg.Message.Level == "error" && msg.Message.Message != "" {
			diags = append(diags, msg.Message.Message)
		}
	}
	return diags
}
