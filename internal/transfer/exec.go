// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transfer

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)

	// Output runs the command without a terminal and returns its stdout.
	// Stderr is not captured, so diagnostics never mix with parsed output.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)

	// RunInteractive runs the command attached to the current terminal.
	RunInteractive(ctx context.Context, name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec. Child stderr is
// passed through to stderr.
type osExecutor struct {
	stderr io.Writer
}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = o.stderr
	return cmd.Output()
}

func (o *osExecutor) RunInteractive(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

var defaultExec executor = &osExecutor{stderr: os.Stderr}
