// Package runner is the boundary to the external programs a switch drives
// (waydroid, sudo, tee). Output is captured, never streamed, so failures can
// be reported as a single line.
package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
)

// Command is one external program invocation.
type Command struct {
	Name string
	Args []string
	// Env entries ("KEY=VALUE") added on top of the current process
	// environment. The process environment itself is left untouched.
	Env   []string
	Stdin io.Reader
}

// Runner executes commands and blocks until they exit.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// Elevate wraps cmd with a privilege helper such as sudo. An empty helper
// returns cmd unchanged.
func Elevate(helper string, cmd Command) Command {
	if helper == "" {
		return cmd
	}
	args := make([]string, 0, len(cmd.Args)+1)
	args = append(args, cmd.Name)
	args = append(args, cmd.Args...)
	return Command{Name: helper, Args: args, Env: cmd.Env, Stdin: cmd.Stdin}
}

// ExecRunner is a concrete implementation of Runner using os/exec.
type ExecRunner struct {
	Logger *slog.Logger
}

func (r ExecRunner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r ExecRunner) Run(ctx context.Context, c Command) error {
	r.logger().Debug("exec", "cmd", c.Name, "args", c.Args)

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.Stdin = c.Stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return &CommandError{Name: c.Name, Args: c.Args, Cause: err}
	}
	return &CommandError{
		Name:     c.Name,
		Args:     c.Args,
		ExitCode: exitErr.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
}
