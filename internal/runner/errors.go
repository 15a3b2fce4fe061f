package runner

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCommandFailed matches every *CommandError.
var ErrCommandFailed = errors.New("command failed")

// CommandError reports an external command that could not be started or
// exited non-zero.
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	// Cause is set when the process never ran (binary missing, fork failed).
	Cause error
}

func (e *CommandError) Error() string {
	line := e.Name + " " + strings.Join(e.Args, " ")
	if e.Cause != nil {
		return fmt.Sprintf("failed to run: %s: %v", line, e.Cause)
	}
	return line + " -> " + e.Message()
}

// Message is the diagnostic part of the error: stderr, else stdout, else a
// generic marker.
func (e *CommandError) Message() string {
	if s := strings.TrimSpace(e.Stderr); s != "" {
		return s
	}
	if s := strings.TrimSpace(e.Stdout); s != "" {
		return s
	}
	return "command failed"
}

func (e *CommandError) Is(target error) bool { return target == ErrCommandFailed }

func (e *CommandError) Unwrap() error { return e.Cause }
