// Package switcher stops the running waydroid session, points waydroid.cfg
// at another image profile and starts the session again.
package switcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/gurisko/waydroid-switch/internal/registry"
	"github.com/gurisko/waydroid-switch/internal/runner"
)

// ConfigWriter rewrites the active images path.
type ConfigWriter interface {
	WriteActivePath(ctx context.Context, path string) error
}

// Config wires an Orchestrator to its collaborators.
type Config struct {
	Runner runner.Runner
	Config ConfigWriter
	// Env is consulted for the session bus repair. Defaults to ProcessEnv.
	Env Environment
	// SessionEnv holds extra variables for the session start command.
	SessionEnv map[string]string
	// Privilege prefixes the stop commands, e.g. "sudo".
	Privilege string
	// Waydroid is the waydroid executable, "waydroid" by default.
	Waydroid string
	Logger   *slog.Logger
	// Observer, if set, is told about every state transition.
	Observer func(State)
}

// Orchestrator runs switch attempts one at a time.
type Orchestrator struct {
	cfg Config
	mu  sync.Mutex
}

// StepResult records the outcome of one executed step.
type StepResult struct {
	State  State
	Policy Policy
	Err    error
}

// Report describes a finished attempt.
type Report struct {
	ID       string
	Location string
	Steps    []StepResult
	Final    State
}

// Warnings returns the tolerated failures of best-effort steps.
func (r *Report) Warnings() []error {
	var out []error
	for _, s := range r.Steps {
		if s.Policy == BestEffort && s.Err != nil {
			out = append(out, s.Err)
		}
	}
	return out
}

type attempt struct {
	location string
	overlay  MapEnv
	logger   *slog.Logger
}

func New(cfg Config) *Orchestrator {
	if cfg.Env == nil {
		cfg.Env = ProcessEnv{}
	}
	if cfg.Waydroid == "" {
		cfg.Waydroid = "waydroid"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Orchestrator{cfg: cfg}
}

// Switch makes location the active profile and restarts the session.
//
// The stop steps never fail the switch. A failed config rewrite stops before
// anything is started. A failed session start leaves the config pointing at
// location; nothing is rolled back.
func (o *Orchestrator) Switch(ctx context.Context, location string) (*Report, error) {
	if !o.mu.TryLock() {
		return nil, ErrSwitchInProgress
	}
	defer o.mu.Unlock()

	abs, err := filepath.Abs(location)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", location, err)
	}
	if !registry.IsProfileDir(abs) {
		return nil, &MissingImagesError{Location: abs}
	}

	report := &Report{ID: NewAttemptID(), Location: abs, Final: StateIdle}
	a := &attempt{
		location: abs,
		logger:   o.cfg.Logger.With("attempt", report.ID),
	}
	a.logger.Info("switching profile", "location", abs)

	for _, step := range o.Steps() {
		o.transition(step.State)
		err := step.Run(ctx, a)
		report.Steps = append(report.Steps, StepResult{State: step.State, Policy: step.Policy, Err: err})
		if err == nil {
			continue
		}
		if step.Policy == BestEffort {
			a.logger.Warn("step failed, continuing", "step", step.State.String(), "error", err)
			continue
		}
		a.logger.Error("switch aborted", "step", step.State.String(), "error", err)
		report.Final = StateFailed
		o.transition(StateFailed)
		return report, err
	}

	report.Final = StateSucceeded
	o.transition(StateSucceeded)
	a.logger.Info("switch complete", "location", abs)
	return report, nil
}

func (o *Orchestrator) transition(s State) {
	if o.cfg.Observer != nil {
		o.cfg.Observer(s)
	}
}

func (o *Orchestrator) waydroid(args ...string) runner.Command {
	return runner.Command{Name: o.cfg.Waydroid, Args: args}
}

func (o *Orchestrator) stopSession(ctx context.Context, _ *attempt) error {
	return o.cfg.Runner.Run(ctx, runner.Elevate(o.cfg.Privilege, o.waydroid("session", "stop")))
}

func (o *Orchestrator) stopContainer(ctx context.Context, _ *attempt) error {
	return o.cfg.Runner.Run(ctx, runner.Elevate(o.cfg.Privilege, o.waydroid("container", "stop")))
}

func (o *Orchestrator) rewriteConfig(ctx context.Context, a *attempt) error {
	return o.cfg.Config.WriteActivePath(ctx, a.location)
}

func (o *Orchestrator) repairEnv(_ context.Context, a *attempt) error {
	a.overlay = SessionOverlay(o.cfg.Env, o.cfg.SessionEnv)
	if v, ok := a.overlay[BusAddressVar]; ok {
		a.logger.Debug("session bus address synthesized", "address", v)
	}
	return nil
}

// startSession runs unprivileged: the session belongs to the desktop user.
func (o *Orchestrator) startSession(ctx context.Context, a *attempt) error {
	cmd := o.waydroid("session", "start")
	cmd.Env = a.overlay.Entries()
	return o.cfg.Runner.Run(ctx, cmd)
}
