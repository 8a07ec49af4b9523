package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"

	"github.com/slok/renderci/internal/log"
	"github.com/slok/renderci/internal/model"
)

// DefaultEnv are the variables forced on the renderer process to get verbose diagnostics.
var DefaultEnv = map[string]string{
	"RUST_BACKTRACE": "1",
	"RUST_LOG":       "info",
}

// Runner knows how to run external executables.
type Runner interface {
	// Check verifies the executable exists before any run.
	Check(ctx context.Context, executable string) error
	// Run executes args[0] with the rest of args, writing stdout and stderr to out.
	Run(ctx context.Context, args []string, out io.Writer) error
}

// ExecRunnerConfig is the configuration of the os/exec based runner.
type ExecRunnerConfig struct {
	// Env is set on top of the inherited environment, these values win.
	Env    map[string]string
	Logger log.Logger
}

func (c *ExecRunnerConfig) defaults() error {
	if c.Env == nil {
		c.Env = DefaultEnv
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "process.ExecRunner"})
	return nil
}

// ExecRunner runs processes on the host.
type ExecRunner struct {
	env    []string
	logger log.Logger
}

// NewExecRunner returns a new os/exec based runner.
func NewExecRunner(cfg ExecRunnerConfig) (*ExecRunner, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &ExecRunner{
		env:    envList(cfg.Env),
		logger: cfg.Logger,
	}, nil
}

// Check resolves the executable like Run does: names without a path separator
// are looked up in PATH only, never in the working directory.
func (e *ExecRunner) Check(_ context.Context, executable string) error {
	path, err := exec.LookPath(executable)
	if err != nil {
		return fmt.Errorf("%q: %w: %w", executable, model.ErrMissingExecutable, err)
	}

	if path != executable {
		e.logger.Debugf("Executable %q resolved to %q", executable, path)
	}

	return nil
}

func (e *ExecRunner) Run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command: %w", model.ErrNotValid)
	}

	e.logger.WithCtxValues(ctx).Debugf("Executing: %v", args)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = out
	cmd.Stderr = out

	// os.Environ() first, forced values on top.
	// In Go's exec.Cmd, when duplicate keys exist, the last one wins.
	cmd.Env = append(append([]string{}, os.Environ()...), e.env...)

	err := cmd.Run()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return &model.ProcessError{Executable: args[0], ExitCode: exitErr.ExitCode()}
		}
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, exec.ErrDot) || errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%q: %w", args[0], model.ErrMissingExecutable)
		}
		return fmt.Errorf("could not execute %q: %w", args[0], err)
	}

	return nil
}

func envList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	l := make([]string, 0, len(env))
	for _, k := range keys {
		l = append(l, k+"="+env[k])
	}
	return l
}
