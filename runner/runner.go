// Package runner runs external programs on behalf of the translation
// session. Commands are argument vectors handed straight to the operating
// system, never re-parsed by a shell, so user text cannot escape its
// argument.
package runner

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os/exec"

	"github.com/kballard/go-shellquote"
)

// ExitNotFound is the exit status reported when the program could not be
// started because it does not exist, matching the shell convention.
const ExitNotFound = 127

// Command is a program and its arguments.
type Command struct {
	Program string
	Args    []string
}

// Argv returns the full argument vector.
func (c Command) Argv() []string {
	return append([]string{c.Program}, c.Args...)
}

// String renders the command as a shell-quoted line, for logs and display.
func (c Command) String() string {
	return shellquote.Join(c.Argv()...)
}

// Result is the outcome of a captured run.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Err is set when the process could not be run at all. ExitCode is
	// ExitNotFound for a missing program and -1 for other start failures.
	Err error
}

// OK reports a zero exit status.
func (r Result) OK() bool {
	return r.ExitCode == 0 && r.Err == nil
}

// Runner starts external commands.
type Runner interface {
	// RunCapturing starts cmd and delivers exactly one Result on the
	// returned channel once the process has exited.
	RunCapturing(ctx context.Context, cmd Command) <-chan Result
	// RunDetached starts cmd without waiting for it. Only a failure to
	// start is reported; the outcome of the process is not observable.
	RunDetached(cmd Command) error
}

// Exec runs commands with os/exec.
type Exec struct {
	Logger *slog.Logger
}

// NewExec returns a runner that logs spawns to logger (nil discards).
func NewExec(logger *slog.Logger) *Exec {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Exec{Logger: logger}
}

// RunCapturing implements Runner.
func (e *Exec) RunCapturing(ctx context.Context, cmd Command) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		out <- e.run(ctx, cmd)
	}()
	return out
}

func (e *Exec) run(ctx context.Context, cmd Command) Result {
	e.Logger.Debug("spawn", "cmd", cmd.String())

	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, cmd.Program, cmd.Args...)
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res
	}

	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	case notFound(err):
		res.ExitCode = ExitNotFound
		res.Err = err
	default:
		res.ExitCode = -1
		res.Err = err
	}
	e.Logger.Debug("exit", "cmd", cmd.Program, "code", res.ExitCode, "err", res.Err)
	return res
}

// RunDetached implements Runner.
func (e *Exec) RunDetached(cmd Command) error {
	e.Logger.Debug("spawn detached", "cmd", cmd.String())

	c := exec.Command(cmd.Program, cmd.Args...)
	if err := c.Start(); err != nil {
		return err
	}
	go func() {
		if err := c.Wait(); err != nil {
			e.Logger.Debug("detached exit", "cmd", cmd.Program, "err", err)
		}
	}()
	return nil
}

func notFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}
