package runner

import (
	"context"
	"fmt"
	"sync"
)

// Fake is a scripted Runner for tests. Captured runs are answered by
// Respond (a zero Result when nil) unless Hold is set, in which case they
// wait until Release is called, which lets tests complete requests out of
// order.
type Fake struct {
	Respond   func(Command) Result
	Hold      bool
	DetachErr error

	mu       sync.Mutex
	calls    []Command
	detached []Command
	held     []heldRun
}

type heldRun struct {
	cmd Command
	out chan Result
}

// RunCapturing implements Runner.
func (f *Fake) RunCapturing(_ context.Context, cmd Command) <-chan Result {
	out := make(chan Result, 1)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cmd)
	if f.Hold {
		f.held = append(f.held, heldRun{cmd: cmd, out: out})
		return out
	}
	var res Result
	if f.Respond != nil {
		res = f.Respond(cmd)
	}
	out <- res
	return out
}

// RunDetached implements Runner.
func (f *Fake) RunDetached(cmd Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DetachErr != nil {
		return f.DetachErr
	}
	f.detached = append(f.detached, cmd)
	return nil
}

// Calls returns the captured commands issued so far.
func (f *Fake) Calls() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Command(nil), f.calls...)
}

// Detached returns the fire-and-forget commands issued so far.
func (f *Fake) Detached() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Command(nil), f.detached...)
}

// Held returns the number of runs waiting for Release.
func (f *Fake) Held() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.held)
}

// Release completes the i-th held run (in issue order) with res.
func (f *Fake) Release(i int, res Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.held) {
		return fmt.Errorf("no held run #%d (have %d)", i, len(f.held))
	}
	h := f.held[i]
	if h.out == nil {
		return fmt.Errorf("held run #%d already released", i)
	}
	h.out <- res
	f.held[i].out = nil
	return nil
}

// Stdout is a Respond helper answering every command with a successful
// run printing s.
func Stdout(s string) func(Command) Result {
	return func(Command) Result {
		return Result{Stdout: s}
	}
}

// Exit is a Respond helper answering every command with the given status.
func Exit(code int) func(Command) Result {
	return func(Command) Result {
		return Result{ExitCode: code}
	}
}
