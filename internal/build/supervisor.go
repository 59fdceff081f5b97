// Package build supervises one run of the fm_skin_builder worker process:
// spawn, concurrent draining of both output pipes, cancellation, and the
// final completion report.
package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"skinforge"
	"skinforge/internal/check"
)

const (
	// defaultPollInterval bounds how long a pending cancellation can go
	// unobserved by the wait loop.
	defaultPollInterval = 100 * time.Millisecond
	// killGracePeriod is how long a cancelled worker gets to exit on its
	// own before it is force-killed.
	killGracePeriod = 5 * time.Second
)

var (
	// ErrCancelled aborts a run whose handle was taken by Cancel. A
	// cancelled run yields no CompletionResult.
	ErrCancelled = errors.New("build cancelled")
	// ErrBusy rejects a start while another run holds the handle slot.
	ErrBusy = errors.New("a build is already running")
)

// CancelOutcome is the terminal state of a Cancel call.
type CancelOutcome uint8

const (
	OutcomeNone CancelOutcome = iota
	// OutcomeCancelled: a live worker was signalled to stop.
	OutcomeCancelled
	// OutcomeAlreadyCompleted: the worker exited naturally before the
	// signal landed. Not an error.
	OutcomeAlreadyCompleted
	// OutcomeNotRunning: no run held the slot.
	OutcomeNotRunning
)

func (o CancelOutcome) String() string {
	switch o {
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeAlreadyCompleted:
		return "already completed"
	case OutcomeNotRunning:
		return "not running"
	default:
		return "none"
	}
}

// Supervisor owns the worker's lifecycle for at most one run at a time.
// Zero value is not usable; Resolver and Sink must be set.
type Supervisor struct {
	Resolver Resolver
	Sink     skinforge.Sink

	// PollInterval overrides the wait-loop tick; zero means the default.
	PollInterval time.Duration

	slot handleSlot
}

type waitResult struct {
	state *os.ProcessState
	err   error
}

// Run executes one supervised build and blocks until the worker has exited
// and both output streams are drained, or until the run is cancelled.
//
// Milestone events (task_started, build_complete) propagate emit failures;
// per-line events are best-effort. Every fatal condition is mirrored as an
// error-level log line while the sink is reachable.
func (s *Supervisor) Run(ctx context.Context, cfg skinforge.TaskConfig) (*skinforge.CompletionResult, error) {
	check.Assert(s.Resolver != nil, "build.Supervisor: Resolver must not be nil")
	check.Assert(s.Sink != nil, "build.Supervisor: Sink must not be nil")

	if s.slot.occupied() {
		return nil, ErrBusy
	}

	if err := s.Sink.TaskStarted("Initializing backend..."); err != nil {
		return nil, fmt.Errorf("emit task_started: %w", err)
	}
	s.log(skinforge.LevelInfo, "Validating configuration...")

	args, err := BuildArgs(cfg)
	if err != nil {
		s.log(skinforge.LevelError, "Configuration error: "+err.Error())
		return nil, err
	}

	worker, err := s.Resolver.Resolve()
	if err != nil {
		err = fmt.Errorf("resolve worker backend: %w", err)
		s.log(skinforge.LevelError, err.Error())
		return nil, err
	}
	s.log(skinforge.LevelInfo, "Using worker: "+worker.Path)
	s.log(skinforge.LevelInfo, "Starting backend (cold start may take a moment)...")

	cmd := exec.Command(worker.Path, append(slices.Clone(worker.Args), args...)...)
	cmd.Dir = worker.Dir
	if len(worker.Env) > 0 {
		cmd.Env = append(os.Environ(), worker.Env...)
	}

	// Both pipes are captured before the handle can reach the shared slot;
	// a published handle always has live pipes.
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		s.log(skinforge.LevelError, "Failed to capture stdout: "+err.Error())
		return nil, fmt.Errorf("capture stdout: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		s.log(skinforge.LevelError, "Failed to capture stderr: "+err.Error())
		return nil, fmt.Errorf("capture stderr: %w", err)
	}

	s.log(skinforge.LevelInfo, fmt.Sprintf("Spawning worker with args: %v", args))
	if err := cmd.Start(); err != nil {
		err = fmt.Errorf("spawn worker backend: %w", err)
		s.log(skinforge.LevelError, err.Error())
		return nil, err
	}
	slog.Debug("worker spawned", "pid", cmd.Process.Pid, "path", worker.Path)

	if !s.slot.put(cmd.Process) {
		// Lost the race against a concurrent start; this run never owned
		// the slot, so its process must not outlive it.
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
		return nil, ErrBusy
	}
	s.log(skinforge.LevelInfo, "Backend process spawned successfully, processing...")

	// Readers start immediately: a full pipe would stall the worker.
	outStream := &streamer{name: "stdout", sink: s.Sink}
	errStream := &streamer{name: "stderr", sink: s.Sink}
	var g errgroup.Group
	g.Go(func() error {
		defer stdoutPipe.Close()
		return outStream.run(stdoutPipe)
	})
	g.Go(func() error {
		defer stderrPipe.Close()
		return errStream.run(stderrPipe)
	})

	waitDone := make(chan waitResult, 1)
	go func() {
		state, waitErr := cmd.Process.Wait()
		waitDone <- waitResult{state: state, err: waitErr}
	}()

	state, err := s.awaitExit(ctx, waitDone)
	if err != nil {
		if p := s.slot.take(); p != nil {
			_ = p.Kill()
		}
		// The kill reaches only the direct child; anything it spawned
		// still holds the pipe write ends. Closing the read ends
		// unblocks both streamers so joining stays bounded.
		_ = stdoutPipe.Close()
		_ = stderrPipe.Close()
		_ = g.Wait()
		if !errors.Is(err, ErrCancelled) && !errors.Is(err, context.Canceled) {
			s.log(skinforge.LevelError, err.Error())
		}
		return nil, err
	}

	// Hard ordering invariant: both streams fully drained before the
	// report, or trailing output emitted right before exit is lost.
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("drain worker output: %w", err)
	}

	result := buildReport(state, outStream.lines, errStream.lines, cfg.DryRun)
	if err := s.Sink.BuildComplete(result.Success, result.ExitCode, result.Message); err != nil {
		return nil, fmt.Errorf("emit build_complete: %w", err)
	}
	return &result, nil
}

// awaitExit blocks until the worker exits, the run is cancelled, or the
// context is done. The slot lock is only ever taken for bounded
// test-and-take operations, so a pending Cancel is observed within one
// poll interval.
func (s *Supervisor) awaitExit(ctx context.Context, waitDone <-chan waitResult) (*os.ProcessState, error) {
	interval := s.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case res := <-waitDone:
			if res.err != nil {
				s.slot.take()
				return nil, fmt.Errorf("await worker exit: %w", res.err)
			}
			if s.slot.take() == nil {
				// Cancel emptied the slot first; the run is aborted even
				// though the exit status arrived.
				return nil, ErrCancelled
			}
			return res.state, nil
		case <-ticker.C:
			if !s.slot.occupied() {
				return nil, ErrCancelled
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Cancel takes the handle out of the shared slot and signals the worker to
// terminate. Cancelling a worker that already exited naturally reports
// OutcomeAlreadyCompleted, never an error.
func (s *Supervisor) Cancel() (CancelOutcome, error) {
	p := s.slot.take()
	if p == nil {
		return OutcomeNotRunning, nil
	}

	if err := terminate(p); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return OutcomeAlreadyCompleted, nil
		}
		return OutcomeNone, fmt.Errorf("cancel worker: %w", err)
	}

	// Escalate if the worker ignores the polite signal.
	time.AfterFunc(killGracePeriod, func() { _ = p.Kill() })
	return OutcomeCancelled, nil
}

// log emits a routine build_log line; a failed emit is dropped.
func (s *Supervisor) log(level skinforge.LogLevel, msg string) {
	if err := s.Sink.BuildLog(msg, level); err != nil {
		slog.Debug("log emit dropped", "err", err)
	}
}
