package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"interviewlens/internal/deps"
	"interviewlens/internal/evidence"
	"interviewlens/internal/logging"
	"interviewlens/internal/services"
)

// BinaryName is the standalone worker executable. It is the only binary
// that links the text recognizer.
const BinaryName = "interviewlens-ocr-worker"

const (
	lockRetryDelay = 250 * time.Millisecond
	pipeWaitDelay  = 5 * time.Second
)

var commandContext = exec.CommandContext

// ErrClosed is returned by Dispatch after Close.
var ErrClosed = errors.New("worker supervisor closed")

// Config describes how the worker process is launched.
type Config struct {
	// Executable is the worker binary. Empty resolves BinaryName with
	// ResolveExecutable at dispatch time.
	Executable string
	// Args are passed to the executable.
	Args []string
	// Env is appended to the supervisor's environment.
	Env []string
	// LockPath is a host-wide lock file held while a worker runs. Empty
	// disables the lock.
	LockPath string
	// Timeout bounds one worker run. Zero waits indefinitely.
	Timeout time.Duration
}

type request struct {
	ctx   context.Context
	task  Task
	reply chan reply
}

type reply struct {
	samples []evidence.RawSlideText
	err     error
}

// Supervisor dispatches recognition tasks to one worker process at a time.
type Supervisor struct {
	cfg    Config
	logger *slog.Logger
	lock   *flock.Flock

	tasks     chan request
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewSupervisor constructs a Supervisor and starts its task loop.
func NewSupervisor(cfg Config, logger *slog.Logger) *Supervisor {
	s := &Supervisor{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "worker"),
		tasks:  make(chan request),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	if strings.TrimSpace(cfg.LockPath) != "" {
		s.lock = flock.New(cfg.LockPath)
	}
	go s.loop()
	return s
}

// Close stops the task loop after the running task, if any, completes.
func (s *Supervisor) Close() error {
	s.closeOnce.Do(func() { close(s.quit) })
	<-s.done
	return nil
}

// Dispatch runs task in a fresh worker process and blocks until it returns.
// The returned slice is never nil. Errors carry services markers:
// ErrExternalTool when the worker cannot start or reports a failure,
// ErrWorkerCrashed when it dies or answers garbage, and ErrTimeout when it
// exceeds the configured timeout.
func (s *Supervisor) Dispatch(ctx context.Context, task Task) ([]evidence.RawSlideText, error) {
	req := request{ctx: ctx, task: task, reply: make(chan reply, 1)}
	select {
	case s.tasks <- req:
	case <-ctx.Done():
		return []evidence.RawSlideText{}, ctx.Err()
	case <-s.quit:
		return []evidence.RawSlideText{}, ErrClosed
	}
	r := <-req.reply
	if r.samples == nil {
		r.samples = []evidence.RawSlideText{}
	}
	return r.samples, r.err
}

func (s *Supervisor) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			return
		case req := <-s.tasks:
			samples, err := s.run(req.ctx, req.task)
			req.reply <- reply{samples: samples, err: err}
		}
	}
}

func (s *Supervisor) run(ctx context.Context, task Task) ([]evidence.RawSlideText, error) {
	logger := logging.WithContext(ctx, s.logger)
	if s.lock != nil {
		if _, err := s.lock.TryLockContext(ctx, lockRetryDelay); err != nil {
			return nil, services.Wrap(services.ErrTransient, "recognition", "acquire worker lock", s.cfg.LockPath, err)
		}
		defer func() {
			if err := s.lock.Unlock(); err != nil {
				logger.Warn("failed to release worker lock", logging.Error(err))
			}
		}()
	}

	runCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	executable, err := ResolveExecutable(s.cfg.Executable)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "recognition", "locate worker", BinaryName, err)
	}

	cmd := commandContext(runCtx, executable, s.cfg.Args...) //nolint:gosec
	cmd.Env = append(os.Environ(), s.cfg.Env...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error { return killGroup(cmd) }
	cmd.WaitDelay = pipeWaitDelay

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "recognition", "stdin pipe", "", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "recognition", "stdout pipe", "", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "recognition", "stderr pipe", "", err)
	}

	started := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "recognition", "start worker", executable, err)
	}
	logger.Info("ocr worker started",
		logging.String(logging.FieldEventType, "worker_started"),
		logging.Int("pid", cmd.Process.Pid),
		logging.Int("candidates", len(task.Candidates)),
		logging.String("language", task.Language),
	)

	var result Result
	var g errgroup.Group
	g.Go(func() error {
		defer stdin.Close()
		return json.NewEncoder(stdin).Encode(task)
	})
	g.Go(func() error {
		data, err := io.ReadAll(stdout)
		if err != nil {
			return err
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return errors.New("worker produced no result")
		}
		return json.Unmarshal(data, &result)
	})
	g.Go(func() error {
		relayLogs(stderr, logging.NewComponentLogger(s.logger, "ocr-worker"))
		return nil
	})
	ioErr := g.Wait()
	waitErr := cmd.Wait()
	elapsed := time.Since(started)

	switch {
	case ctx.Err() != nil:
		return nil, services.Wrap(services.ErrTransient, "recognition", "worker", "canceled", ctx.Err())
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return nil, services.Wrap(services.ErrTimeout, "recognition", "worker",
			fmt.Sprintf("exceeded %s", s.cfg.Timeout), runCtx.Err())
	case waitErr != nil:
		return nil, services.Wrap(services.ErrWorkerCrashed, "recognition", "worker", describeExit(waitErr), waitErr)
	case ioErr != nil:
		return nil, services.Wrap(services.ErrWorkerCrashed, "recognition", "worker", "unreadable result", ioErr)
	case result.Error != "":
		return nil, services.Wrap(services.ErrExternalTool, "recognition", "worker", result.Error, nil)
	}

	logger.Info("ocr worker finished",
		logging.String(logging.FieldEventType, "worker_finished"),
		logging.Int("samples", len(result.Samples)),
		logging.Duration("elapsed", elapsed),
	)
	return result.Samples, nil
}

// killGroup kills the worker and every process it spawned.
func killGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	err := unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	if errors.Is(err, unix.ESRCH) {
		return os.ErrProcessDone
	}
	return err
}

func describeExit(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.String()
	}
	return "wait failed"
}

// ResolveExecutable locates the worker binary. A configured command is
// resolved as given. Otherwise BinaryName is looked up next to the running
// executable, then on PATH.
func ResolveExecutable(configured string) (string, error) {
	if strings.TrimSpace(configured) != "" {
		return deps.ResolveTool(configured)
	}
	if self, err := os.Executable(); err == nil {
		if path, err := deps.ResolveTool(filepath.Join(filepath.Dir(self), BinaryName)); err == nil {
			return path, nil
		}
	}
	return deps.ResolveTool(BinaryName)
}
