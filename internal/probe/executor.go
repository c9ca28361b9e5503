package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"
)

const (
	MaxStdoutBytes = 256 * 1024
	MaxStderrBytes = 64 * 1024

	// killGrace is how long the executor waits after a SIGTERM before
	// escalating to SIGKILL on a timed-out child.
	killGrace = 500 * time.Millisecond

	// timeoutExitCode is the sentinel exit code assigned to a probe
	// whose deadline elapsed. Nonzero and distinct from a signal exit
	// (128+n).
	timeoutExitCode = 124
)

// Task is one requested probe invocation: an id plus the argv holes
// needed to resolve its template (e.g. {unit} for a specific service).
type Task struct {
	ID    ID
	Holes map[string]string
}

// Result is a ProbeResult: the wire-level record of one probe
// invocation, produced by the Executor and consumed by the Parsers.
type Result struct {
	ID         ID
	Command    string
	Stdout     string
	Stderr     string
	ExitCode   int
	DurationMs int64

	// Truncated marks that stdout or stderr exceeded its cap and was
	// cut; the trace records this rather than silently dropping it.
	TruncatedStdout bool
	TruncatedStderr bool
}

// IsTimeout reports whether stderr carries the timeout marker the
// executor writes when a probe's deadline elapses.
func (r Result) IsTimeout() bool {
	return strings.Contains(strings.ToLower(r.Stderr), "timeout")
}

// Executor runs probes concurrently, bounded by a worker cap, and
// reassembles results in the order their ids were requested.
type Executor struct {
	registry   *Registry
	workerCap  int
}

// NewExecutor constructs an Executor bound to registry with the given
// worker pool cap, clamped to at most 8 in-flight probes per request
// regardless of configuration.
func NewExecutor(registry *Registry, workerCap int) *Executor {
	if workerCap <= 0 {
		workerCap = 1
	}
	if workerCap > 8 {
		workerCap = 8
	}
	return &Executor{registry: registry, workerCap: workerCap}
}

type indexedResult struct {
	index  int
	result Result
}

// Run invokes each task concurrently, bounded by min(len(tasks),
// workerCap, 8), and returns one Result per task in request order.
// Every task produces a Result; execution failures and timeouts are
// reported as Result fields, never as a Go error, so callers always
// get exactly one result per requested id.
func (e *Executor) Run(ctx context.Context, tasks []Task) []Result {
	cap := e.workerCap
	if len(tasks) < cap {
		cap = len(tasks)
	}
	if cap <= 0 {
		return nil
	}

	sem := make(chan struct{}, cap)
	results := make(chan indexedResult, len(tasks))
	var wg sync.WaitGroup

	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task Task) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results <- indexedResult{index: i, result: e.runOne(ctx, task)}
		}(i, task)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]Result, len(tasks))
	for ir := range results {
		ordered[ir.index] = ir.result
	}
	return ordered
}

func (e *Executor) runOne(ctx context.Context, task Task) Result {
	spec, ok := e.registry.Get(task.ID)
	if !ok {
		return Result{
			ID:       task.ID,
			ExitCode: 127,
			Stderr:   fmt.Sprintf("internal error: probe %q not in catalog", task.ID),
		}
	}

	argv, err := spec.Build(task.Holes)
	if err != nil {
		return Result{ID: task.ID, ExitCode: 127, Stderr: err.Error()}
	}

	deadline := time.Now().Add(time.Duration(spec.TimeoutMs) * time.Millisecond)
	runCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Cancel = func() error { return cmd.Process.Signal(syscall.SIGTERM) }
	cmd.WaitDelay = killGrace
	cmd.Env = safeEnviron()

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &capWriter{buf: &stdoutBuf, limit: MaxStdoutBytes}
	cmd.Stderr = &capWriter{buf: &stderrBuf, limit: MaxStderrBytes}

	runErr := cmd.Run()
	duration := time.Since(start)

	exitCode := 0
	stderr := stderrBuf.String()

	switch {
	case runCtx.Err() == context.DeadlineExceeded:
		exitCode = timeoutExitCode
		stderr = fmt.Sprintf("probe %s timeout after %s", task.ID, spec.milliseconds())
	case runErr != nil:
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = 127
			if stderr == "" {
				stderr = runErr.Error()
			}
		}
	}

	slog.Debug("probe executed",
		slog.String("id", string(task.ID)),
		slog.Int("exit_code", exitCode),
		slog.Duration("duration", duration),
	)

	return Result{
		ID:              task.ID,
		Command:         strings.Join(argv, " "),
		Stdout:          stdoutBuf.String(),
		Stderr:          stderr,
		ExitCode:        exitCode,
		DurationMs:      duration.Milliseconds(),
		TruncatedStdout: stdoutBuf.Len() >= MaxStdoutBytes,
		TruncatedStderr: stderrBuf.Len() >= MaxStderrBytes,
	}
}

func (s Spec) milliseconds() time.Duration {
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

// safeEnviron returns the scrubbed environment subset probes run
// under: PATH, LANG, LC_ALL and HOME only. No caller-supplied
// environment variable ever reaches a probe.
func safeEnviron() []string {
	allow := map[string]bool{
		"PATH": true, "LANG": true, "LC_ALL": true, "HOME": true,
	}
	var env []string
	for _, kv := range safeEnvironSource() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 && allow[parts[0]] {
			env = append(env, kv)
		}
	}
	return env
}

func safeEnvironSource() []string {
	return os.Environ()
}

// capWriter bounds how many bytes are retained from a stream while
// still letting the underlying command write past the cap (draining
// it to avoid the process blocking on a full pipe).
type capWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *capWriter) Write(p []byte) (int, error) {
	if w.buf.Len() < w.limit {
		remaining := w.limit - w.buf.Len()
		if remaining > len(p) {
			remaining = len(p)
		}
		w.buf.Write(p[:remaining])
	}
	return len(p), nil
}

var _ io.Writer = (*capWriter)(nil)

// On deadline, runOne's cmd.Cancel sends SIGTERM and cmd.WaitDelay
// (killGrace) makes exec escalate to SIGKILL if the child is still
// running once the grace period has elapsed.
var _ = syscall.SIGTERM
