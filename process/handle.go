package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// maxStderr bounds the stderr kept for a long-running process.
const maxStderr = 64 << 10

// Handle is a running subprocess whose stdout is consumed as a stream.
type Handle struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *tailBuffer
	start  time.Time
	grace  time.Duration

	waitOnce sync.Once
	waitErr  error
	done     chan struct{}
}

// Start launches cmd without waiting for it. The caller reads Stdout until
// EOF and then calls Wait. Cancelling ctx terminates the process group.
func Start(ctx context.Context, cmd Command) (*Handle, error) {
	if cmd.Binary == "" {
		return nil, fmt.Errorf("process: binary is required")
	}

	c := command(ctx, cmd)
	stdout, err := c.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("process: stdout pipe: %w", err)
	}
	h := &Handle{
		cmd:    c,
		stdout: stdout,
		stderr: &tailBuffer{limit: maxStderr},
		grace:  cmd.grace(),
		done:   make(chan struct{}),
	}
	c.Stderr = h.stderr

	if err := c.Start(); err != nil {
		return nil, fmt.Errorf("process: start %s: %w", cmd.Binary, err)
	}
	h.start = time.Now()
	return h, nil
}

// Stdout is the process's standard output. It reaches EOF when the process
// exits.
func (h *Handle) Stdout() io.Reader {
	return h.stdout
}

// Stderr returns the most recent standard error output.
func (h *Handle) Stderr() []byte {
	return h.stderr.Bytes()
}

// Interrupt asks the process group to finish with SIGINT, the signal most
// encoders treat as "flush and exit". If the process has not exited after the
// grace period it is killed.
func (h *Handle) Interrupt() error {
	if h.cmd.Process == nil {
		return nil
	}
	if err := syscall.Kill(-h.cmd.Process.Pid, syscall.SIGINT); err != nil && !errors.Is(err, syscall.ESRCH) {
		return fmt.Errorf("process: interrupt: %w", err)
	}
	go func() {
		select {
		case <-h.done:
		case <-time.After(h.grace):
			_ = syscall.Kill(-h.cmd.Process.Pid, syscall.SIGKILL)
		}
	}()
	return nil
}

// Wait waits for the process to exit and returns its result. Stdout must be
// fully read first. Wait may be called more than once.
func (h *Handle) Wait() (*Result, error) {
	h.waitOnce.Do(func() {
		h.waitErr = h.cmd.Wait()
		close(h.done)
	})
	result := &Result{
		Stderr:   h.stderr.Bytes(),
		ExitCode: h.cmd.ProcessState.ExitCode(),
		Duration: time.Since(h.start),
	}
	if h.waitErr != nil {
		return result, fmt.Errorf("process: exit code %d: %w", result.ExitCode, h.waitErr)
	}
	return result, nil
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, _ := t.buf.Write(p)
	if over := t.buf.Len() - t.limit; over > 0 {
		t.buf.Next(over)
	}
	return n, nil
}

func (t *tailBuffer) Bytes() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]byte(nil), t.buf.Bytes()...)
}
