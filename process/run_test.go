package process_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/voicedoc/process"
)

func TestRunStdoutAndStdin(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "cat",
		Stdin:  strings.NewReader("from stdin"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result.Stdout) != "from stdin" {
		t.Fatalf("expected 'from stdin', got %q", result.Stdout)
	}
}

func TestRunExitCodeAndStderr(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "echo oops >&2; exit 42"},
	})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if result.ExitCode != 42 {
		t.Fatalf("expected exit code 42, got %d", result.ExitCode)
	}
	if strings.TrimSpace(string(result.Stderr)) != "oops" {
		t.Fatalf("expected 'oops' on stderr, got %q", result.Stderr)
	}
}

func TestRunContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	result, err := process.Run(ctx, process.Command{
		Binary:      "sleep",
		Args:        []string{"10"},
		GracePeriod: 500 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected error from context cancellation")
	}
	if result.Duration > 5*time.Second {
		t.Fatalf("process took too long to kill: %v", result.Duration)
	}
}

func TestRunEmptyBinary(t *testing.T) {
	if _, err := process.Run(context.Background(), process.Command{}); err == nil {
		t.Fatal("expected error for empty binary")
	}
	if _, err := process.Start(context.Background(), process.Command{}); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestRunEnv(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "echo $VOICEDOC_TEST_VAR"},
		Env:    []string{"VOICEDOC_TEST_VAR=hello123"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out := strings.TrimSpace(string(result.Stdout)); out != "hello123" {
		t.Fatalf("expected 'hello123', got %q", out)
	}
}

func TestStartStreamsStdout(t *testing.T) {
	h, err := process.Start(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "printf abc; echo warn >&2"},
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	out, err := io.ReadAll(h.Stdout())
	if err != nil {
		t.Fatalf("read stdout: %v", err)
	}
	if string(out) != "abc" {
		t.Errorf("stdout = %q", out)
	}
	result, err := h.Wait()
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if result.ExitCode != 0 || strings.TrimSpace(string(result.Stderr)) != "warn" {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestStartInterrupt(t *testing.T) {
	h, err := process.Start(context.Background(), process.Command{
		Binary:      "sh",
		Args:        []string{"-c", "trap 'printf done; exit 0' INT; while true; do sleep 0.05; done"},
		GracePeriod: time.Second,
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	if err := h.Interrupt(); err != nil {
		t.Fatalf("Interrupt failed: %v", err)
	}
	out, _ := io.ReadAll(h.Stdout())
	if _, err := h.Wait(); err != nil {
		t.Fatalf("expected clean exit after trap, got %v", err)
	}
	if string(out) != "done" {
		t.Errorf("stdout = %q", out)
	}
}

func TestStartUnknownBinary(t *testing.T) {
	_, err := process.Start(context.Background(), process.Command{Binary: "voicedoc-does-not-exist"})
	if err == nil {
		t.Fatal("expected start error")
	}
}
