package process

import (
	"io"
	"time"
)

const defaultGrace = 5 * time.Second

// Command is a subprocess to launch.
type Command struct {
	Binary string
	Args   []string
	Dir    string
	// Env is appended to the current environment.
	Env   []string
	Stdin io.Reader
	// GracePeriod separates the polite signal from SIGKILL (default: 5s).
	GracePeriod time.Duration
}

func (c Command) grace() time.Duration {
	if c.GracePeriod > 0 {
		return c.GracePeriod
	}
	return defaultGrace
}

// Result describes a finished subprocess. Stdout is empty for streamed
// processes; ExitCode is -1 when the process was killed by a signal.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}
