// Package process runs subprocesses in their own process group.
//
// Run executes a command to completion and captures its output. Start
// launches a long-running command whose stdout is consumed as a stream, as
// the ffmpeg capture device does.
package process
