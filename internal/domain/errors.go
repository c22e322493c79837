package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("resource not found")

// ProbeError reports an unreadable or corrupt source file.
type ProbeError struct {
	Path   string
	Output string
	Err    error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// EncodeError reports a failed external encoding process, carrying its
// exit code and captured stderr.
type EncodeError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *EncodeError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("ffmpeg exited with code %d: %s", e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("ffmpeg: %v", e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
