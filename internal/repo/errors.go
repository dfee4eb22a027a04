package repo

import (
	"fmt"
	"strings"
	"time"
)

type NotARepositoryError struct {
	Path string
}

func (e *NotARepositoryError) Error() string {
	return fmt.Sprintf("%s is not inside a git repository", e.Path)
}

type NoCommitsError struct {
	Path string
}

func (e *NoCommitsError) Error() string {
	return fmt.Sprintf("repository at %s has no commits", e.Path)
}

type QueryTimeoutError struct {
	Args    []string
	Timeout time.Duration
}

func (e *QueryTimeoutError) Error() string {
	return fmt.Sprintf("git %s did not finish within %s", strings.Join(e.Args, " "), e.Timeout)
}

type CommandError struct {
	Args    []string
	Output  string
	Wrapped error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s failed", strings.Join(e.Args, " "))
	if e.Output != "" {
		msg += fmt.Sprintf(" (output: %s)", e.Output)
	}
	if e.Wrapped != nil {
		msg += fmt.Sprintf(": %s", e.Wrapped)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Wrapped
}
