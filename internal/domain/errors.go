package domain

import (
	"errors"
	"fmt"
)

var (
	ErrStateNotFound = errors.New("engine state not found")
	ErrMalformedLine = errors.New("malformed scan line")
	ErrStaleResume   = errors.New("resume cursor is beyond the end of the source")
)

type MalformedLineError struct {
	Source string
	Line   int
	Text   string
	Reason string
}

func (e *MalformedLineError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("malformed scan line %q: %s", e.Text, e.Reason)
	}

	return fmt.Sprintf("%s:%d: malformed scan line %q: %s", e.Source, e.Line, e.Text, e.Reason)
}

func (e *MalformedLineError) Is(target error) bool {
	return target == ErrMalformedLine
}

// StaleResumeError means the source shrank since it was last read, usually
// because it was truncated or rotated.
type StaleResumeError struct {
	Source string
	Offset int
	Lines  int
}

func (e *StaleResumeError) Error() string {
	return fmt.Sprintf("source %s has %d lines but resume cursor is at line %d", e.Source, e.Lines, e.Offset)
}

func (e *StaleResumeError) Is(target error) bool {
	return target == ErrStaleResume
}
