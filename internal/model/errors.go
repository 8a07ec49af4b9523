package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrNotValid is returned when a resource is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrMissingExecutable is returned when an external executable can't be found before running it.
	ErrMissingExecutable = errors.New("missing executable")
	// ErrExternalProcess is returned when an external process exits with a non zero status.
	ErrExternalProcess = errors.New("external process failed")
	// ErrArtifactDecode is returned when a rendered artifact can't be decoded.
	ErrArtifactDecode = errors.New("could not decode artifact")
	// ErrRemoteAPI is returned when a remote API answers with a non 2xx status.
	ErrRemoteAPI = errors.New("remote API failure")
	// ErrPrecondition is returned when an operation is requested without its required inputs.
	ErrPrecondition = errors.New("precondition violation")
)

// ProcessError is the error of an external process that exited with a non zero status.
type ProcessError struct {
	Executable string
	ExitCode   int
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Executable, e.ExitCode)
}

func (e *ProcessError) Unwrap() error { return ErrExternalProcess }

// APIError is the error returned by remote API clients on non 2xx responses.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("HTTP %d from %s %s", e.StatusCode, e.Method, e.URL)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *APIError) Unwrap() error { return ErrRemoteAPI }
