package service

import (
	"errors"
	"fmt"
)

var (
	ErrTransport = errors.New("provider unreachable")
	ErrStatus    = errors.New("provider returned non-success status")
	ErrMalformed = errors.New("malformed provider response")
)

// StatusError carries the HTTP status of a failed provider call. It matches
// ErrStatus under errors.Is.
type StatusError struct {
	Service string
	Code    int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s request failed with status: %d", e.Service, e.Code)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// ErrorPolicy decides what a client does when its provider call fails.
type ErrorPolicy int

const (
	// PolicySurface returns the failure to the caller.
	PolicySurface ErrorPolicy = iota
	// PolicyDegrade logs the failure and returns an empty result instead.
	PolicyDegrade
)

func (p ErrorPolicy) String() string {
	switch p {
	case PolicySurface:
		return "surface"
	case PolicyDegrade:
		return "degrade"
	}
	return fmt.Sprintf("ErrorPolicy(%d)", int(p))
}

func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch s {
	case "surface":
		return PolicySurface, nil
	case "degrade":
		return PolicyDegrade, nil
	}
	return PolicySurface, fmt.Errorf("unknown error policy %q", s)
}
