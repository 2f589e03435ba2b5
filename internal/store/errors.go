package store

import (
	"errors"
	"fmt"
)

var (
	ErrUpstream = errors.New("entry store request failed")
	// ErrRejected is returned when the store answers 2xx with success=false.
	ErrRejected = errors.New("entry store rejected the request")
)

type UpstreamError struct {
	Status int
	Body   string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("entry store: %v", e.Err)
	}
	return fmt.Sprintf("entry store: status %d: %s", e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }
