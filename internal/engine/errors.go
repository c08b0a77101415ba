package engine

import (
	"errors"
	"fmt"
)

var ErrProtocolViolation = errors.New("protocol violation")
var ErrTransportFailure = errors.New("transport failure")
var ErrTerminal = errors.New("session terminated")
var ErrIllegalChoice = errors.New("policy chose a card outside the legal plays")
var ErrAlreadyLoggedIn = errors.New("identity already sent")

// ProtocolError reports an inbound message that breaks the client/authority contract.
type ProtocolError struct {
	Tag    string
	Reason string
}

func Violation(tag, format string, args ...any) *ProtocolError {
	return &ProtocolError{Tag: tag, Reason: fmt.Sprintf(format, args...)}
}

func (e *ProtocolError) Error() string {
	if e.Tag == "" {
		return "protocol violation: " + e.Reason
	}
	return fmt.Sprintf("protocol violation on %q: %s", e.Tag, e.Reason)
}

func (e *ProtocolError) Unwrap() error { return ErrProtocolViolation }

// TransportError wraps a stream-level failure with the operation that hit it.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return "transport failure: " + e.Op
	}
	return fmt.Sprintf("transport failure: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransportFailure}
	}
	return []error{ErrTransportFailure, e.Err}
}
