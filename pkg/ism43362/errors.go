package ism43362

import (
	"errors"
	"fmt"
)

var (
	// ErrOverrun indicates a response larger than the supplied buffer.
	ErrOverrun = errors.New("response overrun")
	// ErrBufferTooSmall indicates a receive buffer without room for one
	// bus word.
	ErrBufferTooSmall = errors.New("buffer too small")
	// ErrEmptyPayload indicates a transmit with no content.
	ErrEmptyPayload = errors.New("empty payload")
)

// PortError wraps a failure reported by the underlying port.
type PortError struct {
	Op  string
	Err error
}

// Error implements error.
func (e *PortError) Error() string {
	return fmt.Sprintf("port %s: %v", e.Op, e.Err)
}

// Unwrap returns the port failure.
func (e *PortError) Unwrap() error {
	return e.Err
}

// HandshakeError indicates an unexpected power-up announcement.
type HandshakeError struct {
	Greeting string
}

// Error implements error.
func (e *HandshakeError) Error() string {
	return fmt.Sprintf("unexpected greeting %q", e.Greeting)
}

// ResponseError indicates a response the driver could not interpret.
type ResponseError struct {
	Command  string
	Response string
}

// Error implements error.
func (e *ResponseError) Error() string {
	return fmt.Sprintf("command %q: malformed response %q", e.Command, e.Response)
}
