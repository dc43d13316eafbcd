package core

import "errors"

var (
	// ErrAuthRequired rejects a mutation that needs a signed-in user. It is
	// recoverable and must not change any state.
	ErrAuthRequired = errors.New("sign in required")

	// ErrNotFound marks the absence of an expected record. It is a valid
	// domain state, not a failure.
	ErrNotFound = errors.New("not found")

	// ErrTransport wraps network or remote-store failures. Callers compensate
	// and log; it never terminates the screen.
	ErrTransport = errors.New("remote store unavailable")
)
