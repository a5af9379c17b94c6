// Package errs holds small error-classification helpers shared across the
// proxy, ported from the teacher's own errs package.
package errs

import (
	"errors"
	"io"
	"net"
	"strings"
)

// SilentError wraps an error that should terminate a session without being
// logged at error level - an expected condition, such as a peer closing
// its socket during normal teardown.
type SilentError struct {
	Cause error
}

func (e *SilentError) Error() string { return e.Cause.Error() }
func (e *SilentError) Unwrap() error { return e.Cause }

// NewSilentError wraps err as a SilentError.
func NewSilentError(err error) error {
	if err == nil {
		return nil
	}
	return &SilentError{Cause: err}
}

// IsConnClosedErr reports whether err indicates the underlying connection
// was closed or reset, rather than a genuine protocol problem (§7, PeerGone).
func IsConnClosedErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed) {
		return true
	}
	var silent *SilentError
	if errors.As(err, &silent) {
		return IsConnClosedErr(silent.Cause)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "use of closed network connection") ||
		strings.Contains(msg, "connection reset by peer") ||
		strings.Contains(msg, "broken pipe")
}
