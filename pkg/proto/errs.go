package proto

import "errors"

// The error taxonomy of §7. Decode and socket errors are always one of
// these (wrapped with errors.Is-compatible sentinels), never a panic.
var (
	// ErrMalformedPacket covers bad varints, truncated fields, zlib
	// failures and decryption misalignment.
	ErrMalformedPacket = errors.New("proto: malformed packet")
	// ErrIncompletePacket is a short read of a framed packet.
	ErrIncompletePacket = errors.New("proto: incomplete packet")
	// ErrProtocolViolation is an out-of-state packet, an unknown id where
	// the state requires one, or a duplicate login.
	ErrProtocolViolation = errors.New("proto: protocol violation")
)

// MalformedPacketError wraps ErrMalformedPacket with context.
type MalformedPacketError struct {
	Reason string
	Cause  error
}

func (e *MalformedPacketError) Error() string {
	if e.Cause != nil {
		return "proto: malformed packet: " + e.Reason + ": " + e.Cause.Error()
	}
	return "proto: malformed packet: " + e.Reason
}

func (e *MalformedPacketError) Unwrap() error { return ErrMalformedPacket }

func (e *MalformedPacketError) Is(target error) bool {
	return target == ErrMalformedPacket
}

func malformed(reason string, cause error) error {
	return &MalformedPacketError{Reason: reason, Cause: cause}
}
