package rhserial

import "errors"

var (
	// ErrShortMessage indicates a decoded body is too short to hold the header.
	ErrShortMessage = errors.New("message shorter than header")
	// ErrMalformedFrame indicates the frame markers or escaping are invalid.
	ErrMalformedFrame = errors.New("malformed frame")
	// ErrChecksumMismatch indicates the frame checksum does not match its content.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)
