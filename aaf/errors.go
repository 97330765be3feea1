package aaf

import (
	"errors"
	"fmt"
)

// Sentinel errors for the aaf package.
var (
	// ErrOverflow is returned when a decode would write past the end of the
	// caller-supplied output buffer. Nothing is written beyond capacity.
	ErrOverflow = errors.New("aaf: decoded output exceeds buffer capacity")

	// ErrTruncated is returned when the input ends before a complete
	// structure could be read.
	ErrTruncated = errors.New("aaf: truncated input")

	// ErrNoJPEGDecoder is returned when a JPEG-encoded block is encountered
	// and no JPEGDecoder capability has been configured.
	ErrNoJPEGDecoder = errors.New("aaf: no JPEG decoder configured")
)

// FormatError reports a malformed container or frame header. It is fatal to
// the whole asset: callers must not proceed with a partially parsed result.
type FormatError struct {
	Offset int    // byte offset of the failed check, -1 if not applicable
	Reason string
}

func (e *FormatError) Error() string {
	if e.Offset < 0 {
		return "aaf: invalid format: " + e.Reason
	}
	return fmt.Sprintf("aaf: invalid format at offset %d: %s", e.Offset, e.Reason)
}

// DecodeError reports a failure decoding a single block. It degrades only
// that block; rendering continues for the remaining blocks of the frame.
type DecodeError struct {
	Block int
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("aaf: block %d: %v", e.Block, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func formatErr(offset int, reason string) error {
	return &FormatError{Offset: offset, Reason: reason}
}

func decodeErr(block int, err error) error {
	return &DecodeError{Block: block, Err: err}
}
