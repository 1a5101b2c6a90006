package mp4io

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTooManyEntries is returned for a trun announcing more than
// MaxRunEntries samples without per-sample fields.
var ErrTooManyEntries = errors.New("mp4io: trun: too many entries")

// MalformedHeaderError reports a box header or full-box extension that is
// short or structurally invalid.
type MalformedHeaderError struct {
	Offset int64
	Reason string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("mp4io: malformed header at %d: %s", e.Offset, e.Reason)
}

// UnsupportedVersionError reports a full box version outside the known set.
type UnsupportedVersionError struct {
	Tag     Tag
	Version uint8
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("mp4io: %s: unsupported version %d", e.Tag, e.Version)
}

// TruncatedPayloadError reports a stream that ended before the announced
// box size was consumed.
type TruncatedPayloadError struct {
	Tag    Tag
	Offset int64
	Want   uint64
	Got    uint64
}

func (e *TruncatedPayloadError) Error() string {
	return fmt.Sprintf("mp4io: %s at %d: truncated payload, want %d bytes, got %d", e.Tag, e.Offset, e.Want, e.Got)
}

// DecodeTimeOverflowError is returned when a version 0 tfdt is asked to
// carry a decode time that does not fit in 32 bits.
type DecodeTimeOverflowError struct {
	Time uint64
}

func (e *DecodeTimeOverflowError) Error() string {
	return fmt.Sprintf("mp4io: tfdt: decode time %d overflows version 0 (32 bit) field", e.Time)
}

// UnexpectedBoxError reports a typed read that found a different box.
type UnexpectedBoxError struct {
	Want   Tag
	Got    Tag
	Offset int64
}

func (e *UnexpectedBoxError) Error() string {
	return fmt.Sprintf("mp4io: expected %s box at %d, got %s", e.Want, e.Offset, e.Got)
}

// SizeMismatchError reports a box that wrote a different number of bytes
// than its Len.
type SizeMismatchError struct {
	Tag  Tag
	Want uint64
	Got  uint64
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("mp4io: %s: wrote %d bytes, size is %d", e.Tag, e.Got, e.Want)
}

// ParseError locates a field-level layout failure. Nested boxes chain their
// ParseErrors so the message reads outermost first.
type ParseError struct {
	Debug  string
	Offset int64
	Err    error
}

func (p *ParseError) Error() string {
	s := []string{}
	var cause error
	for err := p; err != nil; {
		s = append(s, fmt.Sprintf("%s:%d", err.Debug, err.Offset))
		next, ok := err.Err.(*ParseError) //nolint:errorlint // walking our own chain
		if !ok {
			cause = err.Err
			break
		}
		err = next
	}
	msg := "mp4io: parse error: " + strings.Join(s, ",")
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return msg
}

func (p *ParseError) Unwrap() error {
	return p.Err
}

func parseErr(debug string, offset int64, prev error) error {
	return &ParseError{Debug: debug, Offset: offset, Err: prev}
}
