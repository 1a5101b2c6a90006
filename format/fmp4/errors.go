package fmp4

import (
	"errors"
	"fmt"

	"github.com/ugparu/isobmff/format/mp4/mp4io"
)

// ErrEmptyFragment is returned by Muxer.Fragment when nothing was buffered.
var ErrEmptyFragment = errors.New("fmp4: no samples or events buffered")

// BoxTooLargeError reports a box over the demuxer's size ceiling.
type BoxTooLargeError struct {
	Tag    mp4io.Tag
	Offset int64
	Size   uint64
	Max    uint64
}

func (e *BoxTooLargeError) Error() string {
	return fmt.Sprintf("fmp4: %s at %d: size %d exceeds limit %d", e.Tag, e.Offset, e.Size, e.Max)
}

// UnknownTrackError reports a sample written for a track that was never added.
type UnknownTrackError struct {
	TrackID uint32
}

func (e *UnknownTrackError) Error() string {
	return fmt.Sprintf("fmp4: track %d is not registered", e.TrackID)
}
